package ansicell

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // gif decoder
	_ "image/jpeg" // jpeg decoder
	_ "image/png"  // png decoder
	"io"
	"os"

	"fortio.org/log"
	"fortio.org/tpick/webcolor"
	_ "github.com/jbuchbinder/gopnm" // ppm/pnm decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // tiff decoder
	_ "golang.org/x/image/vp8"  // vp8 decoder
	_ "golang.org/x/image/vp8l" // vp8l decoder
	_ "golang.org/x/image/webp" // webp decoder
)

// LoadImage reads and decodes an image file. Decoders are registered for
// png, jpeg, gif, tiff, webp and pnm/ppm.
func LoadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeImage(f)
}

func DecodeImage(inp io.Reader) (*image.RGBA, error) {
	all, err := io.ReadAll(inp)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(all))
	if err != nil {
		return nil, err
	}
	log.Debugf("Image format: %s (%dx%d)", format, img.Bounds().Dx(), img.Bounds().Dy())
	return ToRGBA(img), nil
}

// ToRGBA converts any image to *image.RGBA, without copying when already one.
func ToRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}

// ScaleImage resizes img to exactly w x h pixels using bilinear interpolation.
func ScaleImage(img image.Image, w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Dx() == w && b.Dy() == h {
		return rgba
	}
	resized := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(resized, resized.Bounds(), img, b, draw.Src, nil)
	return resized
}

// Blit renders img into the cell rectangle r, 2 vertical pixels per cell
// using the lower half pixel, scaling the image to r.W x 2*r.H first.
// Uses 24 bit colors when TrueColor else the 216 color cube.
func (s *Screen) Blit(img image.Image, r Rect) {
	if r.Empty() {
		return
	}
	rgba := ScaleImage(img, r.W, 2*r.H)
	if s.TrueColor {
		s.blitTrueColor(r.X, r.Y, rgba)
	} else {
		s.blit216(r.X, r.Y, rgba)
	}
}

func (s *Screen) blitTrueColor(sx, sy int, img *image.RGBA) {
	prevFg := color.RGBA{}
	prevBg := color.RGBA{}
	// Both fg and bg black, matching the prev zero values.
	s.WriteAtStr(sx, sy, "\033[38;5;0m\033[48;5;0m")
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y += 2 {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			topPixel := img.RGBAAt(x, y)
			bottomPixel := img.RGBAAt(x, y+1)
			switch {
			case topPixel == bottomPixel:
				// Space with background color instead of full pixel: avoids color
				// bleed on some terminals and is 1 byte instead of 3.
				if bottomPixel == prevBg {
					s.WriteRune(' ')
					continue
				}
				s.WriteString(fmt.Sprintf("\033[48;2;%d;%d;%dm ", topPixel.R, topPixel.G, topPixel.B))
				prevBg = topPixel // == bottomPixel
				continue
			case bottomPixel == prevFg && topPixel == prevBg:
				s.WriteRune(BottomHalfPixel)
			default:
				s.WriteString(fmt.Sprintf("\033[48;2;%d;%d;%dm\033[38;2;%d;%d;%dm▄",
					topPixel.R, topPixel.G, topPixel.B,
					bottomPixel.R, bottomPixel.G, bottomPixel.B))
			}
			prevFg = bottomPixel
			prevBg = topPixel
		}
		sy++
		s.MoveCursor(sx, sy)
	}
	s.WriteString(webcolor.Reset)
}

func (s *Screen) blit216(sx, sy int, img *image.RGBA) {
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y += 2 {
		prevFg := uint8(0)
		prevBg := uint8(0)
		s.WriteAtStr(sx, sy, webcolor.Reset)
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			topPixel := img.RGBAAt(x, y)
			bottomPixel := img.RGBAAt(x, y+1)
			bgColor := webcolor.RGBA{R: topPixel.R, G: topPixel.G, B: topPixel.B, A: 255}.To216()
			fgColor := webcolor.RGBA{R: bottomPixel.R, G: bottomPixel.G, B: bottomPixel.B, A: 255}.To216()
			switch {
			case fgColor == bgColor:
				if bgColor == prevBg {
					s.WriteRune(' ')
				} else {
					s.WriteString(fmt.Sprintf("\033[48;5;%dm ", bgColor))
					prevBg = bgColor
				}
			case fgColor == prevFg && bgColor == prevBg:
				s.WriteRune(BottomHalfPixel)
			case fgColor == prevFg:
				s.WriteString(fmt.Sprintf("\033[48;5;%dm▄", bgColor))
				prevBg = bgColor
			case bgColor == prevBg:
				s.WriteString(fmt.Sprintf("\033[38;5;%dm▄", fgColor))
				prevFg = fgColor
			default:
				s.WriteString(fmt.Sprintf("\033[38;5;%dm\033[48;5;%dm▄", fgColor, bgColor))
				prevFg = fgColor
				prevBg = bgColor
			}
		}
		sy++
	}
	s.WriteString(webcolor.Reset)
}
