package ansicell_test

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"fortio.org/tpick/ansicell"
)

var _ ansicell.Clock = (*ansicell.Screen)(nil)

func headless(w, h int) (*ansicell.Screen, *ansicell.FlushableBytesBuffer) {
	buf := &ansicell.FlushableBytesBuffer{}
	return &ansicell.Screen{Out: buf, W: w, H: h}, buf
}

func press(x, y int) ansicell.MouseEvent {
	return ansicell.MouseEvent{X: x, Y: y, Buttons: ansicell.MouseLeft}
}

func drag(x, y int) ansicell.MouseEvent {
	return ansicell.MouseEvent{X: x, Y: y, Buttons: ansicell.MouseMove | ansicell.MouseLeft}
}

func release(x, y int) ansicell.MouseEvent {
	return ansicell.MouseEvent{X: x, Y: y, Buttons: ansicell.MouseRelease}
}

func TestDispatchRouting(t *testing.T) {
	s, _ := headless(80, 24)
	var trace []string
	record := func(name string, handled bool) func(ansicell.MouseEvent) bool {
		return func(_ ansicell.MouseEvent) bool {
			trace = append(trace, name)
			return handled
		}
	}
	bottom := s.Subscribe(ansicell.Handler{
		Rect:  ansicell.Rect{X: 0, Y: 0, W: 20, H: 10},
		Mouse: record("bottom", true),
	})
	top := s.Subscribe(ansicell.Handler{
		Rect:  ansicell.Rect{X: 5, Y: 5, W: 10, H: 2},
		Mouse: record("top", true),
		Focus: func(gained bool) {
			if gained {
				trace = append(trace, "top focused")
			}
		},
	})
	if s.SubscriptionCount() != 2 {
		t.Fatalf("SubscriptionCount() = %d, want 2", s.SubscriptionCount())
	}
	// Overlap: the most recently subscribed handler wins, and the click
	// focuses it before the handler runs.
	if !s.Dispatch(press(6, 5)) {
		t.Error("press in overlap not handled")
	}
	want := []string{"top focused", "top"}
	if strings.Join(trace, ",") != strings.Join(want, ",") {
		t.Errorf("trace %v, want %v", trace, want)
	}
	if s.Focused() != top {
		t.Errorf("Focused() = %d, want %d", s.Focused(), top)
	}
	// The handled press captured; drags outside any rect still route there.
	if s.Captured() != top {
		t.Fatalf("Captured() = %d, want %d", s.Captured(), top)
	}
	trace = nil
	s.Dispatch(drag(70, 20))
	s.Dispatch(release(70, 20))
	if strings.Join(trace, ",") != "top,top" {
		t.Errorf("captured drag trace %v", trace)
	}
	if s.Captured() != 0 {
		t.Error("capture not cleared by release")
	}
	// Outside the top rect the bottom handler gets it now.
	trace = nil
	s.Dispatch(press(1, 1))
	s.Dispatch(release(1, 1))
	if strings.Join(trace, ",") != "bottom,bottom" {
		t.Errorf("trace %v, want bottom,bottom", trace)
	}
	if s.Focused() != bottom {
		t.Errorf("Focused() = %d, want %d", s.Focused(), bottom)
	}
	// Click hitting nothing blurs and is unhandled.
	if s.Dispatch(press(70, 20)) {
		t.Error("press outside all rects reported handled")
	}
	if s.Focused() != 0 {
		t.Errorf("Focused() = %d after outside click, want 0", s.Focused())
	}
}

func TestDispatchUnhandledPress(t *testing.T) {
	s, _ := headless(80, 24)
	id := s.Subscribe(ansicell.Handler{
		Rect:  ansicell.Rect{W: 10, H: 10},
		Mouse: func(ansicell.MouseEvent) bool { return false },
	})
	if s.Dispatch(press(1, 1)) {
		t.Error("declined press reported handled")
	}
	if s.Captured() != 0 {
		t.Error("declined press should not capture")
	}
	if s.Focused() != id {
		t.Error("click should focus the hit handler even when declined")
	}
}

func TestFocusNotifications(t *testing.T) {
	s, _ := headless(80, 24)
	var trace []string
	sub := func(name string) int {
		return s.Subscribe(ansicell.Handler{Focus: func(gained bool) {
			if gained {
				trace = append(trace, name+"+")
			} else {
				trace = append(trace, name+"-")
			}
		}})
	}
	a := sub("a")
	b := sub("b")
	s.Focus(a)
	s.Focus(a) // no-op, already focused
	s.Focus(b)
	s.Focus(0)
	want := "a+,a-,b+,b-"
	if got := strings.Join(trace, ","); got != want {
		t.Errorf("focus trace %q, want %q", got, want)
	}
}

func TestKeyRouting(t *testing.T) {
	s, _ := headless(80, 24)
	var got []rune
	id := s.Subscribe(ansicell.Handler{Key: func(k ansicell.KeyEvent) bool {
		got = append(got, k.Rune)
		return true
	}})
	if s.Dispatch(ansicell.KeyEvent{Kind: ansicell.KeyRune, Rune: 'x'}) {
		t.Error("key with no focus should be unhandled")
	}
	s.Focus(id)
	if !s.Dispatch(ansicell.KeyEvent{Kind: ansicell.KeyRune, Rune: 'y'}) {
		t.Error("key with focus should be handled")
	}
	if len(got) != 1 || got[0] != 'y' {
		t.Errorf("handler saw %q, want just 'y'", string(got))
	}
}

func TestUnsubscribe(t *testing.T) {
	s, _ := headless(80, 24)
	a := s.Subscribe(ansicell.Handler{Rect: ansicell.Rect{W: 5, H: 5}})
	b := s.Subscribe(ansicell.Handler{Rect: ansicell.Rect{W: 5, H: 5}})
	s.Focus(a)
	s.Capture(b)
	s.Unsubscribe(b)
	if s.Captured() != 0 {
		t.Error("unsubscribe should drop capture")
	}
	s.Unsubscribe(a)
	if s.Focused() != 0 {
		t.Error("unsubscribe should drop focus")
	}
	if s.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", s.SubscriptionCount())
	}
	s.Unsubscribe(a) // already gone, harmless
}

func TestSetRect(t *testing.T) {
	s, _ := headless(80, 24)
	hits := 0
	id := s.Subscribe(ansicell.Handler{
		Rect:  ansicell.Rect{X: 0, Y: 0, W: 2, H: 2},
		Mouse: func(ansicell.MouseEvent) bool { hits++; return true },
	})
	s.SetRect(id, ansicell.Rect{X: 10, Y: 10, W: 2, H: 2})
	s.Dispatch(press(0, 0))
	s.Dispatch(release(0, 0))
	if hits != 0 {
		t.Error("old rect still receiving events after SetRect")
	}
	s.Dispatch(press(11, 11))
	if hits != 1 {
		t.Errorf("new rect got %d events, want 1", hits)
	}
}

func TestScheduleCancel(t *testing.T) {
	s, _ := headless(80, 24)
	var ran []int
	s.Schedule(func() { ran = append(ran, 1) })
	cancel := s.Schedule(func() { ran = append(ran, 2) })
	s.Schedule(func() { ran = append(ran, 3) })
	cancel()
	cancel() // double cancel is a no-op
	s.RunScheduled()
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 3 {
		t.Errorf("ran %v, want [1 3]", ran)
	}
	// Callbacks scheduled while running go to the next round.
	ran = nil
	s.Schedule(func() {
		ran = append(ran, 1)
		s.Schedule(func() { ran = append(ran, 2) })
	})
	s.RunScheduled()
	if len(ran) != 1 {
		t.Fatalf("nested callback ran in the same round: %v", ran)
	}
	s.RunScheduled()
	if len(ran) != 2 || ran[1] != 2 {
		t.Errorf("ran %v, want [1 2]", ran)
	}
}

func TestDrawingPrimitives(t *testing.T) {
	s, buf := headless(10, 5)
	s.MoveCursor(0, 0)
	if got := buf.String(); got != "\033[1;1H" {
		t.Errorf("MoveCursor(0,0) = %q", got)
	}
	buf.Reset()
	s.WriteAt(2, 1, "%d%%", 42)
	if got := buf.String(); got != "\033[2;3H42%" {
		t.Errorf("WriteAt = %q", got)
	}
	buf.Reset()
	s.WriteCentered(0, "ab")
	if got := buf.String(); got != "\033[1;5Hab" {
		t.Errorf("WriteCentered = %q", got)
	}
	buf.Reset()
	s.ClearRect(ansicell.Rect{X: 1, Y: 1, W: 3, H: 2})
	if got := buf.String(); got != "\033[2;2H   \033[3;2H   " {
		t.Errorf("ClearRect = %q", got)
	}
	if ansicell.StringWidth("日本") != 4 {
		t.Errorf("StringWidth(日本) = %d, want 4", ansicell.StringWidth("日本"))
	}
}

func TestDrawBox(t *testing.T) {
	s, buf := headless(10, 5)
	s.DrawRoundBox(ansicell.Rect{X: 0, Y: 0, W: 3, H: 3})
	got := buf.String()
	for _, piece := range []string{"╭─╮", "╰─╯", "│"} {
		if !strings.Contains(got, piece) {
			t.Errorf("box output %q missing %q", got, piece)
		}
	}
	buf.Reset()
	s.DrawSquareBox(ansicell.Rect{X: 0, Y: 0, W: 1, H: 1})
	if buf.Len() != 0 {
		t.Errorf("degenerate box drew %q", buf.String())
	}
}

func TestMouseModes(t *testing.T) {
	s, buf := headless(10, 5)
	s.MouseClickOn()
	if got := buf.String(); got != "\033[?1000h" {
		t.Errorf("MouseClickOn = %q", got)
	}
	buf.Reset()
	id := s.Subscribe(ansicell.Handler{})
	s.Capture(id)
	if got := buf.String(); got != "\033[?1003h" {
		t.Errorf("Capture should enable tracking, got %q", got)
	}
	buf.Reset()
	s.Capture(0)
	if got := buf.String(); got != "\033[?1003l\033[?1000h" {
		t.Errorf("Capture(0) should fall back to click mode, got %q", got)
	}
	buf.Reset()
	s.MouseOff()
	if got := buf.String(); got != "\033[?1000l" {
		t.Errorf("MouseOff = %q", got)
	}
	// Headless screens never write mouse sequences from Capture.
	s2, buf2 := headless(10, 5)
	s2.Capture(1)
	if buf2.Len() != 0 {
		t.Errorf("headless Capture wrote %q", buf2.String())
	}
}

func TestFrameStats(t *testing.T) {
	var fs ansicell.FrameStats
	if fs.String() != "no frames" {
		t.Errorf("empty stats = %q", fs.String())
	}
	fs.Record(2 * time.Millisecond)
	fs.Record(4 * time.Millisecond)
	fs.Record(9 * time.Millisecond)
	if fs.Min != 2*time.Millisecond || fs.Max != 9*time.Millisecond || fs.Avg() != 5*time.Millisecond {
		t.Errorf("min/avg/max = %v/%v/%v", fs.Min, fs.Avg(), fs.Max)
	}
	if !strings.Contains(fs.String(), "3 frames") {
		t.Errorf("String() = %q", fs.String())
	}
	fs.Reset()
	if fs.Count != 0 {
		t.Error("Reset did not clear")
	}

	s, _ := headless(10, 5)
	s.StartFrame()
	s.EndFrame()
	s.EndFrame() // unpaired, ignored
	if s.Stats().Count != 1 {
		t.Errorf("screen stats count = %d, want 1", s.Stats().Count)
	}
}

func testImage() *image.RGBA {
	// 2x4 pixels: red on the top two rows, blue on the bottom two.
	img := image.NewRGBA(image.Rect(0, 0, 2, 4))
	for x := range 2 {
		for y := range 2 {
			img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
			img.SetRGBA(x, y+2, color.RGBA{B: 255, A: 255})
		}
	}
	return img
}

func TestBlitTrueColor(t *testing.T) {
	s, buf := headless(10, 5)
	s.TrueColor = true
	s.Blit(testImage(), ansicell.Rect{X: 0, Y: 0, W: 2, H: 2})
	got := buf.String()
	if !strings.Contains(got, "\033[48;2;255;0;0m") {
		t.Errorf("missing red background in %q", got)
	}
	if !strings.Contains(got, "\033[48;2;0;0;255m") {
		t.Errorf("missing blue background in %q", got)
	}
	if !strings.HasSuffix(got, "\033[0m") {
		t.Errorf("missing reset at end of %q", got)
	}
}

func TestBlit216(t *testing.T) {
	s, buf := headless(10, 5)
	s.Blit(testImage(), ansicell.Rect{X: 0, Y: 0, W: 2, H: 2})
	got := buf.String()
	if !strings.Contains(got, "\033[48;5;196m") { // 216 color red
		t.Errorf("missing red background in %q", got)
	}
	if !strings.Contains(got, "\033[48;5;21m") { // 216 color blue
		t.Errorf("missing blue background in %q", got)
	}
}

func TestScaleImage(t *testing.T) {
	img := testImage()
	scaled := ansicell.ScaleImage(img, 4, 8)
	b := scaled.Bounds()
	if b.Dx() != 4 || b.Dy() != 8 {
		t.Errorf("scaled to %dx%d, want 4x8", b.Dx(), b.Dy())
	}
	// Same size short circuits to the same image.
	if ansicell.ScaleImage(img, 2, 4) != img {
		t.Error("same size scale should return the input")
	}
	if !ansicell.ScaleImage(img, 0, 3).Bounds().Empty() {
		t.Error("zero width scale should be empty")
	}
}

func TestToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	got := ansicell.ToRGBA(src)
	if c := got.RGBAAt(1, 1); c.R != 10 || c.G != 20 || c.B != 30 {
		t.Errorf("converted pixel %v", c)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if ansicell.ToRGBA(rgba) != rgba {
		t.Error("rgba input should pass through")
	}
}
