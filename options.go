package tpick // import "fortio.org/tpick"

import (
	"fmt"
	"strings"

	"fortio.org/tpick/ansicell"
)

// Placement is where the panel opens relative to the anchor.
type Placement uint8

const (
	// PlacementBottom is the default, panel below the anchor.
	PlacementBottom Placement = iota
	PlacementTop
	PlacementLeft
	PlacementRight
	// PlacementNone renders the panel inline at the anchor position,
	// permanently open, bypassing the popup state machine.
	PlacementNone
)

func (pl Placement) String() string {
	switch pl {
	case PlacementBottom:
		return "bottom"
	case PlacementTop:
		return "top"
	case PlacementLeft:
		return "left"
	case PlacementRight:
		return "right"
	case PlacementNone:
		return "inline"
	}
	return fmt.Sprintf("placement(%d)", uint8(pl))
}

// ParsePlacement converts a flag value to a Placement. "none", "false"
// and "inline" all select the inline mode.
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(s) {
	case "bottom", "":
		return PlacementBottom, nil
	case "top":
		return PlacementTop, nil
	case "left":
		return PlacementLeft, nil
	case "right":
		return PlacementRight, nil
	case "none", "false", "inline":
		return PlacementNone, nil
	}
	return PlacementBottom, &ConfigurationError{Option: "popup", Detail: fmt.Sprintf("unknown placement %q", s)}
}

// EditorFormat selects how the text editor renders the current color.
type EditorFormat uint8

const (
	FormatHex EditorFormat = iota // default
	FormatHSL
	FormatRGB
)

func (f EditorFormat) String() string {
	switch f {
	case FormatHex:
		return "hex"
	case FormatHSL:
		return "hsl"
	case FormatRGB:
		return "rgb"
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

func ParseEditorFormat(s string) (EditorFormat, error) {
	switch strings.ToLower(s) {
	case "hex", "":
		return FormatHex, nil
	case "hsl":
		return FormatHSL, nil
	case "rgb":
		return FormatRGB, nil
	}
	return FormatHex, &ConfigurationError{Option: "editorFormat", Detail: fmt.Sprintf("unknown format %q", s)}
}

// ConfigurationError reports an invalid Options field, failing fast at
// construction or reconfiguration time.
type ConfigurationError struct {
	Option string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("picker configuration %s: %s", e.Option, e.Detail)
}

// Options configures a Picker. Immutable during a session; Reconfigure
// replaces it wholesale. Start from DefaultOptions and override.
type Options struct {
	// Anchor is the host owned cell rectangle the popup opens against
	// (and which triggers opening unless ManualPopup). Inline mode
	// renders the panel at the anchor position instead.
	Anchor ansicell.Rect
	Popup  Placement
	// ManualPopup leaves the anchor unbound: only Show() opens.
	ManualPopup bool
	// Layout names a panel geometry preset ("default", "wide").
	Layout string
	// Alpha enables the alpha channel. Disabled, alpha is pinned to 1
	// after every parse and update and the alpha track is not rendered.
	Alpha bool
	// Editor enables the text field.
	Editor       bool
	EditorFormat EditorFormat
	CancelButton bool
	// Color is the initial color string ("gold" if empty).
	Color string

	// Callbacks, all optional, all receiving the full derived view set.
	OnChange func(ColorView)
	OnDone   func(ColorView)
	OnOpen   func(ColorView)
	OnClose  func(ColorView)
}

// DefaultOptions returns the documented defaults: bottom popup, alpha
// and editor enabled, hex editor format, no cancel button, gold.
func DefaultOptions() Options {
	return Options{
		Alpha:  true,
		Editor: true,
		Color:  "gold",
	}
}

func (o *Options) validate() error {
	if o.Popup > PlacementNone {
		return &ConfigurationError{Option: "popup", Detail: fmt.Sprintf("unknown placement %d", o.Popup)}
	}
	if o.EditorFormat > FormatRGB {
		return &ConfigurationError{Option: "editorFormat", Detail: fmt.Sprintf("unknown format %d", o.EditorFormat)}
	}
	if o.Layout == "" {
		o.Layout = "default"
	}
	if _, ok := layouts[o.Layout]; !ok {
		return &ConfigurationError{Option: "layout", Detail: fmt.Sprintf("unknown layout %q", o.Layout)}
	}
	if o.Popup == PlacementNone && o.Anchor.Empty() {
		return &ConfigurationError{Option: "anchor", Detail: "inline mode needs an anchor rectangle"}
	}
	if o.Color == "" {
		o.Color = "gold"
	}
	return nil
}
