package paint

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/gogpu/gg-paint/history"
	"github.com/gogpu/gg-paint/selection"
	"github.com/gogpu/gg-paint/surface"
	"github.com/gogpu/gg-paint/tool"
)

// Option configures a Session during creation.
//
// Example:
//
//	s, err := paint.New(800, 600,
//	    paint.WithMaxHistory(100),
//	    paint.WithTool(tool.Brush),
//	)
type Option func(*options)

// options holds optional configuration for Session creation.
type options struct {
	maxHistory   int
	background   color.NRGBA
	style        tool.Style
	tool         tool.Kind
	codec        surface.Codec
	fonts        *tool.FontBook
	pasteOffset  image.Point
	minSelection int
	logger       *slog.Logger
}

// defaultOptions returns the default session options.
func defaultOptions() options {
	return options{
		maxHistory:   history.DefaultMax,
		background:   color.NRGBA{255, 255, 255, 255},
		style:        tool.DefaultStyle(),
		tool:         tool.Pencil,
		codec:        surface.PNGCodec{},
		pasteOffset:  selection.DefaultPasteOffset,
		minSelection: selection.DefaultMinSize,
	}
}

// WithMaxHistory sets the number of retained undo entries (default 50).
// Values below 1 keep the default.
func WithMaxHistory(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.maxHistory = n
		}
	}
}

// WithBackground sets the background color used by clear, cut, the
// eraser, resize and import (default opaque white).
func WithBackground(c color.NRGBA) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithStyle sets the initial style. The style is normalized.
func WithStyle(st tool.Style) Option {
	return func(o *options) {
		o.style = st.Normalize()
	}
}

// WithTool sets the initial tool (default Pencil).
func WithTool(k tool.Kind) Option {
	return func(o *options) {
		if k.Valid() {
			o.tool = k
		}
	}
}

// WithSnapshotCodec sets the codec used for history snapshots
// (default surface.PNGCodec).
//
// Example:
//
//	// Trade memory for speed on small surfaces
//	s, _ := paint.New(256, 256, paint.WithSnapshotCodec(surface.RawCodec{}))
func WithSnapshotCodec(c surface.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithFontBook sets the fonts available to the text tool. Sessions share
// a FontBook safely.
func WithFontBook(b *tool.FontBook) Option {
	return func(o *options) {
		o.fonts = b
	}
}

// WithPasteOffset sets where pasted pixels appear (default (50, 50)).
func WithPasteOffset(p image.Point) Option {
	return func(o *options) {
		o.pasteOffset = p
	}
}

// WithMinSelection sets the size a selection drag must exceed in both
// dimensions (default 5).
func WithMinSelection(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.minSelection = n
		}
	}
}

// WithLogger sets the logger for this session instead of the package
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
