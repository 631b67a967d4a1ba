// Command paintdemo runs a short editing session through the paint API
// and writes the result.
package main

import (
	"context"
	"flag"
	"image/color"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gg"

	paint "github.com/gogpu/gg-paint"
	"github.com/gogpu/gg-paint/codec"
	"github.com/gogpu/gg-paint/input"
	"github.com/gogpu/gg-paint/tool"
)

func main() {
	var (
		width   = flag.Int("width", 200, "surface width")
		height  = flag.Int("height", 200, "surface height")
		output  = flag.String("output", "scenario.png", "output file")
		format  = flag.String("format", "", "output format (png, jpeg, pdf); default from -output")
		hex     = flag.String("color", "#000000", "rectangle color")
		label   = flag.String("text", "", "optional caption drawn under the pasted block")
		verbose = flag.Bool("v", false, "log session activity")
	)
	flag.Parse()

	if *verbose {
		paint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	name := *format
	if name == "" {
		f, err := codec.ForPath(*output)
		if err != nil {
			log.Fatalf("Unknown output format: %v", err)
		}
		name = f.Name
	}

	s, err := paint.New(*width, *height)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := run(s, color.NRGBAModel.Convert(gg.Hex(*hex).Color()).(color.NRGBA), *label); err != nil {
		log.Fatalf("Scenario failed: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	if err := s.Export(f, name); err != nil {
		_ = f.Close()
		log.Fatalf("Failed to export: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Scenario saved to %s (%dx%d, %s, %d history entries)\n",
		*output, s.Size().X, s.Size().Y, name, s.HistoryLen())
}

// run draws a filled rectangle, cuts a region containing it, pastes it and
// commits the paste. Gestures go through a pointer adapter the way a
// front end would feed them.
func run(s *paint.Session, c color.NRGBA, label string) error {
	filled := true
	if _, err := s.SetStyle(tool.StyleUpdate{Color: &c, Filled: &filled}); err != nil {
		return err
	}
	if _, err := s.SetTool(tool.Rect); err != nil {
		return err
	}

	ptr := input.NewPointer(input.NewViewport(0, 0), s)
	drag := func(x0, y0, x1, y1 float64) error {
		if err := ptr.Down(input.PointerEvent{ClientX: x0, ClientY: y0}); err != nil {
			return err
		}
		if err := ptr.Move(input.PointerEvent{ClientX: x1, ClientY: y1}); err != nil {
			return err
		}
		return ptr.Up(input.PointerEvent{ClientX: x1, ClientY: y1})
	}

	if err := drag(20, 20, 80, 80); err != nil {
		return err
	}
	if _, err := s.SetTool(tool.Select); err != nil {
		return err
	}
	if err := drag(20, 20, 80, 80); err != nil {
		return err
	}
	if _, err := s.Cut(); err != nil {
		return err
	}
	if _, err := s.Paste(); err != nil {
		return err
	}
	if _, err := s.Commit(); err != nil {
		return err
	}

	if label == "" {
		return nil
	}
	if _, err := s.SetTool(tool.Text); err != nil {
		return err
	}
	if err := s.GestureStart(gg.Pt(50, 140)); err != nil {
		return err
	}
	if err := s.SubmitText(label); err != nil {
		return err
	}

	// Undo and redo the caption to exercise history.
	ctx := context.Background()
	if _, err := s.Undo(ctx); err != nil {
		return err
	}
	_, err := s.Redo(ctx)
	return err
}
