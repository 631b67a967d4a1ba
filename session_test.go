package paint

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/gg-paint/codec"
	"github.com/gogpu/gg-paint/surface"
	"github.com/gogpu/gg-paint/tool"
)

var (
	white = color.NRGBA{255, 255, 255, 255}
	black = color.NRGBA{0, 0, 0, 255}
	red   = color.NRGBA{255, 0, 0, 255}
)

func newSession(t *testing.T, w, h int, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithSnapshotCodec(surface.RawCodec{})}, opts...)
	s, err := New(w, h, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustSetTool(t *testing.T, s *Session, k tool.Kind) {
	t.Helper()
	if ok, err := s.SetTool(k); !ok || err != nil {
		t.Fatalf("SetTool(%v) = %v, %v", k, ok, err)
	}
}

func drag(t *testing.T, s *Session, from, to gg.Point) {
	t.Helper()
	if err := s.GestureStart(from); err != nil {
		t.Fatalf("GestureStart(%v) error = %v", from, err)
	}
	if err := s.GestureMove(to); err != nil {
		t.Fatalf("GestureMove(%v) error = %v", to, err)
	}
	if err := s.GestureEnd(to); err != nil {
		t.Fatalf("GestureEnd(%v) error = %v", to, err)
	}
}

func setStyle(t *testing.T, s *Session, u tool.StyleUpdate) {
	t.Helper()
	if ok, err := s.SetStyle(u); !ok || err != nil {
		t.Fatalf("SetStyle() = %v, %v", ok, err)
	}
}

func ptr[T any](v T) *T { return &v }

// drawFilledRect draws the black filled rectangle (20,20)-(80,80).
func drawFilledRect(t *testing.T, s *Session) {
	t.Helper()
	mustSetTool(t, s, tool.Rect)
	setStyle(t, s, tool.StyleUpdate{Filled: ptr(true)})
	drag(t, s, gg.Pt(20, 20), gg.Pt(80, 80))
}

func TestNew(t *testing.T) {
	s := newSession(t, 300, 200)

	if s.State() != Idle {
		t.Errorf("State() = %v, want Idle", s.State())
	}
	if s.HistoryLen() != 1 || s.HistoryStep() != 0 {
		t.Errorf("history = %d/%d, want 1 entry at 0", s.HistoryLen(), s.HistoryStep())
	}
	if c := s.Image().NRGBAAt(150, 100); c != white {
		t.Errorf("pixel = %v, want white", c)
	}
	if s.ID() == "" {
		t.Error("ID() is empty")
	}
	other := newSession(t, 10, 10)
	if other.ID() == s.ID() {
		t.Error("two sessions share an ID")
	}
}

func TestCutPasteScenario(t *testing.T) {
	s := newSession(t, 200, 200)
	drawFilledRect(t, s)

	mustSetTool(t, s, tool.Select)
	drag(t, s, gg.Pt(20, 20), gg.Pt(80, 80))
	if sel, ok := s.Selection(); !ok || sel.Rect != image.Rect(20, 20, 80, 80) {
		t.Fatalf("Selection() = %v, %v", sel.Rect, ok)
	}

	if ok, err := s.Cut(); !ok || err != nil {
		t.Fatalf("Cut() = %v, %v", ok, err)
	}
	if ok, err := s.Paste(); !ok || err != nil {
		t.Fatalf("Paste() = %v, %v", ok, err)
	}
	if ok, err := s.Commit(); !ok || err != nil {
		t.Fatalf("Commit() = %v, %v", ok, err)
	}

	img := s.Image()
	for _, p := range []image.Point{{50, 50}, {50, 109}, {109, 50}, {80, 80}, {109, 109}} {
		if c := img.NRGBAAt(p.X, p.Y); c != black {
			t.Errorf("pixel %v = %v, want black", p, c)
		}
	}
	for _, p := range []image.Point{{25, 25}, {110, 110}, {45, 30}} {
		if c := img.NRGBAAt(p.X, p.Y); c != white {
			t.Errorf("pixel %v = %v, want white", p, c)
		}
	}
	// initial, rectangle, cut, commit
	if s.HistoryLen() != 4 {
		t.Errorf("HistoryLen() = %d, want 4", s.HistoryLen())
	}
}

func TestHistoryLengthProperty(t *testing.T) {
	for _, tt := range []struct{ gestures, max int }{
		{0, 50}, {1, 50}, {10, 50}, {9, 10}, {10, 10}, {25, 10},
	} {
		s := newSession(t, 120, 120, WithMaxHistory(tt.max))
		for i := range tt.gestures {
			y := float64(i%100 + 5)
			drag(t, s, gg.Pt(5, y), gg.Pt(100, y))
		}
		if want := min(tt.gestures+1, tt.max); s.HistoryLen() != want {
			t.Errorf("gestures=%d max=%d: HistoryLen() = %d, want %d",
				tt.gestures, tt.max, s.HistoryLen(), want)
		}
	}
}

func TestUndoRedoByteIdentical(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, 120, 120)
	for i := range 5 {
		y := float64(10 + i*20)
		drag(t, s, gg.Pt(10, y), gg.Pt(110, y))
	}
	final := s.Image()

	for k := 1; k <= s.HistoryStep(); k++ {
		for range k {
			if ok, err := s.Undo(ctx); !ok || err != nil {
				t.Fatalf("Undo() = %v, %v", ok, err)
			}
		}
		for range k {
			if ok, err := s.Redo(ctx); !ok || err != nil {
				t.Fatalf("Redo() = %v, %v", ok, err)
			}
		}
		if !bytes.Equal(s.Image().Pix, final.Pix) {
			t.Errorf("k=%d: surface differs after undo/redo", k)
		}
	}
}

func TestUndoRestoresEarlierState(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, 120, 120)
	blank := s.Image()
	drag(t, s, gg.Pt(10, 60), gg.Pt(110, 60))

	if ok, _ := s.Undo(ctx); !ok {
		t.Fatal("Undo() = false")
	}
	if !bytes.Equal(s.Image().Pix, blank.Pix) {
		t.Error("Undo() did not restore the blank surface")
	}
	if ok, _ := s.Undo(ctx); ok {
		t.Error("Undo() past the initial entry succeeded")
	}
	if !s.CanRedo() || s.CanUndo() {
		t.Errorf("CanUndo() = %v, CanRedo() = %v", s.CanUndo(), s.CanRedo())
	}
}

func TestSaveAfterUndoDiscardsRedo(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, 120, 120)
	for i := range 3 {
		y := float64(20 + i*30)
		drag(t, s, gg.Pt(10, y), gg.Pt(110, y))
	}
	_, _ = s.Undo(ctx)
	_, _ = s.Undo(ctx)
	drag(t, s, gg.Pt(60, 10), gg.Pt(60, 110))

	if ok, err := s.Redo(ctx); ok || err != nil {
		t.Errorf("Redo() = %v, %v, want false, nil", ok, err)
	}
	if s.HistoryLen() != 3 {
		t.Errorf("HistoryLen() = %d, want 3", s.HistoryLen())
	}
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		kind tool.Kind
		want State
	}{
		{tool.Pencil, Drawing},
		{tool.Brush, Drawing},
		{tool.Eraser, Drawing},
		{tool.Rect, Drawing},
		{tool.Circle, Drawing},
		{tool.Ellipse, Drawing},
		{tool.Line, Drawing},
		{tool.Select, SelectingRegion},
		{tool.Text, TextEditing},
		{tool.Fill, Idle},
	}
	for _, tt := range tests {
		s := newSession(t, 120, 120, WithTool(tt.kind))
		if err := s.GestureStart(gg.Pt(30, 30)); err != nil {
			t.Fatal(err)
		}
		if got := s.State(); got != tt.want {
			t.Errorf("%v: state after start = %v, want %v", tt.kind, got, tt.want)
		}
		_ = s.GestureMove(gg.Pt(60, 60))
		_ = s.GestureEnd(gg.Pt(60, 60))
		want := Idle
		if tt.kind == tool.Text {
			want = TextEditing
		}
		if got := s.State(); got != want {
			t.Errorf("%v: state after end = %v, want %v", tt.kind, got, want)
		}
	}
}

func TestInvalidGesturesIgnored(t *testing.T) {
	s := newSession(t, 120, 120)
	before := s.Image()

	if err := s.GestureMove(gg.Pt(10, 10)); err != nil {
		t.Error(err)
	}
	if err := s.GestureEnd(gg.Pt(10, 10)); err != nil {
		t.Error(err)
	}
	if err := s.SubmitText("hello"); err != nil {
		t.Error(err)
	}
	if !bytes.Equal(s.Image().Pix, before.Pix) || s.HistoryLen() != 1 || s.State() != Idle {
		t.Error("invalid gestures had an effect")
	}

	// A second start during a gesture is ignored.
	_ = s.GestureStart(gg.Pt(10, 10))
	_ = s.GestureStart(gg.Pt(90, 90))
	_ = s.GestureEnd(gg.Pt(10, 50))
	if s.HistoryLen() != 2 {
		t.Errorf("HistoryLen() = %d, want 2", s.HistoryLen())
	}
}

func TestChangesIgnoredWhileBusy(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, 120, 120, WithTool(tool.Rect))
	_ = s.GestureStart(gg.Pt(10, 10))

	if ok, err := s.SetTool(tool.Brush); ok || err != nil {
		t.Errorf("SetTool() while drawing = %v, %v, want ignored", ok, err)
	}
	if ok, err := s.SetStyle(tool.StyleUpdate{StrokeWidth: ptr(20)}); ok || err != nil {
		t.Errorf("SetStyle() while drawing = %v, %v, want ignored", ok, err)
	}
	if _, err := s.Undo(ctx); !errors.Is(err, ErrBusy) {
		t.Errorf("Undo() while drawing error = %v, want ErrBusy", err)
	}
	if err := s.Clear(); !errors.Is(err, ErrBusy) {
		t.Errorf("Clear() while drawing error = %v, want ErrBusy", err)
	}
	if err := s.Resize(200, 200); !errors.Is(err, ErrBusy) {
		t.Errorf("Resize() while drawing error = %v, want ErrBusy", err)
	}

	_ = s.GestureEnd(gg.Pt(50, 50))
	if s.Tool() != tool.Rect || s.Style().StrokeWidth != tool.DefaultStrokeWidth {
		t.Error("ignored changes were applied")
	}
}

func TestShapePreviewDoesNotAccumulate(t *testing.T) {
	a := newSession(t, 160, 160, WithTool(tool.Rect))
	b := newSession(t, 160, 160, WithTool(tool.Rect))

	_ = a.GestureStart(gg.Pt(20, 20))
	for _, p := range []gg.Point{{X: 150, Y: 150}, {X: 30, Y: 90}, {X: 100, Y: 25}, {X: 60, Y: 60}} {
		_ = a.GestureMove(p)
	}
	_ = a.GestureEnd(gg.Pt(60, 60))

	_ = b.GestureStart(gg.Pt(20, 20))
	_ = b.GestureEnd(gg.Pt(60, 60))

	if !bytes.Equal(a.Image().Pix, b.Image().Pix) {
		t.Error("intermediate previews left pixels behind")
	}
}

func TestOpacityAppliesPerOperation(t *testing.T) {
	s := newSession(t, 120, 120)
	drawFilledRect(t, s)
	setStyle(t, s, tool.StyleUpdate{Opacity: ptr(0.5)})

	_ = s.Clear()
	drag(t, s, gg.Pt(20, 20), gg.Pt(80, 80))
	c := s.Image().NRGBAAt(50, 50)
	if c.R < 118 || c.R > 138 || c.A != 255 {
		t.Errorf("half-opacity pixel = %v, want mid grey", c)
	}

	mustSetTool(t, s, tool.Fill)
	setStyle(t, s, tool.StyleUpdate{Color: ptr(red)})
	_ = s.GestureStart(gg.Pt(5, 5))
	if c := s.Image().NRGBAAt(5, 5); c != red {
		t.Errorf("fill after translucent shape = %v, want opaque red", c)
	}
	if s.Style().Opacity != 0.5 {
		t.Errorf("style opacity = %v, want unchanged 0.5", s.Style().Opacity)
	}
}

func TestFillGesture(t *testing.T) {
	s := newSession(t, 120, 120, WithTool(tool.Fill))
	setStyle(t, s, tool.StyleUpdate{Color: ptr(red)})

	_ = s.GestureStart(gg.Pt(60, 60))
	if s.State() != Idle {
		t.Errorf("State() = %v, want Idle", s.State())
	}
	if c := s.Image().NRGBAAt(0, 119); c != red {
		t.Errorf("pixel = %v, want red", c)
	}
	if s.HistoryLen() != 2 {
		t.Errorf("HistoryLen() = %d, want 2", s.HistoryLen())
	}

	// Every fill on the surface is a history entry, even when the region
	// already has the fill color.
	_ = s.GestureStart(gg.Pt(60, 60))
	if s.HistoryLen() != 3 {
		t.Errorf("HistoryLen() = %d after repeated fill, want 3", s.HistoryLen())
	}

	_ = s.GestureStart(gg.Pt(-5, 300))
	if s.HistoryLen() != 3 {
		t.Errorf("HistoryLen() = %d after fill outside the surface, want 3", s.HistoryLen())
	}
}

func TestEraserGesture(t *testing.T) {
	s := newSession(t, 120, 120, WithTool(tool.Fill))
	_ = s.GestureStart(gg.Pt(1, 1)) // black everywhere

	mustSetTool(t, s, tool.Eraser)
	setStyle(t, s, tool.StyleUpdate{Color: ptr(red)})
	drag(t, s, gg.Pt(10, 60), gg.Pt(110, 60))

	if c := s.Image().NRGBAAt(60, 60); c != white {
		t.Errorf("erased pixel = %v, want white", c)
	}
	if s.Style().Color != red {
		t.Error("eraser changed the style color")
	}
}

func TestTextEntry(t *testing.T) {
	s := newSession(t, 200, 120, WithTool(tool.Text))
	var events []Event
	cancel := s.Subscribe(func(ev Event) { events = append(events, ev) })
	defer cancel()

	_ = s.GestureStart(gg.Pt(20, 60))
	if s.State() != TextEditing {
		t.Fatalf("State() = %v, want TextEditing", s.State())
	}
	var input *Event
	for i := range events {
		if events[i].Kind == EventTextInput {
			input = &events[i]
		}
	}
	if input == nil || input.At != gg.Pt(20, 60) {
		t.Fatalf("EventTextInput = %+v", input)
	}

	if err := s.SubmitText("Hello"); err != nil {
		t.Fatalf("SubmitText() error = %v", err)
	}
	if s.State() != Idle || s.HistoryLen() != 2 {
		t.Errorf("after submit: state %v, history %d", s.State(), s.HistoryLen())
	}
	dark := 0
	img := s.Image()
	for y := 30; y < 70; y++ {
		for x := 15; x < 120; x++ {
			if img.NRGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("submitted text drew nothing")
	}

	_ = s.GestureStart(gg.Pt(20, 100))
	_ = s.SubmitText("")
	_ = s.GestureStart(gg.Pt(20, 100))
	_ = s.CancelText()
	if s.State() != Idle || s.HistoryLen() != 2 {
		t.Errorf("empty/cancelled text: state %v, history %d", s.State(), s.HistoryLen())
	}
}

func TestMoveSelectionGesture(t *testing.T) {
	s := newSession(t, 200, 200)
	drawFilledRect(t, s)
	mustSetTool(t, s, tool.Select)
	drag(t, s, gg.Pt(20, 20), gg.Pt(80, 80))
	before := s.HistoryLen()

	_ = s.GestureStart(gg.Pt(50, 50))
	if s.State() != MovingSelection {
		t.Fatalf("State() = %v, want MovingSelection", s.State())
	}
	_ = s.GestureMove(gg.Pt(60, 50))
	_ = s.GestureMove(gg.Pt(70, 50))
	_ = s.GestureEnd(gg.Pt(70, 50))

	sel, ok := s.Selection()
	if !ok || sel.Rect != image.Rect(40, 20, 100, 80) || !sel.Floating {
		t.Fatalf("Selection() = %+v, %v", sel.Rect, ok)
	}
	if s.HistoryLen() != before+1 {
		t.Errorf("HistoryLen() = %d, want %d", s.HistoryLen(), before+1)
	}
	flat := s.Flatten()
	if c := flat.NRGBAAt(25, 50); c != white {
		t.Errorf("vacated pixel = %v, want white", c)
	}
	if c := flat.NRGBAAt(95, 50); c != black {
		t.Errorf("moved pixel = %v, want black", c)
	}

	// Leaving the select tool commits the floating selection.
	mustSetTool(t, s, tool.Pencil)
	if _, ok := s.Selection(); ok {
		t.Error("selection survived a tool change")
	}
	if s.HistoryLen() != before+2 {
		t.Errorf("HistoryLen() = %d, want %d", s.HistoryLen(), before+2)
	}
	if !bytes.Equal(s.Image().Pix, flat.Pix) {
		t.Error("committed surface differs from the flattened preview")
	}
}

func TestUndoDropsSelection(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, 200, 200)
	drawFilledRect(t, s)
	mustSetTool(t, s, tool.Select)
	drag(t, s, gg.Pt(10, 10), gg.Pt(100, 100))

	if ok, err := s.Undo(ctx); !ok || err != nil {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if _, ok := s.Selection(); ok {
		t.Error("selection survived undo")
	}
	if c := s.Image().NRGBAAt(10, 10); c != white {
		t.Errorf("outline survived undo: %v", c)
	}
}

func TestUndoCancelled(t *testing.T) {
	s := newSession(t, 120, 120)
	drag(t, s, gg.Pt(10, 60), gg.Pt(110, 60))
	before := s.Image()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if ok, err := s.Undo(ctx); ok || !errors.Is(err, context.Canceled) {
		t.Errorf("Undo() = %v, %v, want context.Canceled", ok, err)
	}
	if !bytes.Equal(s.Image().Pix, before.Pix) || s.HistoryStep() != 1 {
		t.Error("cancelled undo changed the session")
	}
}

func TestEmptyOperations(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, 120, 120)

	for name, op := range map[string]func() (bool, error){
		"Copy":   s.Copy,
		"Cut":    s.Cut,
		"Paste":  s.Paste,
		"Commit": s.Commit,
		"Undo":   func() (bool, error) { return s.Undo(ctx) },
		"Redo":   func() (bool, error) { return s.Redo(ctx) },
	} {
		if ok, err := op(); ok || err != nil {
			t.Errorf("%s() = %v, %v, want false, nil", name, ok, err)
		}
	}
	if s.HistoryLen() != 1 {
		t.Errorf("HistoryLen() = %d, want 1", s.HistoryLen())
	}
}

func TestClear(t *testing.T) {
	s := newSession(t, 120, 120)
	drag(t, s, gg.Pt(10, 60), gg.Pt(110, 60))
	mustSetTool(t, s, tool.Select)
	drag(t, s, gg.Pt(10, 10), gg.Pt(50, 50))

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Selection(); ok {
		t.Error("selection survived Clear()")
	}
	img := s.Image()
	for _, p := range []image.Point{{10, 10}, {60, 60}} {
		if c := img.NRGBAAt(p.X, p.Y); c != white {
			t.Errorf("pixel %v = %v, want white", p, c)
		}
	}
	if s.HistoryLen() != 3 {
		t.Errorf("HistoryLen() = %d, want 3", s.HistoryLen())
	}
}

func TestResize(t *testing.T) {
	s := newSession(t, 120, 120, WithTool(tool.Fill))
	setStyle(t, s, tool.StyleUpdate{Color: ptr(red)})
	_ = s.GestureStart(gg.Pt(1, 1))

	if err := s.Resize(50, 300); err != nil {
		t.Fatal(err)
	}
	if s.Size() != image.Pt(MinSize, 300) {
		t.Errorf("Size() = %v, want (100,300)", s.Size())
	}
	img := s.Image()
	if c := img.NRGBAAt(10, 10); c != red {
		t.Errorf("kept pixel = %v, want red", c)
	}
	if c := img.NRGBAAt(10, 200); c != white {
		t.Errorf("new pixel = %v, want background", c)
	}
	if s.HistoryLen() != 3 {
		t.Errorf("HistoryLen() = %d, want 3", s.HistoryLen())
	}

	_, _ = s.Undo(context.Background())
	if s.Size() != image.Pt(120, 120) {
		t.Errorf("Size() after undo = %v, want (120,120)", s.Size())
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImport(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 130, 110))
	src.SetNRGBA(5, 5, red)

	s := newSession(t, 200, 200)
	if err := s.Import(context.Background(), bytes.NewReader(encodePNG(t, src))); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if s.Size() != image.Pt(130, 110) {
		t.Errorf("Size() = %v, want (130,110)", s.Size())
	}
	img := s.Image()
	if c := img.NRGBAAt(5, 5); c != red {
		t.Errorf("imported pixel = %v, want red", c)
	}
	if c := img.NRGBAAt(50, 50); c != white {
		t.Errorf("transparent pixel = %v, want background", c)
	}
	if s.HistoryLen() != 2 {
		t.Errorf("HistoryLen() = %d, want 2", s.HistoryLen())
	}
}

func TestImportFailureLeavesSessionUnchanged(t *testing.T) {
	s := newSession(t, 200, 200)
	drawFilledRect(t, s)
	mustSetTool(t, s, tool.Select)
	drag(t, s, gg.Pt(10, 10), gg.Pt(100, 100))
	before := s.Image()
	hist := s.HistoryLen()

	err := s.Import(context.Background(), strings.NewReader("not an image"))
	if !errors.Is(err, surface.ErrDecode) {
		t.Fatalf("Import() error = %v, want ErrDecode", err)
	}
	if !bytes.Equal(s.Image().Pix, before.Pix) {
		t.Error("failed import changed the surface")
	}
	if s.HistoryLen() != hist {
		t.Error("failed import changed history")
	}
	if _, ok := s.Selection(); !ok {
		t.Error("failed import dropped the selection")
	}
}

func TestImportCancelled(t *testing.T) {
	s := newSession(t, 200, 200)
	drawFilledRect(t, s)
	before := s.Image()
	hist := s.HistoryLen()

	pr, pw := io.Pipe()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Import(ctx, pr)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Import() error = %v, want DeadlineExceeded", err)
	}
	if errors.Is(err, surface.ErrDecode) {
		t.Error("cancelled import reported as a decode failure")
	}
	if _, err := pw.Write([]byte{0}); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("reader left open after cancel: write error = %v", err)
	}
	if !bytes.Equal(s.Image().Pix, before.Pix) || s.HistoryLen() != hist {
		t.Error("cancelled import changed the session")
	}
	if s.State() != Idle {
		t.Errorf("State() = %v, want Idle", s.State())
	}
}

func TestExport(t *testing.T) {
	s := newSession(t, 200, 200)
	drawFilledRect(t, s)
	mustSetTool(t, s, tool.Select)
	drag(t, s, gg.Pt(10, 10), gg.Pt(100, 100))

	var buf bytes.Buffer
	if err := s.Export(&buf, "png"); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	got, _, err := codec.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Pix, s.Flatten().Pix) {
		t.Error("export differs from the flattened surface")
	}
	if c := got.NRGBAAt(10, 10); c != white {
		t.Errorf("outline exported: pixel = %v", c)
	}

	for _, format := range []string{"jpeg", "pdf"} {
		buf.Reset()
		if err := s.Export(&buf, format); err != nil || buf.Len() == 0 {
			t.Errorf("Export(%s) = %d bytes, %v", format, buf.Len(), err)
		}
	}
	if err := s.Export(&buf, "psd"); err == nil {
		t.Error("Export(psd) succeeded")
	}
}

func TestSubscribe(t *testing.T) {
	s := newSession(t, 120, 120)
	var kinds []EventKind
	cancel := s.Subscribe(func(ev Event) {
		if ev.Session != s.ID() {
			t.Errorf("event session = %q", ev.Session)
		}
		kinds = append(kinds, ev.Kind)
	})

	_, _ = s.SetTool(tool.Brush)
	drag(t, s, gg.Pt(10, 10), gg.Pt(50, 50))

	want := []EventKind{EventTool, EventState, EventState, EventHistory}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}

	cancel()
	cancel()
	_, _ = s.SetTool(tool.Pencil)
	if len(kinds) != len(want) {
		t.Error("cancelled listener still called")
	}
}

func TestListenerMayCallBack(t *testing.T) {
	s := newSession(t, 120, 120)
	var seen tool.Kind
	s.Subscribe(func(ev Event) {
		if ev.Kind == EventTool {
			seen = s.Tool()
		}
	})
	_, _ = s.SetTool(tool.Line)
	if seen != tool.Line {
		t.Errorf("listener saw %v, want line", seen)
	}
}

func TestClose(t *testing.T) {
	s, err := New(120, 120)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() = %v, want ErrClosed", err)
	}
	if err := s.GestureStart(gg.Pt(1, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("GestureStart() after Close = %v, want ErrClosed", err)
	}
	if _, err := s.Undo(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Undo() after Close = %v, want ErrClosed", err)
	}
}

func TestConcurrentUse(t *testing.T) {
	s := newSession(t, 150, 150, WithMaxHistory(20))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			y := float64(10 + i*15)
			for range 5 {
				_ = s.GestureStart(gg.Pt(10, y))
				_ = s.GestureMove(gg.Pt(140, y))
				_ = s.GestureEnd(gg.Pt(140, y))
				_, _ = s.Undo(ctx)
				_ = s.Export(&bytes.Buffer{}, "png")
			}
		}()
	}
	wg.Wait()

	if s.State() != Idle {
		t.Errorf("State() = %v, want Idle", s.State())
	}
	if n := s.HistoryLen(); n < 1 || n > 20 {
		t.Errorf("HistoryLen() = %d", n)
	}
}

func TestStateString(t *testing.T) {
	for st, want := range map[State]string{
		Idle:            "Idle",
		Drawing:         "Drawing",
		SelectingRegion: "SelectingRegion",
		MovingSelection: "MovingSelection",
		TextEditing:     "TextEditing",
		State(9):        "State(9)",
	} {
		if got := st.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", st, got, want)
		}
	}
	if got := EventTextInput.String(); got != "text-input" {
		t.Errorf("EventTextInput.String() = %q", got)
	}
}
