package paint

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/gogpu/gg-paint/codec"
	"github.com/gogpu/gg-paint/history"
	"github.com/gogpu/gg-paint/selection"
	"github.com/gogpu/gg-paint/surface"
	"github.com/gogpu/gg-paint/tool"
)

// MinSize is the smallest width or height accepted by Resize.
const MinSize = 100

// Session is one editing session over a raster surface.
//
// A Session is the only writer of its surface, history and selection.
// Methods are safe for concurrent use: each runs to completion under the
// session lock, including the decode of an undo or redo, so gestures that
// arrive during a restore wait for it. Listeners are called after the lock
// is released.
type Session struct {
	mu     sync.Mutex
	id     string
	log    *slog.Logger
	opts   options
	closed bool

	surf  *surface.ImageSurface
	hist  *history.Manager
	sel   *selection.Controller
	fonts *tool.FontBook

	state State
	kind  tool.Kind
	style tool.Style

	// Gesture state.
	start, last tool.Point
	base        *image.NRGBA

	textAt tool.Point

	pending []Event

	lmu       sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

// New creates a session with a width x height surface filled with the
// background color, and records it as the first history entry.
func New(width, height int, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.fonts == nil {
		o.fonts = tool.NewFontBook()
	}
	if o.logger == nil {
		o.logger = Logger()
	}

	s := &Session{
		id:        uuid.NewString(),
		opts:      o,
		surf:      surface.NewImageSurface(width, height, surface.WithCodec(o.codec)),
		hist:      history.New(o.maxHistory),
		fonts:     o.fonts,
		kind:      o.tool,
		style:     o.style,
		listeners: make(map[int]Listener),
	}
	s.log = o.logger.With("session", s.id)
	s.sel = selection.New(s.surf, s.hist,
		selection.WithBackground(o.background),
		selection.WithMinSize(o.minSelection),
		selection.WithPasteOffset(o.pasteOffset),
	)

	s.surf.Clear(o.background)
	if err := s.hist.Save(s.surf); err != nil {
		return nil, fmt.Errorf("paint: initial snapshot: %w", err)
	}
	s.log.Info("session created",
		"width", s.surf.Width(), "height", s.surf.Height(), "tool", s.kind)
	return s, nil
}

// ID returns the session identifier used in logs and events.
func (s *Session) ID() string {
	return s.id
}

// lock acquires the session lock and reports ErrClosed.
func (s *Session) lock() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	return nil
}

// unlock releases the session lock and delivers queued events.
func (s *Session) unlock() {
	events := s.pending
	s.pending = nil
	s.mu.Unlock()
	s.dispatch(events)
}

// emit queues an event describing the current session state.
func (s *Session) emit(kind EventKind) {
	ev := Event{
		Kind:    kind,
		Session: s.id,
		State:   s.state,
		Tool:    s.kind,
		Style:   s.style,
		CanUndo: s.hist.CanUndo(),
		CanRedo: s.hist.CanRedo(),
		Size:    s.surf.Bounds().Size(),
	}
	if sel, ok := s.sel.Active(); ok {
		ev.Selection = sel.Rect
	}
	if kind == EventTextInput {
		ev.At = s.textAt
	}
	s.pending = append(s.pending, ev)
}

func (s *Session) setState(st State) {
	if s.state != st {
		s.state = st
		s.emit(EventState)
	}
}

// save records the surface in history.
func (s *Session) save() error {
	if err := s.hist.Save(s.surf); err != nil {
		s.log.Warn("snapshot failed", "err", err)
		return err
	}
	s.emit(EventHistory)
	return nil
}

// commitSelection merges a live selection before an unrelated operation.
func (s *Session) commitSelection() error {
	sel, live := s.sel.Active()
	if !live {
		return nil
	}
	_, err := s.sel.Commit()
	s.emit(EventSelection)
	if sel.Floating && err == nil {
		s.emit(EventHistory)
	}
	return err
}

// State returns the gesture state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Tool returns the active tool.
func (s *Session) Tool() tool.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// Style returns the active style.
func (s *Session) Style() tool.Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

// Selection returns the live selection.
func (s *Session) Selection() (selection.Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Active()
}

// HistoryLen returns the number of history entries.
func (s *Session) HistoryLen() int {
	return s.hist.Len()
}

// HistoryStep returns the history cursor.
func (s *Session) HistoryStep() int {
	return s.hist.Step()
}

// CanUndo reports whether Undo would change the surface.
func (s *Session) CanUndo() bool {
	return s.hist.CanUndo()
}

// CanRedo reports whether Redo would change the surface.
func (s *Session) CanRedo() bool {
	return s.hist.CanRedo()
}

// Size returns the surface dimensions.
func (s *Session) Size() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surf.Bounds().Size()
}

// SetTool selects a tool. It is ignored unless the session is idle.
// Leaving the select tool commits the live selection.
func (s *Session) SetTool(k tool.Kind) (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.unlock()

	if s.state != Idle || !k.Valid() {
		s.log.Debug("tool change ignored", "tool", k, "state", s.state)
		return false, nil
	}
	if k == s.kind {
		return true, nil
	}
	if s.kind == tool.Select {
		if err := s.commitSelection(); err != nil {
			return false, err
		}
	}
	s.kind = k
	s.emit(EventTool)
	return true, nil
}

// SetStyle applies a partial style change. It is ignored unless the
// session is idle.
func (s *Session) SetStyle(u tool.StyleUpdate) (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.unlock()

	if s.state != Idle {
		s.log.Debug("style change ignored", "state", s.state)
		return false, nil
	}
	if u.IsZero() {
		return true, nil
	}
	s.style = s.style.Apply(u)
	s.emit(EventStyle)
	return true, nil
}

// GestureStart begins a gesture at p, in surface coordinates. Gestures
// that do not apply in the current state are ignored.
func (s *Session) GestureStart(p tool.Point) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()

	if s.state != Idle {
		s.log.Debug("gesture start ignored", "state", s.state)
		return nil
	}

	t, _ := tool.For(s.kind)
	switch t := t.(type) {
	case tool.Selector:
		if s.sel.BeginMove(p) {
			s.start, s.last = p, p
			s.setState(MovingSelection)
			return nil
		}
		if err := s.commitSelection(); err != nil {
			return err
		}
		if err := s.sel.StartDrag(p); err != nil {
			return err
		}
		s.start, s.last = p, p
		s.setState(SelectingRegion)

	case tool.FillAction:
		if err := s.commitSelection(); err != nil {
			return err
		}
		seed := image.Pt(int(math.Floor(p.X)), int(math.Floor(p.Y)))
		if !seed.In(s.surf.Bounds()) {
			s.log.Debug("fill outside surface", "x", p.X, "y", p.Y)
			return nil
		}
		if n := t.Apply(s.surf, s.style, p); n == 0 {
			s.log.Debug("fill changed nothing", "x", p.X, "y", p.Y)
		}
		return s.save()

	case tool.TextAction:
		if err := s.commitSelection(); err != nil {
			return err
		}
		s.textAt = p
		s.setState(TextEditing)
		s.emit(EventTextInput)

	default:
		if err := s.commitSelection(); err != nil {
			return err
		}
		s.base = s.surf.Image()
		s.start, s.last = p, p
		s.setState(Drawing)
	}
	return nil
}

// GestureMove continues the gesture at p.
func (s *Session) GestureMove(p tool.Point) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()
	return s.move(p)
}

func (s *Session) move(p tool.Point) error {
	switch s.state {
	case Drawing:
		return s.drawTo(p)
	case SelectingRegion:
		s.last = p
		return s.sel.UpdateDrag(p)
	case MovingSelection:
		s.last = p
		return s.sel.UpdateMove(delta(s.start, p))
	default:
		s.log.Debug("gesture move ignored", "state", s.state)
		return nil
	}
}

// drawTo extends a freehand stroke or redraws a shape preview.
func (s *Session) drawTo(p tool.Point) error {
	t, _ := tool.For(s.kind)
	switch t := t.(type) {
	case tool.Freehand:
		if p == s.last {
			return nil
		}
		from := s.last
		s.last = p
		return t.Draw(s.surf, s.style, s.opts.background, from, p)
	case tool.Shape:
		s.last = p
		s.surf.PutRegion(s.base, image.Point{})
		return t.Preview(s.surf, s.style, s.start, p)
	}
	return nil
}

// GestureEnd finishes the gesture at p.
func (s *Session) GestureEnd(p tool.Point) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()

	switch s.state {
	case Drawing:
		err := s.drawTo(p)
		s.base = nil
		s.setState(Idle)
		if err != nil {
			return err
		}
		return s.save()

	case SelectingRegion:
		created, err := s.sel.EndDrag(p)
		s.setState(Idle)
		if created {
			s.emit(EventSelection)
		} else {
			s.log.Debug("selection discarded", "x", p.X, "y", p.Y)
		}
		return err

	case MovingSelection:
		err := s.sel.UpdateMove(delta(s.start, p))
		if err == nil {
			err = s.sel.EndMove()
		}
		s.setState(Idle)
		s.emit(EventSelection)
		if err == nil {
			s.emit(EventHistory)
		}
		return err

	default:
		s.log.Debug("gesture end ignored", "state", s.state)
		return nil
	}
}

// SubmitText renders text at the position where text entry started and
// returns to Idle. Empty text draws nothing and saves nothing.
func (s *Session) SubmitText(value string) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()

	if s.state != TextEditing {
		s.log.Debug("text submit ignored", "state", s.state)
		return nil
	}
	s.setState(Idle)
	drawn, err := tool.TextAction{}.Apply(s.surf, s.style, s.fonts, s.textAt, value)
	if err != nil {
		return err
	}
	if !drawn {
		s.log.Debug("empty text discarded")
		return nil
	}
	return s.save()
}

// CancelText abandons text entry.
func (s *Session) CancelText() error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()

	if s.state == TextEditing {
		s.setState(Idle)
	}
	return nil
}

// Undo restores the previous history entry. A live selection is dropped
// once the restore succeeds. It reports false when there is nothing to
// undo. On failure the surface, history and selection are unchanged.
func (s *Session) Undo(ctx context.Context) (bool, error) {
	return s.step(ctx, "undo", s.hist.Undo)
}

// Redo restores the next history entry.
func (s *Session) Redo(ctx context.Context) (bool, error) {
	return s.step(ctx, "redo", s.hist.Redo)
}

func (s *Session) step(ctx context.Context, op string,
	fn func(context.Context, surface.Surface) (bool, error)) (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.unlock()

	if s.state != Idle {
		return false, ErrBusy
	}
	ok, err := fn(ctx, s.surf)
	if err != nil {
		s.log.Warn(op+" failed", "err", err)
		return false, err
	}
	if !ok {
		s.log.Debug("nothing to " + op)
		return false, nil
	}
	if s.hasSelection() {
		s.sel.Reset()
		s.emit(EventSelection)
	}
	s.emit(EventHistory)
	return true, nil
}

func (s *Session) hasSelection() bool {
	_, ok := s.sel.Active()
	return ok
}

// Clear drops any live selection, fills the surface with the background
// and saves history.
func (s *Session) Clear() error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()

	if s.state != Idle {
		return ErrBusy
	}
	if s.hasSelection() {
		s.sel.Reset()
		s.emit(EventSelection)
	}
	s.surf.Clear(s.opts.background)
	s.log.Info("surface cleared")
	s.emit(EventSurface)
	return s.save()
}

// Copy stores the live selection in the clipboard. It reports false when
// nothing is selected.
func (s *Session) Copy() (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.unlock()

	if !s.sel.Copy() {
		s.log.Debug("copy: no selection")
		return false, nil
	}
	return true, nil
}

// Cut moves the live selection to the clipboard.
func (s *Session) Cut() (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.unlock()

	if s.state != Idle {
		return false, ErrBusy
	}
	ok, err := s.sel.Cut()
	if !ok {
		s.log.Debug("cut: no selection")
		return false, err
	}
	s.emit(EventSelection)
	if err == nil {
		s.emit(EventHistory)
	}
	return true, err
}

// Paste places the clipboard as a floating selection.
func (s *Session) Paste() (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.unlock()

	if s.state != Idle {
		return false, ErrBusy
	}
	prev, _ := s.sel.Active()
	ok, err := s.sel.Paste()
	if !ok {
		if err == nil {
			s.log.Debug("paste: clipboard empty")
		}
		return false, err
	}
	if prev.Floating {
		s.emit(EventHistory)
	}
	s.emit(EventSelection)
	return true, err
}

// Commit merges the live selection into the surface.
func (s *Session) Commit() (bool, error) {
	if err := s.lock(); err != nil {
		return false, err
	}
	defer s.unlock()

	if s.state != Idle {
		return false, ErrBusy
	}
	ok := s.hasSelection()
	return ok, s.commitSelection()
}

// Resize changes the surface size. Dimensions are raised to MinSize.
// A live selection is committed first; existing pixels stay anchored at
// the top-left.
func (s *Session) Resize(width, height int) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()

	if s.state != Idle {
		return ErrBusy
	}
	width, height = max(width, MinSize), max(height, MinSize)
	if err := s.commitSelection(); err != nil {
		return err
	}
	if width == s.surf.Width() && height == s.surf.Height() {
		return nil
	}
	s.surf.Resize(width, height, s.opts.background)
	s.log.Info("surface resized", "width", width, "height", height)
	s.emit(EventSurface)
	return s.save()
}

// Import replaces the surface with a decoded image: the surface takes the
// image's size, is filled with the background and the image is composited
// over it. A live selection is committed first. If the image cannot be
// decoded the session is unchanged and the error wraps surface.ErrDecode.
// When ctx is done first Import returns ctx.Err(); r is closed if it is an
// io.Closer, so a reader blocked on a pipe or connection is released.
func (s *Session) Import(ctx context.Context, r io.Reader) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.unlock()

	if s.state != Idle {
		return ErrBusy
	}
	img, format, err := decodeAsync(ctx, r)
	if err != nil {
		s.log.Warn("import failed", "err", err)
		return err
	}
	if err := s.commitSelection(); err != nil {
		return err
	}

	b := img.Bounds()
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), s.opts.background), img, image.Point{}, 1)
	s.surf.Resize(b.Dx(), b.Dy(), s.opts.background)
	s.surf.PutRegion(flat, image.Point{})

	s.log.Info("image imported", "format", format, "width", b.Dx(), "height", b.Dy())
	s.emit(EventSurface)
	return s.save()
}

// decodeAsync decodes through codec.DecodeContext and marks decode
// failures with surface.ErrDecode. Cancellation errors pass through.
func decodeAsync(ctx context.Context, r io.Reader) (*image.NRGBA, string, error) {
	img, format, err := codec.DecodeContext(ctx, r)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %w", surface.ErrDecode, err)
	}
	return img, format, nil
}

// Export writes the surface in the named format ("png", "jpeg", "pdf" or
// any format registered with codec). A live selection is exported as if
// committed, without its outline.
func (s *Session) Export(w io.Writer, format string) error {
	if err := s.lock(); err != nil {
		return err
	}
	img := s.sel.Clean()
	s.unlock()
	return codec.Encode(w, img, format)
}

// Image returns a copy of the surface as displayed, including any preview
// or selection outline.
func (s *Session) Image() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surf.Image()
}

// Flatten returns a copy of the surface with any live selection merged and
// no outline.
func (s *Session) Flatten() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Clean()
}

// Subscribe registers l for session events and returns a function that
// removes it.
func (s *Session) Subscribe(l Listener) (cancel func()) {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			delete(s.listeners, id)
			s.lmu.Unlock()
		})
	}
}

func (s *Session) dispatch(events []Event) {
	if len(events) == 0 {
		return
	}
	s.lmu.RLock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.lmu.RUnlock()

	for _, ev := range events {
		for _, l := range ls {
			l(ev)
		}
	}
}

// Close releases the session. Later calls return ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.sel.Reset()
	s.hist.Clear()
	s.lmu.Lock()
	clear(s.listeners)
	s.lmu.Unlock()
	s.log.Info("session closed")
	return nil
}

// delta returns p - from rounded to whole pixels.
func delta(from, p tool.Point) image.Point {
	d := p.Sub(from)
	return image.Pt(int(math.Round(d.X)), int(math.Round(d.Y)))
}
