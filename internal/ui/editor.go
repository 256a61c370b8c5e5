package ui

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"BezierBoard/internal/geom"
	"BezierBoard/internal/raster"
	"BezierBoard/internal/scene"
	"BezierBoard/internal/state"
)

// EditorWidget shows a board and turns pointer input into session events.
type EditorWidget struct {
	widget.BaseWidget

	session  *state.Session
	composer *scene.Composer

	// scale converts widget units to surface pixels; it is measured each
	// time the raster is generated.
	scale     float32
	remote    bool
	statusBar *widget.Label

	mu     sync.Mutex
	onEdit func(points []geom.Point2)
}

var _ fyne.Widget = (*EditorWidget)(nil)
var _ fyne.Draggable = (*EditorWidget)(nil)
var _ desktop.Mouseable = (*EditorWidget)(nil)

// NewEditorWidget creates a widget editing session and drawing with
// composer. The widget takes over session.OnChange.
func NewEditorWidget(session *state.Session, composer *scene.Composer) *EditorWidget {
	e := &EditorWidget{
		session:   session,
		composer:  composer,
		scale:     1,
		statusBar: widget.NewLabel("Ready"),
	}
	session.OnChange = e.changed
	e.ExtendBaseWidget(e)
	return e
}

// Session returns the edited session.
func (e *EditorWidget) Session() *state.Session {
	return e.session
}

// SetOnEdit installs fn to be called with the new point list after every
// local change. Changes installed with ApplyRemote do not trigger it. It may
// be called from any goroutine.
func (e *EditorWidget) SetOnEdit(fn func(points []geom.Point2)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEdit = fn
}

// ApplyRemote replaces the board with points received from a peer. It must
// run on the UI goroutine.
func (e *EditorWidget) ApplyRemote(points []geom.Point2) {
	e.remote = true
	defer func() { e.remote = false }()
	e.session.Replace(points)
}

// Clear removes every control point.
func (e *EditorWidget) Clear() {
	e.session.Clear()
}

// SetCurveColor changes the color the curve is drawn in.
func (e *EditorWidget) SetCurveColor(c color.Color) {
	e.composer.Palette.Curve = c
	e.Refresh()
}

// SetStatus shows text in the status bar. It may be called from any
// goroutine.
func (e *EditorWidget) SetStatus(text string) {
	fyne.Do(func() {
		e.statusBar.SetText(text)
	})
}

// StatusBar returns the label SetStatus writes to.
func (e *EditorWidget) StatusBar() *widget.Label {
	return e.statusBar
}

// Frame returns what the next redraw will show.
func (e *EditorWidget) Frame() scene.Frame {
	selected := -1
	if i, ok := e.session.Selected(); ok {
		selected = i
	}
	return scene.Frame{Points: e.session.Points(), Selected: selected}
}

// Snapshot renders the current board at its on-screen pixel size.
func (e *EditorWidget) Snapshot() *raster.Pixmap {
	size := e.Size()
	w := int(size.Width * e.scale)
	h := int(size.Height * e.scale)
	return e.composer.Render(max(w, 1), max(h, 1), e.Frame())
}

// Render draws the board into a w×h pixel image.
func (e *EditorWidget) Render(w, h int) image.Image {
	if size := e.Size(); size.Width > 0 {
		e.scale = float32(w) / size.Width
	}
	return e.composer.Render(w, h, e.Frame()).Image()
}

func (e *EditorWidget) changed() {
	e.Refresh()
	if e.remote {
		return
	}
	e.mu.Lock()
	fn := e.onEdit
	e.mu.Unlock()
	if fn != nil {
		fn(e.session.Points())
	}
}

func (e *EditorWidget) toSurface(pos fyne.Position) (float64, float64) {
	s := e.scale
	if s <= 0 {
		s = 1
	}
	return float64(pos.X * s), float64(pos.Y * s)
}

func (e *EditorWidget) MouseDown(ev *desktop.MouseEvent) {
	var b state.Button
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		b = state.ButtonPrimary
	case desktop.MouseButtonSecondary:
		b = state.ButtonSecondary
	default:
		return
	}
	x, y := e.toSurface(ev.Position)
	e.session.Handle(state.Press(x, y, b))
}

func (e *EditorWidget) Dragged(ev *fyne.DragEvent) {
	x, y := e.toSurface(ev.Position)
	e.session.Handle(state.Drag(x, y))
}

func (e *EditorWidget) MouseUp(*desktop.MouseEvent) {
	e.session.Handle(state.Release())
}

func (e *EditorWidget) DragEnd() {
	e.session.Handle(state.Release())
}

func (e *EditorWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &editorRenderer{editor: e}
	r.raster = canvas.NewRaster(e.Render)
	r.raster.ScaleMode = canvas.ImageScalePixels
	return r
}

type editorRenderer struct {
	editor *EditorWidget
	raster *canvas.Raster
}

func (r *editorRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.raster}
}

func (r *editorRenderer) Refresh() {
	r.raster.Refresh()
}

func (r *editorRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
}

func (r *editorRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *editorRenderer) Destroy() {}

func (e *EditorWidget) MouseIn(*desktop.MouseEvent) {}
func (e *EditorWidget) MouseOut() {}
func (e *EditorWidget) MouseMoved(*desktop.MouseEvent) {}
