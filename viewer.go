package main

import (
	"fmt"
	"image"
	"image/draw"
)

// Viewer owns the render pipeline: page raster from the Rasterizer, overlay
// from the OverlayRenderer, alpha composite, and fit-mode resampling. All
// mutation is synchronous on the event thread; the only scheduling concern
// is the drag throttle, which defers full re-rasterization but never the
// model update.
type Viewer struct {
	doc      Rasterizer
	store    *Store
	view     *ViewTransform
	session  *EditSession
	renderer *OverlayRenderer

	pageImage image.Image // cached raster at the current raster scale
	display   image.Image // composite at display size

	viewportW, viewportH float64
	dragRenders          int
}

func NewViewer(store *Store, baseMagnification float64) (*Viewer, error) {
	renderer, err := NewOverlayRenderer()
	if err != nil {
		return nil, err
	}
	view := NewViewTransform(baseMagnification)
	return &Viewer{
		store:    store,
		view:     view,
		session:  NewEditSession(store, view),
		renderer: renderer,
	}, nil
}

func (v *Viewer) View() *ViewTransform  { return v.view }
func (v *Viewer) Session() *EditSession { return v.session }
func (v *Viewer) Document() Rasterizer  { return v.doc }
func (v *Viewer) Display() image.Image  { return v.display }

// SetStore swaps the annotation store, keeping the session consistent.
func (v *Viewer) SetStore(store *Store) {
	v.store = store
	v.session = NewEditSession(store, v.view)
}

func (v *Viewer) Store() *Store { return v.store }

// OpenDocument attaches a rasterizer and shows its first page.
func (v *Viewer) OpenDocument(doc Rasterizer, path string) error {
	v.doc = doc
	v.store.DocumentPath = path
	v.pageImage = nil
	v.view.SetPage(0)
	return v.RenderPage()
}

// Resize records the viewport; in fit mode the page is re-fit immediately.
func (v *Viewer) Resize(width, height float64) error {
	v.viewportW, v.viewportH = width, height
	v.view.SetViewport(width, height)
	if v.doc != nil && v.view.FitActive() {
		return v.RenderPage()
	}
	return nil
}

// RenderPage runs the full pipeline: re-rasterize the page at the current
// raster scale, redraw the overlay, composite, resample for fit mode.
// A degenerate viewport skips rendering until layout settles.
func (v *Viewer) RenderPage() error {
	if v.doc == nil || v.viewportW <= 1 || v.viewportH <= 1 {
		return nil
	}
	page := v.view.Page()
	if w, h := v.view.PageSize(); w == 0 || h == 0 {
		size := v.doc.PageSize(page)
		v.view.SetPageSize(size.Width, size.Height)
	}
	img, err := v.doc.RenderPage(page, v.view.RasterScale())
	if err != nil {
		return fmt.Errorf("rendering page %d: %w", page+1, err)
	}
	v.pageImage = img
	v.compose()
	return nil
}

// QuickRedraw redraws the overlay over the cached page raster without
// re-rasterizing the document. Used between full renders during a drag.
func (v *Viewer) QuickRedraw() error {
	if v.pageImage == nil {
		return v.RenderPage()
	}
	v.compose()
	return nil
}

func (v *Viewer) compose() {
	b := v.pageImage.Bounds()
	selectedID, editingID := 0, 0
	if n := v.session.Selected(); n != nil {
		selectedID = n.ID
	}
	if n := v.session.Editing(); n != nil {
		editingID = n.ID
	}
	overlay := v.renderer.Render(
		v.store.NodesForPage(v.view.Page()),
		selectedID, editingID,
		v.view.RasterScale(), b.Dx(), b.Dy())

	combined := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(combined, combined.Bounds(), v.pageImage, b.Min, draw.Src)
	draw.Draw(combined, combined.Bounds(), overlay, overlay.Bounds().Min, draw.Over)

	if v.view.FitActive() {
		v.view.ResetPan()
		dw, dh := fitSize(b.Dx(), b.Dy(), int(v.viewportW), int(v.viewportH))
		v.display = scaleImage(combined, dw, dh)
		return
	}

	// Zoomed mode: place the composite at the pan offset on a
	// viewport-sized surface, like a canvas blit.
	panX, panY := v.view.Pan()
	vp := image.NewRGBA(image.Rect(0, 0, int(v.viewportW), int(v.viewportH)))
	for i := range vp.Pix {
		vp.Pix[i] = 0xff
	}
	target := combined.Bounds().Add(image.Pt(int(panX), int(panY)))
	draw.Draw(vp, target, combined, combined.Bounds().Min, draw.Src)
	v.display = vp
}

// fitSize scales (w, h) to fit inside (maxW, maxH) preserving aspect ratio.
func fitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return w, h
	}
	imgRatio := float64(w) / float64(h)
	boxRatio := float64(maxW) / float64(maxH)
	if imgRatio > boxRatio {
		return maxW, int(float64(maxW) / imgRatio)
	}
	return int(float64(maxH) * imgRatio), maxH
}

// DragFrame applies one drag-move event. The vertex moves on every event;
// the page raster is recomposed only every dragRenderInterval frames, with
// an overlay-only redraw in between.
func (v *Viewer) DragFrame(screen Point) error {
	v.session.Drag(screen)
	v.dragRenders++
	if v.dragRenders%dragRenderInterval == 0 {
		return v.RenderPage()
	}
	return v.QuickRedraw()
}

// EndDrag releases the grabbed vertex and guarantees a full recomposition,
// so the displayed state matches the model once interaction pauses.
func (v *Viewer) EndDrag() error {
	v.session.Release()
	v.dragRenders = 0
	return v.RenderPage()
}

func (v *Viewer) PageCount() int {
	if v.doc == nil {
		return 0
	}
	return v.doc.PageCount()
}

// GoToPage switches pages: pan and page dimensions reset, zoom persists,
// fit mode re-engages at 100% zoom.
func (v *Viewer) GoToPage(page int) error {
	if v.doc == nil || page < 0 || page >= v.doc.PageCount() {
		return nil
	}
	v.session.Escape()
	v.view.SetPage(page)
	v.pageImage = nil
	return v.RenderPage()
}

func (v *Viewer) NextPage() error { return v.GoToPage(v.view.Page() + 1) }
func (v *Viewer) PrevPage() error { return v.GoToPage(v.view.Page() - 1) }

// ZoomAt zooms about a screen anchor and re-renders synchronously.
func (v *Viewer) ZoomAt(anchor Point, factor float64) error {
	v.view.ZoomAt(anchor, factor)
	return v.RenderPage()
}

// ZoomCenter zooms about the viewport center (keyboard zoom).
func (v *Viewer) ZoomCenter(factor float64) error {
	return v.ZoomAt(Point{X: v.viewportW / 2, Y: v.viewportH / 2}, factor)
}

func (v *Viewer) ResetZoom() error {
	if v.doc == nil {
		return nil
	}
	size := v.doc.PageSize(v.view.Page())
	v.view.ResetToFit(v.viewportW, v.viewportH, size.Width, size.Height)
	return v.RenderPage()
}

// PanBy pans the view and re-renders.
func (v *Viewer) PanBy(dx, dy float64) error {
	v.view.PanBy(dx, dy)
	return v.QuickRedraw()
}
