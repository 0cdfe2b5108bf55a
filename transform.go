package main

// ViewTransform owns the mapping between document coordinates and viewport
// pixels: screen = document*effectiveScale + pan. In zoomed mode the
// effective scale is renderScale*zoom, where renderScale is the
// magnification the page raster was produced at. In fit-to-window mode it is
// the largest scale that fits the page in the viewport, with zero pan.
type ViewTransform struct {
	zoom        float64
	panX, panY  float64
	fitToWindow bool
	renderScale float64

	page         int
	pageW, pageH float64 // document units, 0 while unknown

	viewportW, viewportH float64
}

func NewViewTransform(renderScale float64) *ViewTransform {
	if renderScale <= 0 {
		renderScale = 1.0
	}
	return &ViewTransform{
		zoom:        1.0,
		fitToWindow: true,
		renderScale: renderScale,
	}
}

func (v *ViewTransform) Zoom() float64                { return v.zoom }
func (v *ViewTransform) Pan() (float64, float64)      { return v.panX, v.panY }
func (v *ViewTransform) Page() int                    { return v.page }
func (v *ViewTransform) RenderScale() float64         { return v.renderScale }
func (v *ViewTransform) PageSize() (float64, float64) { return v.pageW, v.pageH }

// FitActive reports whether the view is currently displayed fit-to-window.
// The flag alone is not enough: a zoom action leaves fit mode, and returning
// the zoom level to exactly 1.0 does not re-enter it.
func (v *ViewTransform) FitActive() bool {
	return v.fitToWindow && v.zoom == 1.0
}

func (v *ViewTransform) SetViewport(w, h float64) {
	v.viewportW, v.viewportH = w, h
}

// SetPage moves to another page: pan and page dimensions reset, the zoom
// level survives, and a 100% zoom re-enters fit mode.
func (v *ViewTransform) SetPage(page int) {
	v.page = page
	v.panX, v.panY = 0, 0
	v.pageW, v.pageH = 0, 0
	if v.zoom == 1.0 {
		v.fitToWindow = true
	}
}

func (v *ViewTransform) SetPageSize(w, h float64) {
	v.pageW, v.pageH = w, h
}

// RasterScale is the document-to-raster-pixel factor the page image and the
// overlay are produced at, independent of fit-mode resampling and pan.
func (v *ViewTransform) RasterScale() float64 {
	return v.renderScale * v.zoom
}

func (v *ViewTransform) fitScale() float64 {
	if v.viewportW <= 1 || v.viewportH <= 1 || v.pageW <= 0 || v.pageH <= 0 {
		return 1.0
	}
	sx := v.viewportW / v.pageW
	sy := v.viewportH / v.pageH
	if sx < sy {
		return sx
	}
	return sy
}

// EffectiveScale is the full document-to-screen scale factor. A degenerate
// viewport or unknown page size yields 1.0 so callers survive the transient
// invalid-layout state without NaNs.
func (v *ViewTransform) EffectiveScale() float64 {
	if v.FitActive() {
		return v.fitScale()
	}
	s := v.renderScale * v.zoom
	if s <= 0 {
		return 1.0
	}
	return s
}

func (v *ViewTransform) ToScreen(p Point) Point {
	s := v.EffectiveScale()
	return Point{X: p.X*s + v.panX, Y: p.Y*s + v.panY}
}

func (v *ViewTransform) ToDocument(p Point) Point {
	s := v.EffectiveScale()
	return Point{X: (p.X - v.panX) / s, Y: (p.Y - v.panY) / s}
}

// ZoomAt multiplies the zoom level by factor, clamped to [minZoom, maxZoom],
// and adjusts pan so the document point under anchor stays under anchor.
// Any effective zoom change leaves fit-to-window mode.
func (v *ViewTransform) ZoomAt(anchor Point, factor float64) {
	newZoom := clamp(v.zoom*factor, minZoom, maxZoom)
	if newZoom == v.zoom {
		return
	}
	doc := v.ToDocument(anchor)
	v.zoom = newZoom
	v.fitToWindow = false
	s := v.EffectiveScale()
	v.panX = anchor.X - doc.X*s
	v.panY = anchor.Y - doc.Y*s
}

// ResetToFit returns to fit-to-window display: zoom 100%, zero pan.
func (v *ViewTransform) ResetToFit(viewportW, viewportH, pageW, pageH float64) {
	v.viewportW, v.viewportH = viewportW, viewportH
	v.pageW, v.pageH = pageW, pageH
	v.zoom = 1.0
	v.fitToWindow = true
	v.panX, v.panY = 0, 0
}

// PanBy translates the view in screen space. Panning never itself changes
// fit mode; in fit mode the pan is discarded at the next render.
func (v *ViewTransform) PanBy(dx, dy float64) {
	v.panX += dx
	v.panY += dy
}

func (v *ViewTransform) ResetPan() {
	v.panX, v.panY = 0, 0
}
