package main

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// OverlayRenderer draws the annotation layer: a transparent image with the
// same pixel size as the page raster, composited over it by the viewer.
type OverlayRenderer struct {
	font *truetype.Font
}

func NewOverlayRenderer() (*OverlayRenderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	return &OverlayRenderer{font: f}, nil
}

// Render draws all complete nodes at the given raster scale
// (document units -> raster pixels). selectedID/editingID pick the stroke
// pattern; geometry is identical across all three states.
func (r *OverlayRenderer) Render(nodes []*Node, selectedID, editingID int, scale float64, width, height int) image.Image {
	dc := gg.NewContext(width, height)

	for _, n := range nodes {
		if len(n.Points) < 2 {
			continue
		}
		pts := scalePoints(n.Points, scale)
		cr, cg, cb, err := parseHexColor(n.Color)
		if err != nil {
			cr, cg, cb, _ = parseHexColor(defaultNodeColor)
		}
		alpha := clamp(n.Transparency, 0, 1)

		selected := n.ID == selectedID
		editing := n.ID == editingID
		stroke := strokeWidthFor(n.Thickness, selected, scale)

		dc.SetRGBA(cr, cg, cb, alpha)
		dc.SetLineWidth(stroke)
		switch {
		case editing:
			drawDotDashedPolyline(dc, pts, stroke)
			drawVertexMarkers(dc, pts, cr, cg, cb, scale)
			dc.SetRGBA(cr, cg, cb, alpha)
			dc.SetLineWidth(stroke)
		case selected:
			drawDashedPolyline(dc, pts)
		default:
			for i := 0; i < len(pts)-1; i++ {
				dc.DrawLine(pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y)
				dc.Stroke()
			}
		}

		if n.HasArrow {
			drawArrowhead(dc, pts[len(pts)-2], pts[len(pts)-1], stroke)
		}
		if n.Name != "" {
			r.drawLabel(dc, n, pts, scale)
		}
		if len(n.Deviations) > 0 {
			drawIndicators(dc, pts, len(n.Deviations), cr, cg, cb, scale)
		}
	}
	return dc.Image()
}

func scalePoints(points []Point, scale float64) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p.X * scale, Y: p.Y * scale}
	}
	return out
}

// strokeWidthFor thickens the selected stroke so thin lines stay clearly
// distinguishable when selected.
func strokeWidthFor(thickness float64, selected bool, scale float64) float64 {
	if selected {
		return math.Max((thickness+3)*scale, thickness*2*scale)
	}
	return thickness * scale
}

func drawDashedPolyline(dc *gg.Context, pts []Point) {
	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]
		length := distance(a, b)
		if length == 0 {
			continue
		}
		dx := (b.X - a.X) / length
		dy := (b.Y - a.Y) / length

		walked := 0.0
		drawDash := true
		for walked < length {
			if drawDash {
				end := math.Min(walked+dashLength, length)
				dc.DrawLine(a.X+walked*dx, a.Y+walked*dy, a.X+end*dx, a.Y+end*dy)
				dc.Stroke()
				walked += dashLength
			} else {
				walked += dashGapLength
			}
			drawDash = !drawDash
		}
	}
}

// drawDotDashedPolyline renders the point-editing pattern: dot, gap, dash,
// gap, repeating along each segment.
func drawDotDashedPolyline(dc *gg.Context, pts []Point, width float64) {
	dotRadius := math.Max(2, width/2)
	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]
		length := distance(a, b)
		if length == 0 {
			continue
		}
		dx := (b.X - a.X) / length
		dy := (b.Y - a.Y) / length

		walked := 0.0
		phase := 0 // 0 dot, 1 gap, 2 dash, 3 gap
		for walked < length {
			switch phase {
			case 0:
				dc.DrawCircle(a.X+walked*dx, a.Y+walked*dy, dotRadius)
				dc.Fill()
				walked += dotLength
			case 1, 3:
				walked += dotGapLength
			case 2:
				end := math.Min(walked+dotDashLength, length)
				dc.DrawLine(a.X+walked*dx, a.Y+walked*dy, a.X+end*dx, a.Y+end*dy)
				dc.Stroke()
				walked = end
			}
			phase = (phase + 1) % 4
		}
	}
}

func drawVertexMarkers(dc *gg.Context, pts []Point, cr, cg, cb, scale float64) {
	size := math.Max(8, 8*scale)
	half := size / 2
	for _, p := range pts {
		dc.DrawRectangle(p.X-half, p.Y-half, size, size)
		dc.SetRGBA(cr, cg, cb, 1)
		dc.FillPreserve()
		dc.SetRGBA(1, 1, 1, 1)
		dc.SetLineWidth(2)
		dc.Stroke()
	}
}

// drawArrowhead draws two short strokes back from the terminal point at
// ±30° from the final segment's direction.
func drawArrowhead(dc *gg.Context, from, to Point, width float64) {
	length := distance(from, to)
	if length == 0 {
		return
	}
	size := math.Max(10, width*3)
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	for _, da := range []float64{-math.Pi / 6, math.Pi / 6} {
		dc.DrawLine(to.X, to.Y,
			to.X-size*math.Cos(angle+da),
			to.Y-size*math.Sin(angle+da))
		dc.Stroke()
	}
}

// labelPlacement picks the midpoint of the longest segment and whether the
// label should be rotated to vertical (segment angle strictly between 45°
// and 135° from horizontal).
func labelPlacement(pts []Point) (Point, bool) {
	a, b := longestSegment(pts)
	mid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	angle := math.Abs(segmentAngleDegrees(a, b))
	return mid, angle > 45 && angle < 135
}

func (r *OverlayRenderer) drawLabel(dc *gg.Context, n *Node, pts []Point, scale float64) {
	mid, rotated := labelPlacement(pts)
	size := n.FontSize * scale
	if size <= 0 {
		size = defaultFontSize
	}
	face := truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	w, h := dc.MeasureString(n.Name)
	dc.Push()
	if rotated {
		dc.RotateAbout(gg.Radians(90), mid.X, mid.Y)
	}
	// Opaque light chip behind the text for legibility over page content.
	dc.SetRGBA(1, 1, 1, 200.0/255.0)
	dc.DrawRectangle(mid.X-w/2-2, mid.Y-h/2-2, w+4, h+4)
	dc.Fill()
	cr, cg, cb, err := parseHexColor(n.Color)
	if err != nil {
		cr, cg, cb, _ = parseHexColor(defaultNodeColor)
	}
	dc.SetRGBA(cr, cg, cb, 1)
	dc.DrawStringAnchored(n.Name, mid.X, mid.Y, 0.5, 0.5)
	dc.Pop()
}

// indicatorCenters lays out the deviation indicator row: centered as a group
// at the polyline's arc-length midpoint, spaced along the local tangent,
// offset to one side along the perpendicular. A zero-length midpoint tangent
// falls back to the first segment's direction.
func indicatorCenters(pts []Point, count int, radius float64) []Point {
	if count <= 0 || len(pts) < 2 {
		return nil
	}
	total := polylineArcLength(pts)
	if total == 0 {
		return nil
	}
	mid, tangent := pointAtArcLength(pts, total/2)
	if tangent.X == 0 && tangent.Y == 0 {
		first := distance(pts[0], pts[1])
		if first > 0 {
			tangent = Point{X: (pts[1].X - pts[0].X) / first, Y: (pts[1].Y - pts[0].Y) / first}
		}
	}
	perp := perpendicular(tangent)

	spacing := radius * indicatorSpacing
	start := -float64(count-1) * spacing / 2
	centers := make([]Point, count)
	for i := range centers {
		offset := start + float64(i)*spacing
		centers[i] = Point{
			X: mid.X + offset*tangent.X + perp.X*(radius+2),
			Y: mid.Y + offset*tangent.Y + perp.Y*(radius+2),
		}
	}
	return centers
}

func drawIndicators(dc *gg.Context, pts []Point, count int, cr, cg, cb, scale float64) {
	radius := indicatorBaseRadius * scale
	for _, c := range indicatorCenters(pts, count, radius) {
		dc.DrawCircle(c.X, c.Y, radius)
		dc.SetRGBA(cr, cg, cb, 1)
		dc.FillPreserve()
		dc.SetRGBA(1, 1, 1, 1)
		dc.SetLineWidth(2)
		dc.Stroke()
	}
}
