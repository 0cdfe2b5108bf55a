package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStrokeWidthFor(t *testing.T) {
	tests := []struct {
		thickness float64
		selected  bool
		scale     float64
		want      float64
	}{
		{2, false, 1, 2},
		{2, false, 1.5, 3},
		{2, true, 1, 5},  // thickness+3 wins for thin strokes
		{5, true, 1, 10}, // doubling wins for thick strokes
		{2, true, 2, 10},
	}
	for _, tt := range tests {
		got := strokeWidthFor(tt.thickness, tt.selected, tt.scale)
		if !approx(got, tt.want) {
			t.Errorf("strokeWidthFor(%v, %v, %v) = %v, want %v",
				tt.thickness, tt.selected, tt.scale, got, tt.want)
		}
	}
}

func TestLabelPlacement(t *testing.T) {
	// Horizontal longest segment: label centered on it, unrotated.
	mid, rotated := labelPlacement([]Point{{0, 0}, {100, 0}, {100, 20}})
	if !approx(mid.X, 50) || !approx(mid.Y, 0) {
		t.Errorf("mid = %+v, want (50,0)", mid)
	}
	if rotated {
		t.Error("horizontal label should not rotate")
	}

	_, rotated = labelPlacement([]Point{{0, 0}, {0, 100}})
	if !rotated {
		t.Error("vertical label should rotate")
	}

	// Exactly 45 degrees stays horizontal; the rotation band is strict.
	_, rotated = labelPlacement([]Point{{0, 0}, {100, 100}})
	if rotated {
		t.Error("45-degree label should not rotate")
	}

	_, rotated = labelPlacement([]Point{{0, 0}, {-10, 100}})
	if !rotated {
		t.Error("steep label should rotate")
	}
}

func TestIndicatorCenters(t *testing.T) {
	pts := []Point{{0, 0}, {100, 0}}

	got := indicatorCenters(pts, 3, 8)
	want := []Point{{30, 10}, {50, 10}, {70, 10}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("three indicators (-want +got):\n%s", diff)
	}

	got = indicatorCenters(pts, 1, 8)
	want = []Point{{50, 10}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("single indicator (-want +got):\n%s", diff)
	}

	if got := indicatorCenters(pts, 0, 8); got != nil {
		t.Errorf("zero deviations produced %d centers", len(got))
	}
	if got := indicatorCenters([]Point{{5, 5}}, 2, 8); got != nil {
		t.Error("a single-point node has no indicator row")
	}
	if got := indicatorCenters([]Point{{5, 5}, {5, 5}}, 2, 8); got != nil {
		t.Error("a zero-length polyline has no indicator row")
	}
}

func TestIndicatorCentersSymmetricAboutMidpoint(t *testing.T) {
	pts := []Point{{0, 0}, {60, 0}, {60, 60}}
	centers := indicatorCenters(pts, 4, 8)
	if len(centers) != 4 {
		t.Fatalf("got %d centers, want 4", len(centers))
	}
	// Arc midpoint is the corner (60,0); the local tangent there is the
	// first segment's, so the row runs along x and the group average sits
	// on the midpoint.
	var sumX, sumY float64
	for _, c := range centers {
		sumX += c.X
		sumY += c.Y
	}
	if !approx(sumX/4, 60) {
		t.Errorf("row center x = %v, want 60", sumX/4)
	}
	if !approx(sumY/4, 10) {
		t.Errorf("row offset y = %v, want 10", sumY/4)
	}
}

func TestRenderImageSize(t *testing.T) {
	r, err := NewOverlayRenderer()
	if err != nil {
		t.Fatal(err)
	}
	nodes := []*Node{
		{
			ID:        1,
			Name:      "Feed line",
			Color:     "#00AA55",
			Thickness: 2,
			HasArrow:  true,
			Points:    []Point{{10, 10}, {90, 10}},
			Deviations: []Deviation{
				{Deviation: "No flow"},
				{Deviation: "Reverse flow"},
			},
		},
		{ID: 2, Points: []Point{{50, 50}}}, // incomplete, skipped
	}

	img := r.Render(nodes, 1, 0, 1.0, 200, 120)
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 120 {
		t.Errorf("overlay size = %dx%d, want 200x120", b.Dx(), b.Dy())
	}

	// Same nodes in editing state; only patterns change, never geometry.
	img = r.Render(nodes, 1, 1, 2.0, 400, 240)
	b = img.Bounds()
	if b.Dx() != 400 || b.Dy() != 240 {
		t.Errorf("scaled overlay size = %dx%d, want 400x240", b.Dx(), b.Dy())
	}
}

func TestRenderBadColorFallsBack(t *testing.T) {
	r, err := NewOverlayRenderer()
	if err != nil {
		t.Fatal(err)
	}
	nodes := []*Node{{ID: 1, Color: "chartreuse", Thickness: 1, Points: []Point{{0, 0}, {10, 10}}}}
	img := r.Render(nodes, 0, 0, 1.0, 20, 20)
	if img == nil {
		t.Fatal("render returned nil")
	}
}

func TestParseHexColor(t *testing.T) {
	r, g, b, err := parseHexColor("#FF0080")
	if err != nil {
		t.Fatal(err)
	}
	if !approx(r, 1) || !approx(g, 0) || !approx(b, 128.0/255) {
		t.Errorf("parseHexColor = %v, %v, %v", r, g, b)
	}
	if _, _, _, err := parseHexColor("red"); err == nil {
		t.Error("expected error for a non-hex color")
	}
	if _, _, _, err := parseHexColor("#12345"); err == nil {
		t.Error("expected error for a short hex color")
	}
}
