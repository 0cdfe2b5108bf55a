package main

import (
	"testing"
)

func TestDistancePointToSegment(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 10, Y: 0}

	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"above midpoint", Point{X: 5, Y: 3}, 3},
		{"beyond end clamps to endpoint", Point{X: 14, Y: 3}, 5},
		{"before start clamps to endpoint", Point{X: -3, Y: 4}, 5},
		{"on the segment", Point{X: 7, Y: 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := distancePointToSegment(tt.p, a, b); !approx(got, tt.want) {
				t.Errorf("distancePointToSegment(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDistancePointToSegmentDegenerate(t *testing.T) {
	p := Point{X: 3, Y: 4}
	if got := distancePointToSegment(p, Point{}, Point{}); !approx(got, 5) {
		t.Errorf("degenerate segment distance = %v, want 5", got)
	}
}

func TestPolylineArcLength(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}}
	if got := polylineArcLength(pts); !approx(got, 20) {
		t.Errorf("arc length = %v, want 20", got)
	}
	if got := polylineArcLength([]Point{{5, 5}}); got != 0 {
		t.Errorf("single point arc length = %v, want 0", got)
	}
}

func TestPointAtArcLength(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}}

	p, tan := pointAtArcLength(pts, 5)
	if !approx(p.X, 5) || !approx(p.Y, 0) {
		t.Errorf("point at 5 = %+v, want (5,0)", p)
	}
	if !approx(tan.X, 1) || !approx(tan.Y, 0) {
		t.Errorf("tangent at 5 = %+v, want (1,0)", tan)
	}

	p, tan = pointAtArcLength(pts, 15)
	if !approx(p.X, 10) || !approx(p.Y, 5) {
		t.Errorf("point at 15 = %+v, want (10,5)", p)
	}
	if !approx(tan.X, 0) || !approx(tan.Y, 1) {
		t.Errorf("tangent at 15 = %+v, want (0,1)", tan)
	}

	// Overshoot lands on the final point with the last tangent.
	p, tan = pointAtArcLength(pts, 100)
	if !approx(p.X, 10) || !approx(p.Y, 10) {
		t.Errorf("overshoot point = %+v, want (10,10)", p)
	}
	if !approx(tan.Y, 1) {
		t.Errorf("overshoot tangent = %+v, want (0,1)", tan)
	}

	p, tan = pointAtArcLength(nil, 5)
	if p != (Point{}) || tan != (Point{}) {
		t.Errorf("empty polyline = %+v/%+v, want zeros", p, tan)
	}

	p, tan = pointAtArcLength([]Point{{3, 3}, {3, 3}}, 1)
	if !approx(p.X, 3) || tan != (Point{}) {
		t.Errorf("zero-length polyline = %+v/%+v", p, tan)
	}
}

func TestPerpendicular(t *testing.T) {
	got := perpendicular(Point{X: 1, Y: 0})
	if !approx(got.X, 0) || !approx(got.Y, 1) {
		t.Errorf("perpendicular(1,0) = %+v, want (0,1)", got)
	}
	got = perpendicular(Point{X: 0, Y: 1})
	if !approx(got.X, -1) || !approx(got.Y, 0) {
		t.Errorf("perpendicular(0,1) = %+v, want (-1,0)", got)
	}
}

func TestLongestSegment(t *testing.T) {
	a, b := longestSegment([]Point{{0, 0}, {10, 0}, {10, 3}})
	if a != (Point{0, 0}) || b != (Point{10, 0}) {
		t.Errorf("longest = %+v-%+v, want first segment", a, b)
	}

	// Equal lengths pick the earliest segment.
	a, b = longestSegment([]Point{{0, 0}, {10, 0}, {10, 10}})
	if a != (Point{0, 0}) || b != (Point{10, 0}) {
		t.Errorf("tie broke to %+v-%+v, want first segment", a, b)
	}

	a, b = longestSegment([]Point{{7, 7}})
	if a != (Point{7, 7}) || b != (Point{7, 7}) {
		t.Errorf("single point = %+v-%+v", a, b)
	}
}

func TestSegmentAngleDegrees(t *testing.T) {
	tests := []struct {
		a, b Point
		want float64
	}{
		{Point{0, 0}, Point{10, 0}, 0},
		{Point{0, 0}, Point{0, 10}, 90},
		{Point{0, 0}, Point{-10, 0}, 180},
		{Point{0, 0}, Point{10, 10}, 45},
	}
	for _, tt := range tests {
		if got := segmentAngleDegrees(tt.a, tt.b); !approx(got, tt.want) {
			t.Errorf("segmentAngleDegrees(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(5, 0, 1); got != 1 {
		t.Errorf("clamp(5,0,1) = %v", got)
	}
	if got := clamp(-5, 0, 1); got != 0 {
		t.Errorf("clamp(-5,0,1) = %v", got)
	}
	if got := clamp(0.5, 0, 1); got != 0.5 {
		t.Errorf("clamp(0.5,0,1) = %v", got)
	}
}
