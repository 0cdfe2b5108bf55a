package main

import "math"

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// distancePointToSegment is the projection-clamped distance from p to the
// segment ab. A degenerate segment (a == b) degrades to point distance.
func distancePointToSegment(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 && dy == 0 {
		return distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (dx*dx + dy*dy)
	t = clamp(t, 0, 1)
	closest := Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return distance(p, closest)
}

func polylineArcLength(points []Point) float64 {
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += distance(points[i], points[i+1])
	}
	return total
}

// pointAtArcLength walks the polyline to the point at cumulative path
// distance target, returning that point and the unit tangent of the segment
// it lies on. A zero-length or empty polyline yields the first point (or the
// origin) with a zero tangent.
func pointAtArcLength(points []Point, target float64) (Point, Point) {
	if len(points) == 0 {
		return Point{}, Point{}
	}
	var tangent Point
	walked := 0.0
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		segLen := distance(a, b)
		if segLen > 0 {
			tangent = Point{X: (b.X - a.X) / segLen, Y: (b.Y - a.Y) / segLen}
		}
		if walked+segLen >= target && segLen > 0 {
			t := (target - walked) / segLen
			return Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}, tangent
		}
		walked += segLen
	}
	if walked == 0 {
		return points[0], Point{}
	}
	return points[len(points)-1], tangent
}

// perpendicular rotates a unit tangent 90 degrees.
func perpendicular(t Point) Point {
	return Point{X: -t.Y, Y: t.X}
}

// longestSegment returns the endpoints of the longest segment in path order;
// ties go to the earliest segment.
func longestSegment(points []Point) (Point, Point) {
	if len(points) < 2 {
		if len(points) == 1 {
			return points[0], points[0]
		}
		return Point{}, Point{}
	}
	maxLen := -1.0
	a, b := points[0], points[1]
	for i := 0; i < len(points)-1; i++ {
		l := distance(points[i], points[i+1])
		if l > maxLen {
			maxLen = l
			a, b = points[i], points[i+1]
		}
	}
	return a, b
}

// segmentAngleDegrees is the angle of ab from horizontal, in (-180, 180].
func segmentAngleDegrees(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
