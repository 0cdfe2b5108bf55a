package main

import "math"

// HitTester answers proximity queries against page nodes. All tolerances
// arrive in screen pixels and are converted to document units at the current
// effective scale, so hits feel the same at any zoom.
type HitTester struct {
	view *ViewTransform
}

func NewHitTester(view *ViewTransform) *HitTester {
	return &HitTester{view: view}
}

func (h *HitTester) toleranceDoc(tolerancePx float64) float64 {
	s := h.view.EffectiveScale()
	if s <= 0 {
		return tolerancePx
	}
	return tolerancePx / s
}

// FindNodeNear returns the node whose stroke or endpoints come closest to
// the given screen point, if that closest distance is within tolerance.
// Endpoints are checked for every node regardless of point count, so even an
// incomplete single-point node can be picked up by its endpoint.
func (h *HitTester) FindNodeNear(screen Point, tolerancePx float64, nodes []*Node) *Node {
	doc := h.view.ToDocument(screen)
	tol := h.toleranceDoc(tolerancePx)

	var closest *Node
	best := math.MaxFloat64
	for _, n := range nodes {
		for i := 0; i < len(n.Points)-1; i++ {
			d := distancePointToSegment(doc, n.Points[i], n.Points[i+1])
			if d < best {
				best = d
				closest = n
			}
		}
		for _, p := range n.Points {
			d := distance(doc, p)
			if d < best {
				best = d
				closest = n
			}
		}
	}
	if closest != nil && best <= tol {
		return closest
	}
	return nil
}

// FindPointNear locates the nearest vertex of a single node; it is not
// segment-aware. Used while the node is in point-edit mode.
func (h *HitTester) FindPointNear(doc Point, n *Node, tolerancePx float64) (int, bool) {
	tol := h.toleranceDoc(tolerancePx)
	idx := -1
	best := math.MaxFloat64
	for i, p := range n.Points {
		d := distance(doc, p)
		if d < best {
			best = d
			idx = i
		}
	}
	if idx >= 0 && best <= tol {
		return idx, true
	}
	return 0, false
}

// FindInsertionIndex picks the splice position for a new vertex near the
// node's stroke: the closest segment, on the side of whichever of its
// endpoints is nearer the click.
func (h *HitTester) FindInsertionIndex(doc Point, n *Node, tolerancePx float64) (int, bool) {
	if len(n.Points) < 2 {
		return 0, false
	}
	tol := h.toleranceDoc(tolerancePx)
	best := math.MaxFloat64
	insert := 0
	found := false
	for i := 0; i < len(n.Points)-1; i++ {
		a, b := n.Points[i], n.Points[i+1]
		d := distancePointToSegment(doc, a, b)
		if d < best {
			best = d
			found = true
			if distance(doc, b) < distance(doc, a) {
				insert = i + 1
			} else {
				insert = i
			}
		}
	}
	if found && best <= tol {
		return insert, true
	}
	return 0, false
}
