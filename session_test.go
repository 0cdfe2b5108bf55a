package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recorder captures observer notifications in order.
type recorder struct {
	selected   []string
	deselected int
	started    int
	ended      int
}

func (r *recorder) NodeSelected(n *Node) { r.selected = append(r.selected, n.Name) }
func (r *recorder) NodeDeselected()      { r.deselected++ }
func (r *recorder) LineCreationStarted() { r.started++ }
func (r *recorder) LineCreationEnded()   { r.ended++ }

// newTestSession builds a session whose view maps screen and document
// coordinates 1:1, so test inputs read as document units.
func newTestSession() (*Store, *EditSession) {
	store := NewStore()
	view := newTestView()
	return store, NewEditSession(store, view)
}

func TestCreateLine(t *testing.T) {
	store, s := newTestSession()
	rec := &recorder{}
	s.AddObserver(rec)

	s.StartCreate()
	if s.State() != StateCreating {
		t.Fatalf("state = %v, want Creating", s.State())
	}
	s.Click(Point{X: 0, Y: 0})
	s.Click(Point{X: 100, Y: 0})
	s.Click(Point{X: 100, Y: 50})
	s.FinishCreate()

	if s.State() != StateIdle {
		t.Errorf("state after finish = %v, want Idle", s.State())
	}
	if store.Len() != 1 {
		t.Fatalf("store has %d nodes, want 1", store.Len())
	}
	n := store.All()[0]
	if n.Name != "Line 1" {
		t.Errorf("name = %q, want %q", n.Name, "Line 1")
	}
	want := []Point{{0, 0}, {100, 0}, {100, 50}}
	if diff := cmp.Diff(want, n.Points); diff != "" {
		t.Errorf("points (-want +got):\n%s", diff)
	}
	if n.Color != defaultNodeColor || n.Thickness != defaultThickness {
		t.Errorf("defaults not applied: color %q thickness %v", n.Color, n.Thickness)
	}
	if rec.started != 1 || rec.ended != 1 {
		t.Errorf("creation hooks fired %d/%d times, want 1/1", rec.started, rec.ended)
	}
}

func TestCreateLineTooShortIsDiscarded(t *testing.T) {
	store, s := newTestSession()

	s.StartCreate()
	s.Click(Point{X: 10, Y: 10})
	s.FinishCreate()
	if store.Len() != 0 {
		t.Errorf("one-point creation left %d nodes in the store", store.Len())
	}

	s.StartCreate()
	s.FinishCreate()
	if store.Len() != 0 {
		t.Errorf("zero-point creation left %d nodes in the store", store.Len())
	}
}

func TestEscapeAbortsCreation(t *testing.T) {
	store, s := newTestSession()
	s.StartCreate()
	s.Click(Point{X: 10, Y: 10})
	s.Escape()

	if s.State() != StateIdle {
		t.Errorf("state = %v, want Idle", s.State())
	}
	if store.Len() != 0 {
		t.Errorf("escape left %d nodes behind", store.Len())
	}
}

func TestSelectAndDeselect(t *testing.T) {
	store, s := newTestSession()
	rec := &recorder{}
	s.AddObserver(rec)
	store.Add(&Node{Name: "Feed", Points: []Point{{0, 100}, {200, 100}}})

	s.Click(Point{X: 100, Y: 110})
	if s.State() != StateSelected {
		t.Fatalf("state = %v, want Selected", s.State())
	}
	if sel := s.Selected(); sel == nil || sel.Name != "Feed" {
		t.Fatalf("Selected = %v", sel)
	}

	s.Click(Point{X: 500, Y: 500})
	if s.State() != StateIdle || s.Selected() != nil {
		t.Error("click on empty space should deselect")
	}
	if diff := cmp.Diff([]string{"Feed"}, rec.selected); diff != "" {
		t.Errorf("selection hooks (-want +got):\n%s", diff)
	}
	if rec.deselected != 1 {
		t.Errorf("deselected fired %d times, want 1", rec.deselected)
	}
}

func TestDoubleClickEntersPointEditing(t *testing.T) {
	store, s := newTestSession()
	store.Add(&Node{Name: "Feed", Points: []Point{{0, 100}, {200, 100}}})

	s.DoubleClick(Point{X: 100, Y: 105})
	if s.State() != StatePointEditing {
		t.Fatalf("state = %v, want PointEditing", s.State())
	}
	if e := s.Editing(); e == nil || e.Name != "Feed" {
		t.Errorf("Editing = %v", e)
	}
}

func TestDoubleClickIgnoresSinglePointNode(t *testing.T) {
	store, s := newTestSession()
	store.Add(&Node{Name: "Stub", Points: []Point{{50, 50}}})

	s.DoubleClick(Point{X: 50, Y: 50})
	if s.State() == StatePointEditing {
		t.Error("a single-point node must not enter point editing")
	}
}

func TestDragVertex(t *testing.T) {
	store, s := newTestSession()
	store.Add(&Node{Name: "Feed", Points: []Point{{0, 0}, {100, 0}}})

	s.DoubleClick(Point{X: 50, Y: 5})
	s.Click(Point{X: 100, Y: 0}) // grab the second vertex
	if s.State() != StateDragging || s.DragIndex() != 1 {
		t.Fatalf("state = %v index = %d, want Dragging/1", s.State(), s.DragIndex())
	}

	s.Drag(Point{X: 104, Y: 0})
	s.Drag(Point{X: 110, Y: 0})
	s.Release()

	if s.State() != StatePointEditing {
		t.Errorf("state after release = %v, want PointEditing", s.State())
	}
	got := store.All()[0].Points[1]
	if !approx(got.X, 110) || !approx(got.Y, 0) {
		t.Errorf("vertex = %+v, want (110,0)", got)
	}
}

func TestDragConvertsDeltaAtZoom(t *testing.T) {
	store, s := newTestSession()
	store.Add(&Node{Name: "Feed", Points: []Point{{0, 0}, {100, 0}}})

	// Zoom about the origin: document (100,0) sits at screen (200,0).
	s.view.ZoomAt(Point{}, 2.0)
	s.DoubleClick(Point{X: 100, Y: 5})
	s.Click(Point{X: 200, Y: 0})
	if s.State() != StateDragging {
		t.Fatalf("state = %v, want Dragging", s.State())
	}

	s.Drag(Point{X: 220, Y: 0}) // 20 screen px = 10 document units
	s.Release()

	got := store.All()[0].Points[1]
	if !approx(got.X, 110) || !approx(got.Y, 0) {
		t.Errorf("vertex = %+v, want (110,0)", got)
	}
}

func TestRightClickRemovesVertex(t *testing.T) {
	store, s := newTestSession()
	store.Add(&Node{Name: "Feed", Points: []Point{{0, 0}, {100, 0}, {100, 100}}})

	s.DoubleClick(Point{X: 50, Y: 5})
	s.RightClick(Point{X: 100, Y: 0})
	want := []Point{{0, 0}, {100, 100}}
	if diff := cmp.Diff(want, store.All()[0].Points); diff != "" {
		t.Errorf("points after removal (-want +got):\n%s", diff)
	}

	// A node never drops below two points.
	s.RightClick(Point{X: 0, Y: 0})
	if len(store.All()[0].Points) != 2 {
		t.Errorf("removal below two points was not refused: %d points", len(store.All()[0].Points))
	}
}

func TestRightClickInsertsVertex(t *testing.T) {
	store, s := newTestSession()
	store.Add(&Node{Name: "Feed", Points: []Point{{0, 0}, {100, 0}}})

	s.DoubleClick(Point{X: 50, Y: 5})
	s.RightClick(Point{X: 60, Y: 10})

	want := []Point{{0, 0}, {60, 10}, {100, 0}}
	if diff := cmp.Diff(want, store.All()[0].Points); diff != "" {
		t.Errorf("points after insertion (-want +got):\n%s", diff)
	}
}

func TestPointEditingClickOnEmptySpaceExits(t *testing.T) {
	store, s := newTestSession()
	rec := &recorder{}
	s.AddObserver(rec)
	store.Add(&Node{Name: "Feed", Points: []Point{{0, 0}, {100, 0}}})

	s.DoubleClick(Point{X: 50, Y: 5})
	s.Click(Point{X: 500, Y: 500})

	if s.State() != StateIdle {
		t.Errorf("state = %v, want Idle", s.State())
	}
	if s.Selected() != nil || s.Editing() != nil {
		t.Error("exit left a selection behind")
	}
	if rec.deselected != 1 {
		t.Errorf("deselected fired %d times, want 1", rec.deselected)
	}
}

func TestStaleIDsAreDropped(t *testing.T) {
	store, s := newTestSession()
	n := store.Add(&Node{Name: "Feed", Points: []Point{{0, 0}, {100, 0}}})

	s.Click(Point{X: 50, Y: 5})
	if s.Selected() == nil {
		t.Fatal("setup: selection failed")
	}

	// The node vanishes out from under the session.
	store.Remove(n.ID)
	if s.Selected() != nil {
		t.Error("Selected returned a deleted node")
	}
	s.Click(Point{X: 500, Y: 500})
	if s.State() != StateIdle {
		t.Errorf("state = %v, want Idle after validation", s.State())
	}
}

func TestDeleteSelected(t *testing.T) {
	store, s := newTestSession()
	rec := &recorder{}
	s.AddObserver(rec)
	store.Add(&Node{Name: "Feed", Points: []Point{{0, 0}, {100, 0}}})

	if s.DeleteSelected() {
		t.Error("delete with no selection should report false")
	}

	s.Click(Point{X: 50, Y: 5})
	if !s.DeleteSelected() {
		t.Fatal("DeleteSelected = false")
	}
	if store.Len() != 0 {
		t.Errorf("store still has %d nodes", store.Len())
	}
	if s.State() != StateIdle || s.Selected() != nil {
		t.Error("session kept state for the deleted node")
	}
	if rec.deselected != 1 {
		t.Errorf("deselected fired %d times, want 1", rec.deselected)
	}
}

func TestEscapeFromPointEditing(t *testing.T) {
	store, s := newTestSession()
	store.Add(&Node{Name: "Feed", Points: []Point{{0, 0}, {100, 0}}})

	s.DoubleClick(Point{X: 50, Y: 5})
	s.Click(Point{X: 100, Y: 0})
	s.Escape()

	if s.State() != StateIdle {
		t.Errorf("state = %v, want Idle", s.State())
	}
	if s.Editing() != nil || s.Selected() != nil || s.DragIndex() != -1 {
		t.Error("escape left partial editing state")
	}
}
