package main

import "fmt"

// SessionObserver receives lifecycle notifications, invoked synchronously
// from within the transition that causes them.
type SessionObserver interface {
	NodeSelected(n *Node)
	NodeDeselected()
	LineCreationStarted()
	LineCreationEnded()
}

// EditSession is the state machine coordinating line creation, selection and
// point editing. It holds node ids, never node pointers: the store owns node
// lifetime, and stale ids are dropped on the next event.
type EditSession struct {
	store *Store
	view  *ViewTransform
	hits  *HitTester

	observers []SessionObserver
	defaults  NodeStyle

	state      SessionState
	selectedID int
	editingID  int
	creatingID int
	dragIndex  int
	lastDrag   Point // screen space
	dragOrigin Point // document space, vertex value at grab time
}

func NewEditSession(store *Store, view *ViewTransform) *EditSession {
	return &EditSession{
		store:    store,
		view:     view,
		hits:     NewHitTester(view),
		defaults: defaultNodeStyle(),
		state:    StateIdle,
	}
}

func (s *EditSession) AddObserver(o SessionObserver) {
	s.observers = append(s.observers, o)
}

func (s *EditSession) SetDefaults(style NodeStyle) {
	s.defaults = style
}

func (s *EditSession) State() SessionState { return s.state }

// Selected returns the selected node, or nil. The id is validated against
// the store so a deleted node can never be returned.
func (s *EditSession) Selected() *Node {
	if s.selectedID == 0 {
		return nil
	}
	return s.store.Get(s.selectedID)
}

func (s *EditSession) Editing() *Node {
	if s.editingID == 0 {
		return nil
	}
	return s.store.Get(s.editingID)
}

func (s *EditSession) DragIndex() int { return s.dragIndex }

// validate drops references to nodes the store no longer holds and falls
// back to the nearest safe state.
func (s *EditSession) validate() {
	if s.selectedID != 0 && s.store.Get(s.selectedID) == nil {
		s.selectedID = 0
		if s.state == StateSelected {
			s.state = StateIdle
		}
	}
	if s.editingID != 0 && s.store.Get(s.editingID) == nil {
		s.editingID = 0
		s.dragIndex = -1
		if s.state == StatePointEditing || s.state == StateDragging {
			s.state = StateIdle
		}
	}
	if s.creatingID != 0 && s.store.Get(s.creatingID) == nil {
		s.creatingID = 0
		if s.state == StateCreating {
			s.state = StateIdle
		}
	}
}

func (s *EditSession) fireSelected(n *Node) {
	for _, o := range s.observers {
		o.NodeSelected(n)
	}
}

func (s *EditSession) fireDeselected() {
	for _, o := range s.observers {
		o.NodeDeselected()
	}
}

// StartCreate enters line creation, clearing any in-progress path.
func (s *EditSession) StartCreate() {
	s.validate()
	s.state = StateCreating
	s.creatingID = 0
	for _, o := range s.observers {
		o.LineCreationStarted()
	}
}

// FinishCreate ends line creation. An aborted creation (fewer than two
// recorded points) leaves no trace in the store.
func (s *EditSession) FinishCreate() {
	s.validate()
	if s.creatingID != 0 {
		if n := s.store.Get(s.creatingID); n != nil && len(n.Points) < 2 {
			s.store.Remove(s.creatingID)
		}
	}
	s.creatingID = 0
	if s.state == StateCreating {
		s.state = StateIdle
	}
	for _, o := range s.observers {
		o.LineCreationEnded()
	}
}

// Click handles a primary button press at a screen position.
func (s *EditSession) Click(screen Point) {
	s.validate()
	switch s.state {
	case StateCreating:
		doc := s.view.ToDocument(screen)
		if s.creatingID == 0 {
			n := &Node{
				Name:         fmt.Sprintf("Line %d", s.store.Len()+1),
				Color:        s.defaults.Color,
				Thickness:    s.defaults.Thickness,
				Transparency: s.defaults.Transparency,
				HasArrow:     s.defaults.HasArrow,
				FontSize:     s.defaults.FontSize,
				Page:         s.view.Page(),
				Points:       []Point{doc},
			}
			s.store.Add(n)
			s.creatingID = n.ID
		} else if n := s.store.Get(s.creatingID); n != nil {
			n.Points = append(n.Points, doc)
		}

	case StatePointEditing:
		n := s.Editing()
		if n == nil {
			s.state = StateIdle
			return
		}
		doc := s.view.ToDocument(screen)
		if idx, ok := s.hits.FindPointNear(doc, n, grabTolerancePx); ok {
			s.state = StateDragging
			s.dragIndex = idx
			s.dragOrigin = n.Points[idx]
			s.lastDrag = screen
			return
		}
		// Clicking empty space exits point editing.
		s.editingID = 0
		s.dragIndex = -1
		s.state = StateIdle
		if s.selectedID != 0 {
			s.selectedID = 0
			s.fireDeselected()
		}

	default:
		nodes := s.store.NodesForPage(s.view.Page())
		if n := s.hits.FindNodeNear(screen, selectTolerancePx, nodes); n != nil {
			s.state = StateSelected
			s.selectedID = n.ID
			s.fireSelected(n)
		} else {
			s.state = StateIdle
			s.selectedID = 0
			s.fireDeselected()
		}
	}
}

// DoubleClick enters point-edit mode on a node with at least two points.
func (s *EditSession) DoubleClick(screen Point) {
	s.validate()
	if s.state == StateCreating || s.state == StatePointEditing || s.state == StateDragging {
		return
	}
	nodes := s.store.NodesForPage(s.view.Page())
	n := s.hits.FindNodeNear(screen, selectTolerancePx, nodes)
	if n == nil || len(n.Points) < 2 {
		return
	}
	s.state = StatePointEditing
	s.selectedID = n.ID
	s.editingID = n.ID
	s.dragIndex = -1
	s.fireSelected(n)
}

// Drag moves the grabbed vertex by the screen delta converted to document
// units at the current effective scale. The model updates on every event
// regardless of how often the host chooses to re-render.
func (s *EditSession) Drag(screen Point) {
	s.validate()
	if s.state != StateDragging {
		return
	}
	n := s.Editing()
	if n == nil || s.dragIndex < 0 || s.dragIndex >= len(n.Points) {
		s.state = StateIdle
		s.dragIndex = -1
		return
	}
	scale := s.view.EffectiveScale()
	p := n.Points[s.dragIndex]
	p.X += (screen.X - s.lastDrag.X) / scale
	p.Y += (screen.Y - s.lastDrag.Y) / scale
	n.Points[s.dragIndex] = p
	s.lastDrag = screen
}

// Release ends a vertex drag, returning to point editing.
func (s *EditSession) Release() {
	s.validate()
	if s.state == StateDragging {
		s.state = StatePointEditing
		s.dragIndex = -1
	}
}

// RightClick ends creation, or in point-edit mode removes the vertex under
// the cursor (refused if the node would drop below two points) or splices a
// new vertex into the nearest segment.
func (s *EditSession) RightClick(screen Point) {
	s.validate()
	switch s.state {
	case StateCreating:
		s.FinishCreate()

	case StatePointEditing:
		n := s.Editing()
		if n == nil {
			s.state = StateIdle
			return
		}
		doc := s.view.ToDocument(screen)
		if idx, ok := s.hits.FindPointNear(doc, n, grabTolerancePx); ok {
			if len(n.Points) > 2 {
				n.Points = append(n.Points[:idx], n.Points[idx+1:]...)
			}
			return
		}
		if idx, ok := s.hits.FindInsertionIndex(doc, n, insertTolerancePx); ok {
			n.Points = append(n.Points, Point{})
			copy(n.Points[idx+1:], n.Points[idx:])
			n.Points[idx] = doc
		}
	}
}

// Escape aborts whatever is in progress and returns to Idle with no partial
// state left behind.
func (s *EditSession) Escape() {
	s.validate()
	if s.state == StateCreating {
		s.FinishCreate()
	}
	s.editingID = 0
	s.dragIndex = -1
	s.state = StateIdle
	if s.selectedID != 0 {
		s.selectedID = 0
		s.fireDeselected()
	}
}

// DeleteSelected removes the selected node from the store and clears the
// session's references to it.
func (s *EditSession) DeleteSelected() bool {
	s.validate()
	if s.selectedID == 0 {
		return false
	}
	id := s.selectedID
	s.selectedID = 0
	if s.editingID == id {
		s.editingID = 0
		s.dragIndex = -1
	}
	s.state = StateIdle
	removed := s.store.Remove(id)
	if removed {
		s.fireDeselected()
	}
	return removed
}
