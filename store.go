package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Store is the in-memory annotation collection and the sole owner of node
// lifetime. Nodes are handed out as id-bearing pointers; anything holding an
// id must re-check it against the store before use.
type Store struct {
	DocumentPath string

	nodes  []*Node
	nextID int
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

// Add registers the node, assigning its id. Duplicate names are allowed.
func (s *Store) Add(n *Node) *Node {
	n.ID = s.nextID
	s.nextID++
	s.nodes = append(s.nodes, n)
	return n
}

func (s *Store) Remove(id int) bool {
	for i, n := range s.nodes {
		if n.ID == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Get(id int) *Node {
	for _, n := range s.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NodesForPage returns the page's nodes in insertion order.
func (s *Store) NodesForPage(page int) []*Node {
	var out []*Node
	for _, n := range s.nodes {
		if n.Page == page {
			out = append(out, n)
		}
	}
	return out
}

func (s *Store) All() []*Node {
	return s.nodes
}

func (s *Store) Len() int {
	return len(s.nodes)
}

type storeJSON struct {
	DocumentPath string  `json:"pdf_path"`
	Nodes        []*Node `json:"nodes"`
}

// SaveJSON writes the analysis in the persisted shape: document path plus
// per-node name, color, thickness, transparency, arrow flag, font size,
// point pairs, deviations and page index.
func (s *Store) SaveJSON(path string) error {
	data, err := json.MarshalIndent(storeJSON{
		DocumentPath: s.DocumentPath,
		Nodes:        s.nodes,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing analysis: %w", err)
	}
	return nil
}

// LoadStore reads an analysis file, reassigning fresh ids in file order so
// point order and node identity round-trip intact.
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading analysis: %w", err)
	}
	var raw storeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}
	s := NewStore()
	s.DocumentPath = raw.DocumentPath
	for _, n := range raw.Nodes {
		s.Add(n)
	}
	return s, nil
}
