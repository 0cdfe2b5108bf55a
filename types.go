package main

import (
	"encoding/json"
	"fmt"
)

// Point is a coordinate in document space unless stated otherwise.
type Point struct {
	X float64
	Y float64
}

// Points persist as [x, y] pairs.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

// Deviation is a structured note attached to a node. The engine core only
// ever looks at how many of these a node carries.
type Deviation struct {
	Deviation       string   `json:"deviation"`
	Causes          []string `json:"causes"`
	Consequence     string   `json:"consequence"`
	Safeguards      []string `json:"safeguards"`
	Recommendations []string `json:"recommendations"`
	Comments        string   `json:"comments"`
	Minimized       bool     `json:"minimized"`
}

// Node is a labeled, styled polyline annotation scoped to one page.
// Thickness and FontSize are in document units; Transparency is 0-1.
type Node struct {
	ID           int         `json:"-"`
	Name         string      `json:"name"`
	Color        string      `json:"color"`
	Thickness    float64     `json:"thickness"`
	Transparency float64     `json:"transparency"`
	HasArrow     bool        `json:"has_arrow"`
	FontSize     float64     `json:"font_size"`
	Points       []Point     `json:"points"`
	Deviations   []Deviation `json:"deviations"`
	Page         int         `json:"page_number"`
}

// NodeStyle holds the stroke/label defaults applied to newly created nodes.
type NodeStyle struct {
	Color        string
	Thickness    float64
	Transparency float64
	HasArrow     bool
	FontSize     float64
}

func defaultNodeStyle() NodeStyle {
	return NodeStyle{
		Color:        defaultNodeColor,
		Thickness:    defaultThickness,
		Transparency: defaultTransparency,
		HasArrow:     true,
		FontSize:     defaultFontSize,
	}
}
