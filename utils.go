package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// parseHexColor converts "#RRGGBB" to 0-1 component floats.
func parseHexColor(s string) (r, g, b float64, err error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", s)
	}
	var ri, gi, bi int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &ri, &gi, &bi); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", s)
	}
	return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255, nil
}

// nodeSummary formats a node and its deviations as plain text, the shape
// used for clipboard copies.
func nodeSummary(n *Node) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (page %d, %d points)\n", n.Name, n.Page+1, len(n.Points))
	for i, d := range n.Deviations {
		fmt.Fprintf(&sb, "%d. %s", i+1, d.Deviation)
		if d.Consequence != "" {
			fmt.Fprintf(&sb, " -> %s", d.Consequence)
		}
		sb.WriteString("\n")
		for _, c := range d.Causes {
			fmt.Fprintf(&sb, "   cause: %s\n", c)
		}
		for _, sg := range d.Safeguards {
			fmt.Fprintf(&sb, "   safeguard: %s\n", sg)
		}
		for _, rec := range d.Recommendations {
			fmt.Fprintf(&sb, "   recommendation: %s\n", rec)
		}
	}
	return sb.String()
}

func copyNodeSummary(n *Node) error {
	return clipboard.WriteAll(nodeSummary(n))
}
