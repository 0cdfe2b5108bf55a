package main

import (
	"fmt"

	"github.com/fogleman/gg"
)

// exportCompositePNG writes the current page composite (page raster plus
// annotation overlay) as it is displayed.
func (m *model) exportCompositePNG(filename string) error {
	if m.viewer == nil || m.viewer.Document() == nil {
		return fmt.Errorf("no document open")
	}
	if err := m.viewer.RenderPage(); err != nil {
		return err
	}
	img := m.viewer.Display()
	if img == nil {
		return fmt.Errorf("nothing to export")
	}
	return gg.SavePNG(filename, img)
}

// writePreview keeps the live preview image current. Errors are swallowed:
// a missing preview must never break editing.
func (m *model) writePreview() {
	if m.viewer == nil || m.viewer.Display() == nil || m.config.PreviewPath == "" {
		return
	}
	gg.SavePNG(m.config.PreviewPath, m.viewer.Display())
}
