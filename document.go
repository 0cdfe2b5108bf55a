package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	xdraw "golang.org/x/image/draw"
)

// PageSize is a page's document-space dimensions.
type PageSize struct {
	Width  float64
	Height float64
}

// Rasterizer produces page rasters for the viewer. RenderPage returns an
// image whose pixel size is the page size times the magnification. The
// engine never decodes the document format itself.
type Rasterizer interface {
	PageCount() int
	PageSize(page int) PageSize
	RenderPage(page int, magnification float64) (image.Image, error)
}

// Letter-size fallback when a document reports no dimensions.
var letterSize = PageSize{Width: 612, Height: 792}

func listPageImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading page directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func scaleImage(src image.Image, width, height int) image.Image {
	b := src.Bounds()
	if width <= 0 || height <= 0 || (width == b.Dx() && height == b.Dy()) {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// ImageDirDocument serves a directory of pre-rendered page images, sorted by
// filename. Document units are the native pixel size of each image.
type ImageDirDocument struct {
	pages []string
	sizes []PageSize
}

func NewImageDirDocument(dir string) (*ImageDirDocument, error) {
	pages, err := listPageImages(dir)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page images in %s", dir)
	}
	return &ImageDirDocument{
		pages: pages,
		sizes: make([]PageSize, len(pages)),
	}, nil
}

func (d *ImageDirDocument) PageCount() int {
	return len(d.pages)
}

func (d *ImageDirDocument) PageSize(page int) PageSize {
	if page < 0 || page >= len(d.pages) {
		return letterSize
	}
	if d.sizes[page].Width == 0 {
		f, err := os.Open(d.pages[page])
		if err != nil {
			return letterSize
		}
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			return letterSize
		}
		d.sizes[page] = PageSize{Width: float64(cfg.Width), Height: float64(cfg.Height)}
	}
	return d.sizes[page]
}

func (d *ImageDirDocument) RenderPage(page int, magnification float64) (image.Image, error) {
	if page < 0 || page >= len(d.pages) {
		return nil, fmt.Errorf("invalid page number: %d (total pages: %d)", page+1, len(d.pages))
	}
	img, err := decodeImageFile(d.pages[page])
	if err != nil {
		return nil, err
	}
	size := d.PageSize(page)
	w := int(size.Width*magnification + 0.5)
	h := int(size.Height*magnification + 0.5)
	return scaleImage(img, w, h), nil
}

// PDFDocument reads page count and document-space dimensions from a PDF via
// pdfcpu. Pixels come from an optional sidecar directory of pre-rendered
// page images; without one, pages render blank and only the overlay carries
// content.
type PDFDocument struct {
	path    string
	count   int
	sizes   []PageSize
	sidecar []string
}

func NewPDFDocument(path, pagesDir string) (*PDFDocument, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get page dimensions: %w", err)
	}
	sizes := make([]PageSize, count)
	for i := range sizes {
		if i < len(dims) && dims[i].Width > 0 && dims[i].Height > 0 {
			sizes[i] = PageSize{Width: dims[i].Width, Height: dims[i].Height}
		} else {
			sizes[i] = letterSize
		}
	}
	d := &PDFDocument{path: path, count: count, sizes: sizes}
	if pagesDir != "" {
		sidecar, err := listPageImages(pagesDir)
		if err != nil {
			return nil, err
		}
		d.sidecar = sidecar
	}
	return d, nil
}

func (d *PDFDocument) PageCount() int {
	return d.count
}

func (d *PDFDocument) PageSize(page int) PageSize {
	if page < 0 || page >= len(d.sizes) {
		return letterSize
	}
	return d.sizes[page]
}

func (d *PDFDocument) RenderPage(page int, magnification float64) (image.Image, error) {
	if page < 0 || page >= d.count {
		return nil, fmt.Errorf("invalid page number: %d (total pages: %d)", page+1, d.count)
	}
	size := d.PageSize(page)
	w := int(size.Width*magnification + 0.5)
	h := int(size.Height*magnification + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if page < len(d.sidecar) {
		img, err := decodeImageFile(d.sidecar[page])
		if err != nil {
			return nil, err
		}
		return scaleImage(img, w, h), nil
	}
	blank := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}
	return blank, nil
}
