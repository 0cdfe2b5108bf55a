package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	SaveDirectory     string
	PagesDirectory    string
	PreviewPath       string
	ViewportWidth     int
	ViewportHeight    int
	BaseMagnification float64
	NodeStyle         NodeStyle
}

func loadConfig() *Config {
	config := &Config{
		PreviewPath:       "hazmark-preview.png",
		ViewportWidth:     defaultViewportWidth,
		ViewportHeight:    defaultViewportHeight,
		BaseMagnification: defaultBaseMagnification,
		NodeStyle:         defaultNodeStyle(),
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}

	configPath := filepath.Join(homeDir, ".hazmarkrc")
	file, err := os.Open(configPath)
	if err != nil {
		return config
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, homeDir)
		case "pagesdirectory", "pages_directory", "pagesdir":
			config.PagesDirectory = expandPath(value, homeDir)
		case "previewpath", "preview_path", "preview":
			config.PreviewPath = expandPath(value, homeDir)
		case "viewportwidth", "viewport_width":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				config.ViewportWidth = n
			}
		case "viewportheight", "viewport_height":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				config.ViewportHeight = n
			}
		case "basemagnification", "base_magnification":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
				config.BaseMagnification = f
			}
		case "nodecolor", "node_color":
			if _, _, _, err := parseHexColor(value); err == nil {
				config.NodeStyle.Color = value
			}
		case "nodethickness", "node_thickness":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
				config.NodeStyle.Thickness = f
			}
		case "nodetransparency", "node_transparency":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 && f <= 1 {
				config.NodeStyle.Transparency = f
			}
		case "nodefontsize", "node_font_size":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
				config.NodeStyle.FontSize = f
			}
		case "nodearrow", "node_arrow":
			config.NodeStyle.HasArrow = strings.ToLower(value) == "true"
		}
	}

	return config
}

func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
