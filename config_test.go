package main

import (
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home := "/home/alex"
	if got := expandPath("~/analyses", home); got != filepath.Join(home, "analyses") {
		t.Errorf("expandPath(~/analyses) = %q", got)
	}
	if got := expandPath("/var/data", home); got != "/var/data" {
		t.Errorf("absolute path changed: %q", got)
	}
}

func TestGetSavePath(t *testing.T) {
	c := &Config{}
	if got := c.GetSavePath("a.json"); got != "a.json" {
		t.Errorf("no save dir: %q", got)
	}

	dir := t.TempDir()
	c.SaveDirectory = filepath.Join(dir, "saves")
	got := c.GetSavePath("a.json")
	if got != filepath.Join(dir, "saves", "a.json") {
		t.Errorf("GetSavePath = %q", got)
	}
}
