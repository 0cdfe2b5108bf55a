package main

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeTextInput
	ModeFileInput
	ModeConfirm
)

type SessionState int

const (
	StateIdle SessionState = iota
	StateCreating
	StateSelected
	StatePointEditing
	StateDragging
)

type FileOperation int

const (
	FileOpOpenDocument FileOperation = iota
	FileOpOpenAnalysis
	FileOpSaveAnalysis
	FileOpExportPNG
)

type TextTarget int

const (
	TextTargetNodeName TextTarget = iota
	TextTargetDeviation
)

type ConfirmAction int

const (
	ConfirmDeleteNode ConfirmAction = iota
	ConfirmQuit
)

const (
	minZoom = 0.1
	maxZoom = 5.0

	// Screen-pixel tolerances, converted to document units at the
	// current scale before use.
	selectTolerancePx = 25.0
	grabTolerancePx   = 15.0
	insertTolerancePx = 25.0

	wheelZoomFactor = 1.1
	keyZoomFactor   = 1.2
	panStepPx       = 50.0

	// Stroke patterns (raster pixels).
	dashLength    = 10.0
	dashGapLength = 5.0
	dotLength     = 3.0
	dotDashLength = 8.0
	dotGapLength  = 4.0

	indicatorBaseRadius = 8.0
	indicatorSpacing    = 2.5 // times radius

	// Full page re-render every Nth drag event; overlay-only in between.
	dragRenderInterval = 3

	defaultNodeColor    = "#FF0000"
	defaultThickness    = 2.0
	defaultTransparency = 0.7
	defaultFontSize     = 12.0

	defaultBaseMagnification = 1.5
	defaultViewportWidth     = 1200
	defaultViewportHeight    = 900
)
