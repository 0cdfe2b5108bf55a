package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	p := tea.NewProgram(
		initialModel(),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

var (
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	editingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// sessionStatus collects observer notifications. It is held by pointer so
// the callbacks survive bubbletea's model copying.
type sessionStatus struct {
	selectedName string
	hasSelection bool
	creating     bool
}

type statusObserver struct {
	st *sessionStatus
}

func (o statusObserver) NodeSelected(n *Node) {
	o.st.selectedName = n.Name
	o.st.hasSelection = true
}

func (o statusObserver) NodeDeselected() {
	o.st.selectedName = ""
	o.st.hasSelection = false
}

func (o statusObserver) LineCreationStarted() { o.st.creating = true }
func (o statusObserver) LineCreationEnded()   { o.st.creating = false }

type model struct {
	width  int
	height int

	config *Config
	viewer *Viewer
	status *sessionStatus

	mode          Mode
	fileOp        FileOperation
	textTarget    TextTarget
	confirmAction ConfirmAction

	textInput string

	fileList          []string
	selectedFileIndex int
	filename          string

	savePath string

	errorMessage   string
	successMessage string

	lastClickX  int
	lastClickY  int
	lastClickAt time.Time

	panning  bool
	panFromX int
	panFromY int
}

func initialModel() model {
	config := loadConfig()
	store := NewStore()
	viewer, err := NewViewer(store, config.BaseMagnification)
	if err != nil {
		log.Fatal(err)
	}
	viewer.Session().SetDefaults(config.NodeStyle)
	viewer.Resize(float64(config.ViewportWidth), float64(config.ViewportHeight))

	st := &sessionStatus{}
	viewer.Session().AddObserver(statusObserver{st: st})

	return model{
		config:            config,
		viewer:            viewer,
		status:            st,
		mode:              ModeStartup,
		selectedFileIndex: -1,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// cellToScreen maps a terminal cell to viewport pixel coordinates. The last
// row is the status bar; everything above it is the canvas area.
func (m *model) cellToScreen(x, y int) Point {
	cw := m.width
	ch := m.height - 1
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	return Point{
		X: (float64(x) + 0.5) * float64(m.config.ViewportWidth) / float64(cw),
		Y: (float64(y) + 0.5) * float64(m.config.ViewportHeight) / float64(ch),
	}
}

func (m *model) refresh() {
	if err := m.viewer.QuickRedraw(); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.writePreview()
}

func (m *model) refreshFull() {
	if err := m.viewer.RenderPage(); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.writePreview()
}

func (m *model) scanFiles(extensions ...string) {
	m.fileList = nil
	m.selectedFileIndex = -1

	dir, err := os.Getwd()
	if err != nil {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			if m.fileOp == FileOpOpenDocument {
				m.fileList = append(m.fileList, entry.Name()+string(os.PathSeparator))
			}
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range extensions {
			if ext == want {
				m.fileList = append(m.fileList, entry.Name())
				break
			}
		}
	}
	sort.Strings(m.fileList)
	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
	}
}

func (m *model) openDocument(path string) {
	var doc Rasterizer
	var err error
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		doc, err = NewImageDirDocument(strings.TrimSuffix(path, string(os.PathSeparator)))
	} else {
		doc, err = NewPDFDocument(path, m.config.PagesDirectory)
	}
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	if err := m.viewer.OpenDocument(doc, path); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.mode = ModeNormal
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf("Opened %s (%d pages)", path, doc.PageCount())
	m.writePreview()
}

func (m *model) openAnalysis(path string) {
	store, err := LoadStore(path)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.viewer.SetStore(store)
	m.viewer.Session().SetDefaults(m.config.NodeStyle)
	m.viewer.Session().AddObserver(statusObserver{st: m.status})
	m.status.hasSelection = false
	m.status.selectedName = ""
	m.savePath = path
	if store.DocumentPath != "" {
		m.openDocument(store.DocumentPath)
	}
	m.refreshFull()
	m.successMessage = fmt.Sprintf("Loaded %s (%d nodes)", path, store.Len())
	m.errorMessage = ""
	m.mode = ModeNormal
}

func (m *model) saveAnalysis(path string) {
	if err := m.viewer.Store().SaveJSON(path); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.savePath = path
	m.successMessage = fmt.Sprintf("Saved %s", path)
	m.errorMessage = ""
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeStartup:
			return m.updateStartup(msg)
		case ModeNormal:
			return m.updateNormal(msg)
		case ModeTextInput:
			return m.updateTextInput(msg)
		case ModeFileInput:
			return m.updateFileInput(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		}

	case tea.MouseMsg:
		if m.mode == ModeNormal {
			return m.updateMouse(msg)
		}
	}
	return m, nil
}

func (m model) updateStartup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "o":
		m.mode = ModeFileInput
		m.fileOp = FileOpOpenDocument
		m.filename = ""
		m.scanFiles(".pdf")
		return m, nil
	case "a":
		m.mode = ModeFileInput
		m.fileOp = FileOpOpenAnalysis
		m.filename = ""
		m.scanFiles(".json")
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	session := m.viewer.Session()

	if msg.Type == tea.KeyEscape {
		session.Escape()
		m.refresh()
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.mode = ModeConfirm
		m.confirmAction = ConfirmQuit
		return m, nil

	case "ctrl+l":
		session.StartCreate()
		m.successMessage = ""
		m.errorMessage = ""
		m.refresh()
		return m, nil

	case "enter":
		if session.State() == StateCreating {
			session.FinishCreate()
			m.refresh()
		}
		return m, nil

	case "pgup":
		if err := m.viewer.PrevPage(); err != nil {
			m.errorMessage = err.Error()
		}
		m.writePreview()
		return m, nil

	case "pgdown":
		if err := m.viewer.NextPage(); err != nil {
			m.errorMessage = err.Error()
		}
		m.writePreview()
		return m, nil

	case "+", "=":
		m.viewer.ZoomCenter(keyZoomFactor)
		m.writePreview()
		return m, nil

	case "-":
		m.viewer.ZoomCenter(1 / keyZoomFactor)
		m.writePreview()
		return m, nil

	case "0":
		m.viewer.ResetZoom()
		m.writePreview()
		return m, nil

	case "h", "left":
		m.viewer.PanBy(panStepPx, 0)
		m.writePreview()
		return m, nil
	case "l", "right":
		m.viewer.PanBy(-panStepPx, 0)
		m.writePreview()
		return m, nil
	case "k", "up":
		m.viewer.PanBy(0, panStepPx)
		m.writePreview()
		return m, nil
	case "j", "down":
		m.viewer.PanBy(0, -panStepPx)
		m.writePreview()
		return m, nil

	case "d":
		if session.Selected() != nil {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteNode
		}
		return m, nil

	case "n":
		if n := session.Selected(); n != nil {
			m.mode = ModeTextInput
			m.textTarget = TextTargetNodeName
			m.textInput = n.Name
		}
		return m, nil

	case "v":
		if session.Selected() != nil {
			m.mode = ModeTextInput
			m.textTarget = TextTargetDeviation
			m.textInput = ""
		}
		return m, nil

	case "y":
		if n := session.Selected(); n != nil {
			if err := copyNodeSummary(n); err != nil {
				m.errorMessage = err.Error()
			} else {
				m.successMessage = fmt.Sprintf("Copied summary of %s", n.Name)
			}
		}
		return m, nil

	case "s":
		if m.savePath != "" {
			m.saveAnalysis(m.savePath)
			return m, nil
		}
		m.mode = ModeFileInput
		m.fileOp = FileOpSaveAnalysis
		m.filename = ""
		m.scanFiles(".json")
		return m, nil

	case "S":
		name := fmt.Sprintf("hazmark-page-%d.png", m.viewer.View().Page()+1)
		path := m.config.GetSavePath(name)
		if err := m.exportCompositePNG(path); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = fmt.Sprintf("Exported %s", path)
		}
		return m, nil

	case "o":
		m.mode = ModeFileInput
		m.fileOp = FileOpOpenDocument
		m.filename = ""
		m.scanFiles(".pdf")
		return m, nil

	case "a":
		m.mode = ModeFileInput
		m.fileOp = FileOpOpenAnalysis
		m.filename = ""
		m.scanFiles(".json")
		return m, nil
	}
	return m, nil
}

func (m model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.viewer.Document() == nil {
		return m, nil
	}
	session := m.viewer.Session()
	pt := m.cellToScreen(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewer.ZoomAt(pt, wheelZoomFactor)
			m.writePreview()

		case tea.MouseButtonWheelDown:
			m.viewer.ZoomAt(pt, 1/wheelZoomFactor)
			m.writePreview()

		case tea.MouseButtonLeft:
			isDouble := time.Since(m.lastClickAt) < 400*time.Millisecond &&
				msg.X == m.lastClickX && msg.Y == m.lastClickY
			m.lastClickAt = time.Now()
			m.lastClickX, m.lastClickY = msg.X, msg.Y
			if isDouble {
				session.DoubleClick(pt)
			} else {
				session.Click(pt)
			}
			m.refresh()

		case tea.MouseButtonRight:
			session.RightClick(pt)
			m.refresh()

		case tea.MouseButtonMiddle:
			m.panning = true
			m.panFromX, m.panFromY = msg.X, msg.Y
		}

	case tea.MouseActionMotion:
		if m.panning {
			from := m.cellToScreen(m.panFromX, m.panFromY)
			m.viewer.PanBy(pt.X-from.X, pt.Y-from.Y)
			m.panFromX, m.panFromY = msg.X, msg.Y
			m.writePreview()
		} else if session.State() == StateDragging {
			if err := m.viewer.DragFrame(pt); err != nil {
				m.errorMessage = err.Error()
			}
			m.writePreview()
		}

	case tea.MouseActionRelease:
		m.panning = false
		if session.State() == StateDragging {
			if err := m.viewer.EndDrag(); err != nil {
				m.errorMessage = err.Error()
			}
			m.writePreview()
		}
	}
	return m, nil
}

func (m model) updateTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	session := m.viewer.Session()
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.textInput = ""
		return m, nil

	case tea.KeyEnter:
		n := session.Selected()
		if n != nil {
			switch m.textTarget {
			case TextTargetNodeName:
				n.Name = m.textInput
				m.successMessage = "Renamed node"
			case TextTargetDeviation:
				if strings.TrimSpace(m.textInput) != "" {
					n.Deviations = append(n.Deviations, Deviation{Deviation: m.textInput})
					m.successMessage = fmt.Sprintf("%s now has %d deviations", n.Name, len(n.Deviations))
				}
			}
			m.refreshFull()
		}
		m.mode = ModeNormal
		m.textInput = ""
		return m, nil

	case tea.KeyBackspace:
		if len(m.textInput) > 0 {
			runes := []rune(m.textInput)
			m.textInput = string(runes[:len(runes)-1])
		}
		return m, nil

	case tea.KeySpace:
		m.textInput += " "
		return m, nil

	case tea.KeyRunes:
		m.textInput += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func (m model) updateFileInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		if m.viewer.Document() == nil {
			m.mode = ModeStartup
		} else {
			m.mode = ModeNormal
		}
		return m, nil

	case tea.KeyUp:
		if m.selectedFileIndex > 0 {
			m.selectedFileIndex--
		}
		return m, nil

	case tea.KeyDown:
		if m.selectedFileIndex < len(m.fileList)-1 {
			m.selectedFileIndex++
		}
		return m, nil

	case tea.KeyBackspace:
		if len(m.filename) > 0 {
			runes := []rune(m.filename)
			m.filename = string(runes[:len(runes)-1])
		}
		return m, nil

	case tea.KeyRunes:
		m.filename += string(msg.Runes)
		return m, nil

	case tea.KeyEnter:
		name := m.filename
		if name == "" && m.selectedFileIndex >= 0 && m.selectedFileIndex < len(m.fileList) {
			name = m.fileList[m.selectedFileIndex]
		}
		if name == "" {
			return m, nil
		}
		switch m.fileOp {
		case FileOpOpenDocument:
			m.openDocument(name)
		case FileOpOpenAnalysis:
			m.openAnalysis(name)
		case FileOpSaveAnalysis:
			if !strings.HasSuffix(strings.ToLower(name), ".json") {
				name += ".json"
			}
			m.saveAnalysis(m.config.GetSavePath(name))
			m.mode = ModeNormal
		}
		return m, nil
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmDeleteNode:
			if m.viewer.Session().DeleteSelected() {
				m.successMessage = "Node deleted"
				m.refreshFull()
			}
			m.mode = ModeNormal
		}
		return m, nil
	case "n", "N", "esc", "escape":
		m.mode = ModeNormal
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	if m.mode == ModeStartup {
		return m.startupView()
	}

	var result strings.Builder
	contentHeight := m.height - 1
	if contentHeight < 1 {
		contentHeight = 1
	}

	if m.mode == ModeFileInput {
		result.WriteString(m.fileListView(contentHeight))
	} else {
		result.WriteString(m.pageView(contentHeight))
	}
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) startupView() string {
	lines := []string{
		"",
		"  hazmark - document annotation for hazard review",
		"",
		"  'o'  Open a PDF document",
		"  'a'  Open a saved analysis",
		"  'q'  Quit",
		"",
	}
	if m.errorMessage != "" {
		lines = append(lines, "  "+errorStyle.Render(m.errorMessage))
	}
	return strings.Join(lines, "\n")
}

// pageView lists the current page's nodes; the raster itself lives in the
// preview image, which the terminal cannot display.
func (m model) pageView(height int) string {
	var sb strings.Builder
	view := m.viewer.View()
	store := m.viewer.Store()
	session := m.viewer.Session()

	zoomPct := int(view.Zoom()*100 + 0.5)
	fitLabel := ""
	if view.FitActive() {
		fitLabel = " (fit)"
	}
	fmt.Fprintf(&sb, "%s | page %d/%d | zoom %d%%%s | preview: %s\n",
		store.DocumentPath, view.Page()+1, m.viewer.PageCount(), zoomPct, fitLabel, m.config.PreviewPath)
	sb.WriteString(strings.Repeat("─", max(m.width, 1)))
	sb.WriteString("\n")

	nodes := store.NodesForPage(view.Page())
	if len(nodes) == 0 {
		sb.WriteString(dimStyle.Render("(no nodes on this page - Ctrl+L starts a line)"))
		sb.WriteString("\n")
	}
	used := 2
	for _, n := range nodes {
		if used >= height-1 {
			sb.WriteString(dimStyle.Render("..."))
			sb.WriteString("\n")
			break
		}
		line := fmt.Sprintf("  %s  %d points, %d deviations, %s", n.Name, len(n.Points), len(n.Deviations), n.Color)
		switch {
		case session.Editing() != nil && session.Editing().ID == n.ID:
			line = editingStyle.Render("* " + strings.TrimPrefix(line, "  ") + "  [editing]")
		case session.Selected() != nil && session.Selected().ID == n.ID:
			line = selectedStyle.Render("> " + strings.TrimPrefix(line, "  "))
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		used++
	}

	if m.successMessage != "" {
		sb.WriteString(successStyle.Render(m.successMessage))
		sb.WriteString("\n")
		used++
	}
	if m.errorMessage != "" {
		sb.WriteString(errorStyle.Render("ERROR: " + m.errorMessage))
		sb.WriteString("\n")
		used++
	}
	for used < height {
		sb.WriteString("\n")
		used++
	}
	return sb.String()
}

func (m model) fileListView(height int) string {
	var sb strings.Builder
	switch m.fileOp {
	case FileOpOpenDocument:
		sb.WriteString("Open document (PDF or page-image directory):\n")
	case FileOpOpenAnalysis:
		sb.WriteString("Open analysis:\n")
	case FileOpSaveAnalysis:
		sb.WriteString("Save analysis as:\n")
	}
	sb.WriteString(strings.Repeat("─", max(m.width, 1)))
	sb.WriteString("\n")

	used := 2
	if len(m.fileList) == 0 {
		sb.WriteString(dimStyle.Render("(nothing matching in current directory)"))
		sb.WriteString("\n")
		used++
	}
	for i, f := range m.fileList {
		if used >= height {
			break
		}
		if i == m.selectedFileIndex {
			sb.WriteString(selectedStyle.Render("> " + f))
		} else {
			sb.WriteString("  " + f)
		}
		sb.WriteString("\n")
		used++
	}
	for used < height {
		sb.WriteString("\n")
		used++
	}
	return sb.String()
}

func (m model) statusLine() string {
	var status string
	switch m.mode {
	case ModeTextInput:
		prompt := "Name"
		if m.textTarget == TextTargetDeviation {
			prompt = "Deviation"
		}
		status = fmt.Sprintf("Mode: INPUT | %s: %s█ | Enter=confirm, Esc=cancel", prompt, m.textInput)

	case ModeFileInput:
		status = fmt.Sprintf("Mode: FILE | filename: %s█ | ↑/↓=navigate, Type=enter name, Enter=confirm, Esc=cancel", m.filename)

	case ModeConfirm:
		message := "Quit without saving? (y/n)"
		if m.confirmAction == ConfirmDeleteNode {
			if n := m.viewer.Session().Selected(); n != nil {
				message = fmt.Sprintf("Delete node '%s'? (y/n)", n.Name)
			}
		}
		status = fmt.Sprintf("Mode: CONFIRM | %s", message)

	default:
		stateLabel := "NORMAL"
		hint := "Ctrl+L=line, click=select, dbl-click=edit points, PgUp/PgDn=pages, q=quit"
		switch m.viewer.Session().State() {
		case StateCreating:
			stateLabel = "CREATE"
			hint = "click=add point, right-click/Enter=finish, Esc=abort"
		case StatePointEditing:
			stateLabel = "EDIT"
			hint = "drag=move vertex, right-click vertex=remove, right-click segment=insert, Esc=done"
		case StateDragging:
			stateLabel = "DRAG"
			hint = "release to drop vertex"
		}
		status = fmt.Sprintf("Mode: %s", stateLabel)
		if m.status.hasSelection {
			status += fmt.Sprintf(" | Selected: %s", m.status.selectedName)
		}
		status += " | " + hint
	}

	if m.width > 0 {
		status = padOrTrim(status, m.width)
	}
	return statusStyle.Render(status)
}

func padOrTrim(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
