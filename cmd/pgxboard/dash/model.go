// Package dash provides the interactive dashboard for pgxboard. The
// functionality is split across three files:
//   - model.go: state container, Init, Update loop (this file)
//   - commands.go: async tea.Cmds (file reads, analysis calls, timers)
//   - view.go: rendering functions
package dash

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"pgxboard/cmd/pgxboard/config"
	"pgxboard/cmd/pgxboard/ui"
	"pgxboard/internal/analyze"
	"pgxboard/internal/gaps"
	"pgxboard/internal/report"
)

// loadingInterval is the cadence of the three-phase loading caption.
const loadingInterval = 1200 * time.Millisecond

// loadingSteps are the rotating captions shown while a request is in flight.
var loadingSteps = []string{
	"Uploading variant file...",
	"Scoring pharmacogenomic risk...",
	"Drafting clinical explanation...",
}

// Model is the state container for the dashboard. All display data is
// derived from this state in view.go; nothing renderable is stored twice.
type Model struct {
	// UI components
	styles     ui.Styles
	renderer   *glamour.TermRenderer
	filepicker filepicker.Model
	drugInput  textinput.Model
	spinner    spinner.Model
	viewport   viewport.Model

	picking bool // file picker overlay active

	// Selected file
	filePath string
	fileSize int64
	upload   *analyze.Upload // nil until a file passes validation
	fileErr  string
	watcher  *fsnotify.Watcher

	// Form state
	batchMode bool

	// Request state. loadingSeq invalidates stale caption timers: every
	// start/stop bumps it and ticks carrying an old seq are dropped.
	isLoading   bool
	loadingStep int
	loadingSeq  int

	// Result state: at most one shape inside result is populated.
	result  report.Report
	caveats []string
	showRaw bool

	errMsg string
	notice string

	width  int
	height int
	ready  bool

	client *analyze.Client
	log    *zap.Logger

	shutdownOnce *sync.Once
}

// New assembles the dashboard model.
func New(cfg config.Config, client *analyze.Client, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))

	ti := textinput.New()
	ti.Placeholder = "e.g. CODEINE or CODEINE, WARFARIN"
	ti.CharLimit = 200
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	fp := filepicker.New()
	fp.AllowedTypes = []string{".vcf"}

	return Model{
		styles:       styles,
		filepicker:   fp,
		drugInput:    ti,
		spinner:      sp,
		client:       client,
		log:          logger,
		shutdownOnce: &sync.Once{},
	}
}

// Messages for tea updates
type (
	fileValidatedMsg struct {
		path string
		up   analyze.Upload
		size int64
	}
	fileRejectedMsg struct {
		path string
		size int64
		err  error
	}
	fileChangedMsg struct{ path string }

	analysisDoneMsg   struct{ rep report.Report }
	analysisFailedMsg struct{ err error }

	loadingTickMsg struct{ seq int }

	clipboardMsg   struct{ err error }
	reportSavedMsg struct {
		path string
		err  error
	}
)

// Shutdown releases the file watcher. Safe to call multiple times.
func (m *Model) Shutdown() {
	m.shutdownOnce.Do(func() {
		if m.watcher != nil {
			_ = m.watcher.Close()
		}
		_ = m.log.Sync()
	})
}

// performShutdown is a value-receiver wrapper so Update can call Shutdown.
func (m Model) performShutdown() {
	modelPtr := &m
	modelPtr.Shutdown()
}

// Init starts the cursor blink and the file picker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.filepicker.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.performShutdown()
			return m, tea.Quit
		case tea.KeyEsc:
			if m.picking {
				m.picking = false
				return m, nil
			}
			m.performShutdown()
			return m, tea.Quit
		}

		// File picker overlay
		if m.picking {
			var cmd tea.Cmd
			m.filepicker, cmd = m.filepicker.Update(msg)
			if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
				m.picking = false
				return m, readAndValidate(path)
			}
			if didSelect, path := m.filepicker.DidSelectDisabledFile(msg); didSelect {
				m.fileErr = analyze.Normalize("invalid file type: " + path)
				return m, cmd
			}
			return m, cmd
		}

		if msg.Alt && len(msg.Runes) > 0 {
			switch msg.Runes[0] {
			case 'o':
				// Open the file picker (alt+o)
				m.picking = true
				return m, m.filepicker.Init()
			case 'm':
				// Toggle single/batch input mode (alt+m)
				if !m.isLoading {
					m.batchMode = !m.batchMode
				}
				return m, nil
			case 'j':
				// Toggle the raw JSON panel (alt+j)
				m.showRaw = !m.showRaw
				m.refreshViewport()
				return m, nil
			case 'c':
				// Copy report JSON to clipboard (alt+c)
				if !m.result.Empty() {
					return m, copyReport(m.result)
				}
				return m, nil
			case 's':
				// Save report JSON to disk (alt+s)
				if !m.result.Empty() {
					return m, saveReport(m.result)
				}
				return m, nil
			}
		}

		if msg.Type == tea.KeyEnter {
			return m.handleSubmit()
		}

		if !m.isLoading {
			m.drugInput, tiCmd = m.drugInput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		formHeight := 7
		footerHeight := 2

		contentWidth := msg.Width - 4
		if contentWidth < 1 {
			contentWidth = 1
		}
		contentHeight := msg.Height - headerHeight - formHeight - footerHeight
		if contentHeight < 1 {
			contentHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(contentWidth, contentHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = contentHeight
		}

		m.drugInput.Width = contentWidth - 4
		m.filepicker.Height = contentHeight

		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(contentWidth-4),
		); err == nil {
			m.renderer = r
		}
		m.refreshViewport()

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case loadingTickMsg:
		// Stale timers carry an old seq and die here.
		if m.isLoading && msg.seq == m.loadingSeq {
			m.loadingStep = (m.loadingStep + 1) % len(loadingSteps)
			return m, loadingTick(msg.seq)
		}

	case fileValidatedMsg:
		m.filePath = msg.path
		m.fileSize = msg.size
		m.upload = &msg.up
		m.fileErr = ""
		m.log.Info("file accepted",
			zap.String("file", msg.up.Name),
			zap.Int64("size", msg.size))
		if err := m.watchSelectedFile(msg.path); err == nil {
			return m, waitForChange(m.watcher, msg.path)
		}

	case fileRejectedMsg:
		m.filePath = msg.path
		m.fileSize = msg.size
		m.upload = nil
		m.fileErr = analyze.NormalizeErr(msg.err)
		m.log.Warn("file rejected", zap.String("path", msg.path), zap.Error(msg.err))

	case fileChangedMsg:
		// The selected file changed on disk: re-run the gate and keep
		// watching.
		m.log.Debug("selected file changed on disk", zap.String("path", msg.path))
		return m, tea.Batch(readAndValidate(msg.path), waitForChange(m.watcher, msg.path))

	case analysisDoneMsg:
		m.isLoading = false
		m.loadingSeq++
		m.result = msg.rep
		m.caveats = gaps.Detect(msg.rep)
		m.errMsg = ""
		m.refreshViewport()
		m.viewport.GotoTop()

	case analysisFailedMsg:
		m.isLoading = false
		m.loadingSeq++
		// A failed analysis leaves no stale result behind.
		m.result = report.Report{}
		m.caveats = nil
		m.errMsg = analyze.NormalizeErr(msg.err)
		m.refreshViewport()

	case clipboardMsg:
		if msg.err != nil {
			m.notice = analyze.NormalizeErr(msg.err)
		} else {
			m.notice = "Report JSON copied to clipboard."
		}

	case reportSavedMsg:
		if msg.err != nil {
			m.notice = analyze.NormalizeErr(msg.err)
		} else {
			m.notice = "Report saved to " + msg.path
		}
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

// handleSubmit validates the form and launches exactly one request. The
// busy flag blocks overlapping submissions.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	if m.isLoading {
		return m, nil
	}

	m.errMsg = ""
	m.notice = ""

	if m.upload == nil {
		m.errMsg = "No file selected. Choose a .vcf file first (alt+o)."
		return m, nil
	}

	drugs, err := analyze.ParseDrugs(m.drugInput.Value())
	if err != nil {
		if errors.Is(err, analyze.ErrNoDrugs) {
			m.errMsg = "No drug selected. Enter at least one drug name."
		} else {
			m.errMsg = err.Error()
		}
		return m, nil
	}

	// Starting a new analysis discards any prior result of either shape.
	m.result = report.Report{}
	m.caveats = nil
	m.refreshViewport()

	m.isLoading = true
	m.loadingStep = 0
	m.loadingSeq++

	m.log.Info("analysis submitted",
		zap.Strings("drugs", drugs),
		zap.String("route", effectiveRoute(len(drugs))))

	return m, tea.Batch(
		m.spinner.Tick,
		loadingTick(m.loadingSeq),
		m.runAnalysis(*m.upload, drugs),
	)
}

// effectiveRoute names the endpoint the drug count selects. One drug always
// routes single, even with batch input mode toggled on.
func effectiveRoute(drugCount int) string {
	if drugCount <= 1 {
		return "single"
	}
	return "batch"
}

// refreshViewport recomputes the scrollable content from current state.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderContent())
}

// Run starts the interactive dashboard.
func Run(cfg config.Config, client *analyze.Client, logger *zap.Logger) error {
	model := New(cfg, client, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
