package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/bgmtty/internal/bangumi"
	"github.com/five82/bgmtty/internal/logging"
	"github.com/five82/bgmtty/internal/prefs"
	"github.com/five82/bgmtty/internal/widget"
)

const tickInterval = time.Second

type (
	dataReadyMsg  struct{}
	tickMsg       time.Time
	editorDoneMsg struct {
		req  EditRequest
		path string
		err  error
	}
)

// execCommand builds the editor process.
var execCommand = exec.Command

// Model is the bubbletea model of bgmTTY. Every message is reduced into the
// UI state and the screen is painted once per message; View returns the
// last painted frame.
type Model struct {
	ui        *UIState
	deps      Deps
	prefs     prefs.Prefs
	prefsPath string
	theme     Theme
	styles    Styles
	spinner   spinner.Model
	spinning  bool
	buf       *widget.Buffer
	frame     string
	log       *slog.Logger
}

// NewModel builds the model from opts.
func NewModel(opts Options) *Model {
	theme := GetTheme(opts.Prefs.Theme)
	filters := [3]bool{opts.Prefs.Filters.Anime, opts.Prefs.Filters.Book, opts.Prefs.Filters.Real}
	log := opts.Logger
	if log == nil {
		log = logging.Component("ui")
	}
	return &Model{
		ui:        NewUIState(filters, theme.Name),
		deps:      Deps{Data: opts.Data, Recents: opts.Recents},
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		theme:     theme,
		styles:    theme.Styles(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		buf:       widget.NewBuffer(widget.Rect{}),
		log:       log,
	}
}

// Init starts the data subscription and the periodic tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForData(m.deps.Data.Notifications()), tick())
}

// Update reduces msg and repaints.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.buf.Resize(widget.Rect{W: msg.Width, H: msg.Height})
	case dataReadyMsg:
		cmds = append(cmds, waitForData(m.deps.Data.Notifications()))
	case tickMsg:
		cmds = append(cmds, tick())
	case spinner.TickMsg:
		if m.deps.Data.InFlight() == 0 {
			m.spinning = false
			break
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	case editorDoneMsg:
		m.finishEdit(msg)
		cmds = append(cmds, tea.ClearScreen)
	case tea.KeyMsg, tea.MouseMsg:
		m.ui.Reduce(msg, m.deps)
	}

	m.applyTheme()
	m.paint()

	switch p := m.ui.Pending(); p.Kind {
	case PendingQuit:
		m.log.Info("quit requested")
		return m, tea.Quit
	case PendingReset:
		m.ui.ClearPending()
		if p.Edit != nil {
			cmds = append(cmds, m.openEditor(*p.Edit))
		}
	}

	if !m.spinning && m.deps.Data.InFlight() > 0 {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// View returns the last painted frame.
func (m *Model) View() string {
	return m.frame
}

// paint renders the UI state. A pointer event resolved during the pass
// changes the state, so the screen is painted a second time.
func (m *Model) paint() {
	if m.buf.Area().Empty() {
		m.frame = ""
		return
	}
	spin := ""
	if m.deps.Data.InFlight() > 0 {
		spin = m.spinner.View()
	}
	m.buf.Clear()
	if m.ui.Paint(m.buf, m.deps, m.styles, spin) {
		m.buf.Clear()
		m.ui.Paint(m.buf, m.deps, m.styles, spin)
	}
	m.frame = m.buf.Render()
}

func (m *Model) applyTheme() {
	name := m.ui.Theme()
	if name == m.theme.Name {
		return
	}
	m.theme = GetTheme(name)
	m.styles = m.theme.Styles()
	m.prefs.Theme = m.theme.Name
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// openEditor writes the comment of req to a temp file and hands the terminal
// to the editor.
func (m *Model) openEditor(req EditRequest) tea.Cmd {
	args := strings.Fields(m.prefs.EditorCommand())
	if len(args) == 0 {
		m.deps.Data.PublishMessage("没有可用的编辑器")
		return nil
	}

	f, err := os.CreateTemp("", "bgmtty-comment-*.txt")
	if err != nil {
		m.deps.Data.PublishMessage(fmt.Sprintf("无法创建临时文件: %v", err))
		return nil
	}
	path := f.Name()
	var comment string
	if req.Detail != nil {
		comment = req.Detail.Comment
	}
	_, werr := f.WriteString(comment)
	if err := errors.Join(werr, f.Close()); err != nil {
		_ = os.Remove(path)
		m.deps.Data.PublishMessage(fmt.Sprintf("无法写入临时文件: %v", err))
		return nil
	}

	m.log.Info("launching editor", "editor", args[0], "subject", req.SubjectID)
	cmd := execCommand(args[0], append(args[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorDoneMsg{req: req, path: path, err: err}
	})
}

// finishEdit reads the edited comment back and submits it when it changed.
func (m *Model) finishEdit(msg editorDoneMsg) {
	defer func() { _ = os.Remove(msg.path) }()
	if msg.err != nil {
		m.log.Warn("editor failed", "error", msg.err)
		m.deps.Data.PublishMessage(fmt.Sprintf("编辑器出错了: %v", msg.err))
		return
	}
	data, err := os.ReadFile(msg.path)
	if err != nil {
		m.deps.Data.PublishMessage(fmt.Sprintf("无法读取临时文件: %v", err))
		return
	}

	comment := strings.TrimRight(string(data), "\r\n")
	detail := msg.req.Detail.Clone()
	if detail == nil {
		detail = &bangumi.CollectionDetail{}
	}
	if comment == detail.Comment {
		m.deps.Data.PublishMessage("评论没有变化")
		return
	}
	detail.Comment = comment
	m.deps.Data.UpdateCollectionDetail(msg.req.SubjectID, statusOf(msg.req.Detail), detail)
}

func waitForData(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return dataReadyMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
