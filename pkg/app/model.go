package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/lumen/pkg/bridge"
	"gitlab.com/tinyland/lab/lumen/pkg/components"
	"gitlab.com/tinyland/lab/lumen/pkg/engine"
	"gitlab.com/tinyland/lab/lumen/pkg/input"
	"gitlab.com/tinyland/lab/lumen/pkg/panel"
	"gitlab.com/tinyland/lab/lumen/pkg/preview"
	"gitlab.com/tinyland/lab/lumen/pkg/scene"
	"gitlab.com/tinyland/lab/lumen/pkg/terminal"
	"gitlab.com/tinyland/lab/lumen/pkg/theme"
	"gitlab.com/tinyland/lab/lumen/pkg/tracer"
)

// SliderFields are the fields exposed as sliders, top to bottom.
var SliderFields = []scene.Field{
	scene.FieldAperture,
	scene.FieldFieldOfView,
	scene.FieldSkyIntensity,
}

// DefaultRefresh is the preview refresh interval when none is configured.
const DefaultRefresh = 100 * time.Millisecond

// focusPulseTicks is how many ticks the preview border stays highlighted
// after a FocusEvent.
const focusPulseTicks = 4

// StatusSource reports the engine lifecycle. *engine.Adapter satisfies it.
type StatusSource interface {
	Status() engine.Status
	Err() error
}

// Options wires the model to the rest of the program. Only Panel is
// required.
type Options struct {
	Panel    *panel.ControlPanel
	Engine   StatusSource
	Frames   *bridge.Slot[tracer.Frame]
	Renderer *preview.Renderer
	Refresh  time.Duration
	Theme    *theme.Theme
	Logger   *slog.Logger
}

// AppModel is the root bubbletea model.
type AppModel struct {
	panel    *panel.ControlPanel
	engine   StatusSource
	frames   *bridge.Slot[tracer.Frame]
	renderer *preview.Renderer
	refresh  time.Duration
	logger   *slog.Logger

	sliders []*input.Slider
	focused int
	keys    KeyMap
	help    help.Model
	zones   *zone.Manager
	styles  styles

	width  int
	height int

	status    engine.Status
	statusErr error
	frame     *tracer.Frame
	frameView string
	lastCfg   *scene.ApplicationConfig
	pulse     int
	quitting  bool
}

// NewAppModel builds the model with one slider per SliderFields entry, the
// first one focused.
func NewAppModel(opts Options) (AppModel, error) {
	if opts.Panel == nil {
		return AppModel{}, errors.New("app: a control panel is required")
	}
	if opts.Refresh <= 0 {
		opts.Refresh = DefaultRefresh
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	th := theme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}

	m := AppModel{
		panel:    opts.Panel,
		engine:   opts.Engine,
		frames:   opts.Frames,
		renderer: opts.Renderer,
		refresh:  opts.Refresh,
		logger:   opts.Logger,
		keys:     DefaultKeyMap(),
		help:     newHelp(th),
		zones:    zone.New(),
		styles:   newStyles(th),
		lastCfg:  opts.Panel.Config(),
	}
	for _, f := range SliderFields {
		in, err := opts.Panel.NewInput(f)
		if err != nil {
			return AppModel{}, err
		}
		s := input.NewSlider(string(f), f.Label(), in)
		s.SetStyle(th.Slider())
		m.sliders = append(m.sliders, s)
	}
	m.sliders[0].Focus()
	return m, nil
}

// Init starts the refresh ticker.
func (m AppModel) Init() tea.Cmd {
	return TickCmd(m.refresh)
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.renderFrame()
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case TickEvent:
		m.sample()
		if m.pulse > 0 {
			m.pulse--
		}
		return m, TickCmd(m.refresh)

	case FocusEvent:
		m.pulse = focusPulseTicks
		return m, nil

	case EngineStatusEvent:
		m.status, m.statusErr = msg.Status, msg.Err
		return m, nil
	}

	// Anything else (cursor blink) belongs to the focused slider.
	cmd := m.sliders[m.focused].Update(msg)
	return m, cmd
}

func (m *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	s := m.sliders[m.focused]
	if s.Editing() {
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return tea.Quit
		}
		cmd := s.Update(msg)
		return tea.Batch(cmd, m.afterCommit())
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.renderFrame()
		return nil
	case key.Matches(msg, m.keys.Next):
		m.FocusNext()
		return nil
	case key.Matches(msg, m.keys.Prev):
		m.FocusPrev()
		return nil
	case key.Matches(msg, m.keys.Reset):
		m.panel.Reset()
		m.syncSliders()
		return m.afterCommit()
	}
	cmd := s.Update(msg)
	return tea.Batch(cmd, m.afterCommit())
}

func (m *AppModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	for i, s := range m.sliders {
		z := m.zones.Get(s.ID())
		if z == nil || !z.InBounds(msg) {
			continue
		}
		m.setFocus(i)
		switch msg.Button {
		case tea.MouseButtonLeft:
			x, _ := z.Pos(msg)
			m.ClickSlider(i, x)
		case tea.MouseButtonWheelUp:
			s.Input().Nudge(1)
		case tea.MouseButtonWheelDown:
			s.Input().Nudge(-1)
		}
		return m.afterCommit()
	}
	return nil
}

// ClickSlider commits the value under column col of slider i's row.
// Clicks outside the bar are ignored.
func (m *AppModel) ClickSlider(i, col int) {
	if i < 0 || i >= len(m.sliders) {
		return
	}
	w := input.BarWidth(m.width)
	c := col - input.BarOffset()
	if c < 0 || c >= w {
		return
	}
	m.sliders[i].SetRatio(components.RatioAt(c, w))
}

// afterCommit emits a FocusEvent when the panel published since the last
// check. Every publish flips the focus toggle.
func (m *AppModel) afterCommit() tea.Cmd {
	cfg := m.panel.Config()
	if cfg == m.lastCfg {
		return nil
	}
	m.lastCfg = cfg
	return FocusCmd(cfg.FocusToggle)
}

func (m *AppModel) syncSliders() {
	cfg := m.panel.Config()
	for _, s := range m.sliders {
		if v, err := cfg.Value(scene.Field(s.ID())); err == nil {
			s.Input().Set(v)
		}
	}
}

// sample reads the engine status and the newest frame without blocking.
func (m *AppModel) sample() {
	if m.engine != nil {
		m.status, m.statusErr = m.engine.Status(), m.engine.Err()
	}
	if m.frames == nil {
		return
	}
	if f := m.frames.Read(); f != m.frame {
		m.frame = f
		m.renderFrame()
	}
}

func (m *AppModel) renderFrame() {
	m.frameView = ""
	if m.renderer == nil || m.frame == nil || m.frame.Image == nil {
		return
	}
	cols, rows := m.previewSize()
	out, err := m.renderer.Render(m.frame.Image, cols, rows)
	if err != nil {
		if !errors.Is(err, preview.ErrDisabled) {
			m.logger.Debug("preview render failed", "error", err)
		}
		return
	}
	m.frameView = out
}

// previewSize is the cell area inside the preview border.
func (m *AppModel) previewSize() (int, int) {
	helpH := lipgloss.Height(m.help.View(m.keys))
	rows := m.height - 1 - len(m.sliders) - helpH - 2
	return max(m.width-2, 0), max(rows, 0)
}

// styles are the lipgloss styles derived from a theme.
type styles struct {
	title       lipgloss.Style
	info        lipgloss.Style
	pane        lipgloss.Style
	paneFocused lipgloss.Style
	status      map[engine.Status]lipgloss.Style
}

func newStyles(th theme.Theme) styles {
	color := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(th.Border))
	return styles{
		title:       color(th.Accent).Bold(true),
		info:        color(th.Dim),
		pane:        pane,
		paneFocused: pane.BorderForeground(lipgloss.Color(th.BorderFocus)),
		status: map[engine.Status]lipgloss.Style{
			engine.StatusIdle:    color(th.StatusUnknown),
			engine.StatusLoading: color(th.StatusWarn),
			engine.StatusRunning: color(th.StatusOK),
			engine.StatusStopped: color(th.StatusUnknown),
			engine.StatusFailed:  color(th.StatusError),
		},
	}
}

func newHelp(th theme.Theme) help.Model {
	h := help.New()
	key := lipgloss.NewStyle().Foreground(lipgloss.Color(th.HelpKey))
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color(th.HelpDesc))
	h.Styles.ShortKey, h.Styles.FullKey = key, key
	h.Styles.ShortDesc, h.Styles.FullDesc = desc, desc
	h.Styles.ShortSeparator, h.Styles.FullSeparator = desc, desc
	return h
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "starting…"
	}

	parts := []string{m.header()}
	if pane := m.pane(); pane != "" {
		parts = append(parts, pane)
	}
	rows := make([]string, len(m.sliders))
	for i, s := range m.sliders {
		rows[i] = m.zones.Mark(s.ID(), s.View(m.width))
	}
	parts = append(parts, strings.Join(rows, "\n"), m.help.View(m.keys))

	return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m AppModel) header() string {
	status := m.styles.status[m.status].Render("● " + m.status.String())
	h := m.styles.title.Render("lumen") + "  " + status
	if f := m.frame; f != nil && f.Image != nil {
		b := f.Image.Bounds()
		h += "  " + m.styles.info.Render(fmt.Sprintf("%dx%d  %d spp  #%d", b.Dx(), b.Dy(), f.Samples, f.Seq))
	}
	return components.Truncate(h, m.width)
}

func (m AppModel) pane() string {
	cols, rows := m.previewSize()
	if cols <= 0 || rows <= 0 {
		return ""
	}
	body := m.frameView
	if body == "" {
		title, detail := m.placeholderText()
		body = renderPlaceholder(title, detail, cols, rows)
	}
	style := m.styles.pane
	if m.pulse > 0 {
		style = m.styles.paneFocused
	}
	return style.Width(cols).Height(rows).MaxHeight(rows + 2).Render(body)
}

func (m AppModel) placeholderText() (string, string) {
	switch {
	case m.status == engine.StatusFailed:
		detail := ""
		if m.statusErr != nil {
			detail = m.statusErr.Error()
		}
		return "engine unavailable", detail
	case m.renderer == nil || m.renderer.Protocol() == terminal.ProtocolNone:
		return "preview disabled", "controls still publish to the engine"
	case m.status == engine.StatusIdle, m.status == engine.StatusLoading:
		return "loading engine", ""
	case m.status == engine.StatusStopped:
		return "engine stopped", ""
	}
	return "waiting for first frame", ""
}

// Width returns the terminal width.
func (m AppModel) Width() int { return m.width }

// Height returns the terminal height.
func (m AppModel) Height() int { return m.height }

// Sliders returns the sliders in display order.
func (m AppModel) Sliders() []*input.Slider { return m.sliders }

// Status returns the last sampled engine status.
func (m AppModel) Status() engine.Status { return m.status }

// Frame returns the frame currently shown.
func (m AppModel) Frame() *tracer.Frame { return m.frame }

// PreviewFocused reports whether the preview border is highlighted.
func (m AppModel) PreviewFocused() bool { return m.pulse > 0 }

// HelpVisible reports whether the full help is shown.
func (m AppModel) HelpVisible() bool { return m.help.ShowAll }
