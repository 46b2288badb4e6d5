package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qrscan-go/pkg/cli/logger"
)

// MenuNavigationMsg asks the root shell to return to its menu
type MenuNavigationMsg struct{}

// keyCapturer is implemented by wrapped models that temporarily need every
// key, e.g. while an overlay or confirmation is open
type keyCapturer interface {
	CapturesKeys() bool
}

// ViewportWrapper wraps a model with viewport and common command support
type ViewportWrapper struct {
	model    tea.Model
	viewport viewport.Model
	width    int
	height   int
	config   ViewportConfig

	showHelp    bool
	helpContent string
}

// ViewportConfig configures the wrapper behavior
type ViewportConfig struct {
	Title       string
	Subtitle    func() string // Rendered under the title on every frame
	ShowHeader  bool
	ShowFooter  bool
	UseViewport bool // Enable scrolling (false = simple responsive)
	MinWidth    int
	MinHeight   int
	EnableHelp  bool
	EnableMenu  bool
	HelpContent func() string
}

// NewViewportWrapper creates a new wrapper around a model
func NewViewportWrapper(model tea.Model, config ViewportConfig) *ViewportWrapper {
	return &ViewportWrapper{
		model:    model,
		viewport: viewport.New(0, 0),
		config:   config,
		width:    80,
		height:   24,
	}
}

func (w *ViewportWrapper) Init() tea.Cmd {
	if w.model != nil {
		return w.model.Init()
	}
	return nil
}

func (w *ViewportWrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		logger.Log("ViewportWrapper: resize to %dx%d", msg.Width, msg.Height)
		w.width = max(msg.Width, w.config.MinWidth)
		w.height = max(msg.Height, w.config.MinHeight)
		w.calculateLayout()

		var cmd tea.Cmd
		if w.model != nil {
			w.model, cmd = w.model.Update(msg)
		}
		return w, cmd

	case tea.KeyMsg:
		if w.showHelp {
			switch msg.String() {
			case "?", "esc", "q":
				w.showHelp = false
			case "ctrl+c":
				return w, tea.Quit
			}
			return w, nil
		}

		if c, ok := w.model.(keyCapturer); !ok || !c.CapturesKeys() {
			switch msg.String() {
			case "?":
				if w.config.EnableHelp {
					w.showHelp = true
					if w.config.HelpContent != nil {
						w.helpContent = w.config.HelpContent()
					}
					return w, nil
				}
			case "m":
				if w.config.EnableMenu {
					return w, func() tea.Msg { return MenuNavigationMsg{} }
				}
			case "ctrl+c", "q", "esc":
				return w, tea.Quit
			}
		} else if msg.String() == "ctrl+c" {
			return w, tea.Quit
		}
	}

	var cmd tea.Cmd
	if w.model != nil {
		w.model, cmd = w.model.Update(msg)
	}

	// Scroll keys go to the viewport as well
	if w.config.UseViewport {
		var vpCmd tea.Cmd
		w.viewport, vpCmd = w.viewport.Update(msg)
		cmd = tea.Batch(cmd, vpCmd)
	}

	return w, cmd
}

func (w *ViewportWrapper) View() string {
	if w.showHelp {
		return w.renderHelpOverlay()
	}

	content := ""
	if w.model != nil {
		content = w.model.View()
	}

	if w.config.UseViewport {
		w.calculateLayout()
		w.viewport.SetContent(content)
		content = w.viewport.View()
	}

	var parts []string
	if w.config.ShowHeader {
		parts = append(parts, w.renderHeader())
	}
	parts = append(parts, content)
	if w.config.ShowFooter {
		parts = append(parts, w.renderFooter())
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (w *ViewportWrapper) headerHeight() int {
	if !w.config.ShowHeader {
		return 0
	}
	return lipgloss.Height(w.renderHeader())
}

func (w *ViewportWrapper) calculateLayout() {
	if w.width <= 0 {
		w.width = 80
	}
	if w.height <= 0 {
		w.height = 24
	}

	footerH := 0
	if w.config.ShowFooter {
		footerH = 1
	}

	contentH := w.height - w.headerHeight() - footerH
	if contentH < 1 {
		contentH = 1
	}
	w.viewport.Width = w.width
	w.viewport.Height = contentH
}

func (w *ViewportWrapper) renderHeader() string {
	var b strings.Builder

	if w.config.Title != "" {
		b.WriteString(renderTitle(w.config.Title))
	}
	if w.config.Subtitle != nil {
		b.WriteString(w.config.Subtitle() + "\n")
	}

	return b.String()
}

func (w *ViewportWrapper) renderFooter() string {
	shortcuts := []string{}

	if w.config.EnableHelp {
		shortcuts = append(shortcuts, "? help")
	}
	if w.config.EnableMenu {
		shortcuts = append(shortcuts, "m menu")
	}
	shortcuts = append(shortcuts, "q quit")

	return helpStyle.Render(strings.Join(shortcuts, " • "))
}

func (w *ViewportWrapper) renderHelpOverlay() string {
	helpText := w.helpContent
	if helpText == "" {
		helpText = "No help available"
	}

	overlayStyle := lipgloss.NewStyle().
		Width(w.width-2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	title := titleStyle.Render("Keyboard Shortcuts")
	closeHint := helpStyle.Render("Press '?' or Esc to close")

	return overlayStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, title, helpText, closeHint),
	)
}
