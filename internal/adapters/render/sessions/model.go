package sessions

import (
	"errors"
	"io"

	"github.com/aquatix/whosthere/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	rows   []application.SessionRow
	opts   RenderOptions
	styles styles
	output string
}

func newModel(rows []application.SessionRow, opts RenderOptions) model {
	return model{
		rows:   rows,
		opts:   opts,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.rows, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render draws rows as a table. The program runs without a terminal, so it
// is safe to call from tests and pipelines.
func Render(rows []application.SessionRow, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(rows, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
