package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TypeListModel - Interactive node type browser
// =============================================================================

// TypeListModel is the bubbletea model for browsing node types.
type TypeListModel struct {
	Types    []typeShape
	Cursor   int
	Selected *typeShape
	Height   int
	Offset   int
}

// NewTypeListModel creates a new type list model.
func NewTypeListModel(types []typeShape) TypeListModel {
	return TypeListModel{
		Types:  types,
		Height: 15,
	}
}

func (m TypeListModel) Init() tea.Cmd {
	return nil
}

func (m TypeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Types)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			shape := m.Types[m.Cursor]
			m.Selected = &shape
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TypeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Node Types"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Types) {
		end = len(m.Types)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Types[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			s.Name,
			fmt.Sprintf("%d", s.Inputs),
			fmt.Sprintf("%d", s.Outputs),
			roleOf(s),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Type", "In", "Out", "Role").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 4 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Types))))

	return b.String()
}

// roleOf classifies a type by its port shape for display.
func roleOf(s typeShape) string {
	switch {
	case s.Inputs == 0 && s.Outputs > 0:
		return "producer"
	case s.Inputs > 0 && s.Outputs == 0:
		return "consumer"
	case s.Inputs > 1:
		return "combiner"
	case s.Outputs > 1:
		return "splitter"
	default:
		return "transform"
	}
}

// newBrowseCmd creates the browse command with the interactive type list.
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse node types interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shapes, err := typeShapes()
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(NewTypeListModel(shapes)).Run()
			if err != nil {
				return err
			}

			model, ok := final.(TypeListModel)
			if !ok || model.Selected == nil {
				return nil
			}

			s := model.Selected
			printNewline()
			printKeyValue("Type", s.Name)
			printKeyValue("Inputs", fmt.Sprintf("%d", s.Inputs))
			printKeyValue("Outputs", fmt.Sprintf("%d", s.Outputs))
			printKeyValue("Role", roleOf(*s))
			printNewline()
			printNextStep("Create one via the API", fmt.Sprintf(`curl -XPOST localhost:8080/api/nodes -d '{"type":"%s"}'`, s.Name))
			return nil
		},
	}
}
