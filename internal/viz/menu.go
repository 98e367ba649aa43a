package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// MenuItem is one launchable preset.
type MenuItem struct {
	Name        string
	Description string
}

// Factory builds the explorer for a preset.
type Factory func(name string) (Model, error)

// Menu lists presets and hands over to the explorer once one is picked.
type Menu struct {
	items         []MenuItem
	cursor        int
	factory       Factory
	explorer      *Model
	width, height int
	err           error
}

func NewMenu(items []MenuItem, factory Factory) Menu {
	return Menu{items: items, factory: factory, width: 80, height: 24}
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
	}
	if m.explorer != nil {
		next, cmd := m.explorer.Update(msg)
		e := next.(Model)
		m.explorer = &e
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.items) == 0 {
			return m, nil
		}
		e, err := m.factory(m.items[m.cursor].Name)
		if err != nil {
			m.err = err
			return m, nil
		}
		next, _ := e.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		e = next.(Model)
		m.explorer = &e
		return m, e.Init()
	}
	return m, nil
}

func (m Menu) View() string {
	if m.explorer != nil {
		return m.explorer.View()
	}

	var b strings.Builder
	b.WriteString(GradientText("BUDDHABROT", CurrentTheme.Primary, CurrentTheme.Secondary) + "\n\n")
	for i, it := range m.items {
		line := fmt.Sprintf("%-12s", it.Name)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+line) + " " + descStyle.Render(it.Description) + "\n")
		} else {
			b.WriteString("  " + itemStyle.Render(line) + " " + descStyle.Render(it.Description) + "\n")
		}
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("↑↓:select  ENTER:explore  Q:quit"))
	return b.String()
}
