package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Setup form"},
		{"2", "Results (after a simulation)"},
		{"3", "Course browser"},
		{"?", "Help (this screen)"},
		{"esc", "Back"},
		{"ctrl+c", "Quit"},
	})
	sections = append(sections, navSection)

	setupSection := m.renderSection("Setup Form", []keyHelp{
		{"tab / ↑↓", "Move between fields"},
		{"ctrl+r or enter on last field", "Run simulation"},
		{"ctrl+w", "Fill temperature and wind from the forecast"},
	})
	sections = append(sections, setupSection)

	coursesSection := m.renderSection("Course Browser", []keyHelp{
		{"j / k", "Move cursor"},
		{"enter", "Use course in setup"},
		{"r", "Refresh list"},
	})
	sections = append(sections, coursesSection)

	sections = append(sections, m.renderModelHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderModelHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("How Pacing Is Computed"))
	lines = append(lines, "")

	items := []struct {
		name string
		desc string
	}{
		{"Constant effort", "The plan holds metabolic power steady, so pace varies with terrain."},
		{"Gradient cost", "Uphill running costs more energy per meter, downhill less (to a point)."},
		{"Wind", "Headwinds on exposed stretches raise the cost; tailwinds lower it."},
		{"Temperature", "Colder air is denser, which slightly increases drag."},
		{"Hill power", "Above 100% pushes harder on climbs; below 100% saves them for the flats."},
		{"Split", "Positive banks time early; negative finishes faster than it starts."},
	}

	for _, item := range items {
		lines = append(lines, "  "+helpKeyStyle.Render(item.name))
		lines = append(lines, "  "+helpDescStyle.Render(item.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
