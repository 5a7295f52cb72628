package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"marathon-pacer/internal/service"
	"marathon-pacer/internal/store"
)

// CoursesModel is the stored-course browser
type CoursesModel struct {
	courseService *service.CourseService

	courses []store.CourseRecord
	cursor  int
	loading bool
	err     error
}

// NewCoursesModel creates a new course browser
func NewCoursesModel(cs *service.CourseService) CoursesModel {
	return CoursesModel{courseService: cs, loading: true}
}

// Init initializes the course browser
func (m CoursesModel) Init() tea.Cmd {
	return m.loadCourses
}

type coursesLoadedMsg struct {
	courses []store.CourseRecord
	err     error
}

func (m CoursesModel) loadCourses() tea.Msg {
	courses, err := m.courseService.List()
	return coursesLoadedMsg{courses: courses, err: err}
}

// Update handles messages
func (m CoursesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case coursesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.courses = msg.courses
		if m.cursor >= len(m.courses) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.courses)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "r":
			m.loading = true
			return m, m.loadCourses
		case "enter":
			if m.cursor < len(m.courses) {
				name := m.courses[m.cursor].Name
				return m, func() tea.Msg { return courseSelectedMsg{name: name} }
			}
		}
	}

	return m, nil
}

// View renders the course browser
func (m CoursesModel) View() string {
	if m.loading {
		return "\n  Loading courses..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	var lines []string
	lines = append(lines, cardTitleStyle.Render("Stored Courses"))

	if len(m.courses) == 0 {
		lines = append(lines, statusStyle.Render("  No courses stored. Import one with `pacer courses import`."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	header := fmt.Sprintf("  %-28s  %-8s  %10s  %8s", "Name", "Source", "Distance", "Coords")
	lines = append(lines, tableHeaderStyle.Render(header))

	for i, c := range m.courses {
		coords := "-"
		if c.StartLat != nil && c.StartLon != nil {
			coords = "yes"
		}
		row := fmt.Sprintf("  %-28s  %-8s  %9.2fk  %8s", truncate(c.Name, 28), c.Source, c.DistanceKM, coords)
		if i == m.cursor {
			lines = append(lines, tableSelectedStyle.Render(row))
		} else {
			lines = append(lines, tableRowStyle.Render(row))
		}
	}

	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  j/k: move  enter: use in setup  r: refresh  esc: back"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-1]) + "…"
}
