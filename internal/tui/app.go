// Package tui is the interactive terminal frontend: a setup form, a results
// screen with charts and splits, and a course browser.
package tui

import (
	"marathon-pacer/internal/config"
	"marathon-pacer/internal/pacing"
	"marathon-pacer/internal/service"
	"marathon-pacer/internal/weather"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenSetup Screen = iota
	ScreenResults
	ScreenCourses
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	setup   SetupModel
	results ResultsModel
	courses CoursesModel
	help    HelpModel

	// Services
	courseService *service.CourseService
	planService   *service.PlanService

	// Window dimensions
	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(cfg *config.Config, courses *service.CourseService, plans *service.PlanService, wx *weather.Client) *App {
	units := NewUnits(cfg.Display)
	return &App{
		screen:        ScreenSetup,
		courseService: courses,
		planService:   plans,
		setup:         NewSetupModel(cfg, courses, plans, wx),
		results:       NewResultsModel(units),
		courses:       NewCoursesModel(courses),
		help:          NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.setup.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			// The setup form needs "q" for text entry.
			if a.screen != ScreenSetup {
				return a, tea.Quit
			}
		case "1":
			if a.screen != ScreenSetup {
				a.screen = ScreenSetup
				return a, a.setup.Init()
			}
		case "2":
			if a.screen != ScreenSetup && a.results.result != nil {
				a.screen = ScreenResults
				return a, nil
			}
		case "3":
			if a.screen != ScreenSetup {
				a.screen = ScreenCourses
				return a, a.courses.Init()
			}
		case "?":
			if a.screen != ScreenSetup && a.screen != ScreenHelp {
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			}
		case "esc":
			if a.screen == ScreenHelp {
				a.screen = a.prevScreen
				return a, nil
			}
			if a.screen == ScreenResults || a.screen == ScreenCourses {
				a.screen = ScreenSetup
				return a, a.setup.Init()
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case simulationDoneMsg:
		if msg.err == nil {
			a.results = a.results.WithResult(msg.result, msg.params, a.width, a.height)
			a.screen = ScreenResults
		}

	case courseSelectedMsg:
		a.setup.SetCourse(msg.name)
		a.screen = ScreenSetup
		return a, a.setup.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenSetup:
		var m tea.Model
		m, cmd = a.setup.Update(msg)
		a.setup = m.(SetupModel)
	case ScreenResults:
		var m tea.Model
		m, cmd = a.results.Update(msg)
		a.results = m.(ResultsModel)
	case ScreenCourses:
		var m tea.Model
		m, cmd = a.courses.Update(msg)
		a.courses = m.(CoursesModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenSetup:
		content = a.setup.View()
	case ScreenResults:
		content = a.results.View()
	case ScreenCourses:
		content = a.courses.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Marathon Pace Planner")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Setup", ScreenSetup},
		{"2", "Results", ScreenResults},
		{"3", "Courses", ScreenCourses},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[ctrl+c] Quit")

	return navStyle.Render(nav)
}

// simulationDoneMsg is sent when a simulation finishes
type simulationDoneMsg struct {
	result *pacing.Result
	params pacing.Params
	err    error
}

// courseSelectedMsg is sent when the course browser picks a course
type courseSelectedMsg struct {
	name string
}
