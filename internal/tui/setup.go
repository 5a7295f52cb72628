package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"marathon-pacer/internal/config"
	"marathon-pacer/internal/pacing"
	"marathon-pacer/internal/service"
	"marathon-pacer/internal/vdot"
	"marathon-pacer/internal/weather"
)

// Form field indices
const (
	fieldCourse = iota
	fieldTarget
	fieldVDOT
	fieldMass
	fieldTemp
	fieldWindSpeed
	fieldWindDir
	fieldHillPower
	fieldSplit
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Course",
	"Target time (h:mm or h:mm:ss)",
	"VDOT (used when target is empty)",
	"Body mass (kg)",
	"Temperature (°C)",
	"Wind speed (m/s)",
	"Wind from (°, 0=N 90=E)",
	"Hill power (70-130 %)",
	"Split (even/positive/negative)",
}

// SetupModel is the simulation parameter form
type SetupModel struct {
	inputs [fieldCount]textinput.Model
	focus  int

	courseService *service.CourseService
	planService   *service.PlanService
	weatherClient *weather.Client

	status  string
	statErr bool
	running bool
}

// NewSetupModel creates the form with defaults from config.
func NewSetupModel(cfg *config.Config, courses *service.CourseService, plans *service.PlanService, wx *weather.Client) SetupModel {
	m := SetupModel{
		courseService: courses,
		planService:   plans,
		weatherClient: wx,
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 32
		ti.Width = 24
		m.inputs[i] = ti
	}

	m.inputs[fieldCourse].SetValue("Ehime Marathon")
	m.inputs[fieldTarget].SetValue("3:30")
	if cfg.Runner.VDOT > 0 {
		m.inputs[fieldVDOT].SetValue(strconv.FormatFloat(cfg.Runner.VDOT, 'f', -1, 64))
	}
	m.inputs[fieldMass].SetValue(strconv.FormatFloat(cfg.Runner.MassKG, 'f', -1, 64))
	m.inputs[fieldTemp].SetValue("15")
	m.inputs[fieldWindSpeed].SetValue("0")
	m.inputs[fieldWindDir].SetValue("0")
	m.inputs[fieldHillPower].SetValue(strconv.FormatFloat(cfg.Runner.HillPower, 'f', -1, 64))
	m.inputs[fieldSplit].SetValue("even")

	m.inputs[fieldCourse].Focus()
	return m
}

// SetCourse fills in the course field (used by the course browser).
func (m *SetupModel) SetCourse(name string) {
	m.inputs[fieldCourse].SetValue(name)
}

// Init initializes the setup screen
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

type weatherLoadedMsg struct {
	cond *weather.Conditions
	err  error
}

// Update handles messages
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down", "enter":
			if msg.String() == "enter" && m.focus == fieldCount-1 {
				return m.submit()
			}
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "ctrl+r":
			return m.submit()
		case "ctrl+w":
			if m.weatherClient == nil {
				m.status, m.statErr = "weather client not configured", true
				return m, nil
			}
			m.status, m.statErr = "fetching weather...", false
			return m, m.fetchWeather
		}

	case weatherLoadedMsg:
		if msg.err != nil {
			m.status, m.statErr = fmt.Sprintf("weather: %v", msg.err), true
			return m, nil
		}
		m.inputs[fieldTemp].SetValue(fmt.Sprintf("%.1f", msg.cond.TempC))
		m.inputs[fieldWindSpeed].SetValue(fmt.Sprintf("%.1f", msg.cond.GroundWindMS()))
		m.inputs[fieldWindDir].SetValue(fmt.Sprintf("%.0f", msg.cond.WindFromDeg))
		m.status = fmt.Sprintf("weather at %s: %.1f°C, wind %.1f m/s from %.0f° (halved for street level)",
			msg.cond.Time.Format("15:04 MST"), msg.cond.TempC, msg.cond.GroundWindMS(), msg.cond.WindFromDeg)
		m.statErr = false
		return m, nil

	case simulationDoneMsg:
		m.running = false
		if msg.err != nil {
			m.status, m.statErr = msg.err.Error(), true
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *SetupModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// submit validates the form and launches the simulation.
func (m SetupModel) submit() (tea.Model, tea.Cmd) {
	params, courseName, err := m.parseParams()
	if err != nil {
		m.status, m.statErr = err.Error(), true
		return m, nil
	}

	m.running = true
	m.status, m.statErr = "simulating...", false

	courses, plans := m.courseService, m.planService
	return m, func() tea.Msg {
		c, err := courses.Get(courseName)
		if err != nil {
			return simulationDoneMsg{err: fmt.Errorf("course %q: %w", courseName, err)}
		}
		result, err := plans.Simulate(c, params)
		return simulationDoneMsg{result: result, params: params, err: err}
	}
}

// parseParams converts the form fields into simulation parameters.
func (m SetupModel) parseParams() (pacing.Params, string, error) {
	var p pacing.Params

	courseName := strings.TrimSpace(m.inputs[fieldCourse].Value())
	if courseName == "" {
		return p, "", fmt.Errorf("course name is required")
	}

	target, err := parseTargetTime(m.inputs[fieldTarget].Value())
	if err != nil {
		return p, "", err
	}
	if target == 0 {
		v, err := parseFloatField(m.inputs[fieldVDOT].Value(), "vdot")
		if err != nil {
			return p, "", fmt.Errorf("either a target time or a VDOT is required")
		}
		target, err = vdot.MarathonTime(v)
		if err != nil {
			return p, "", err
		}
	}
	p.TargetTime = target

	if p.MassKG, err = parseFloatField(m.inputs[fieldMass].Value(), "mass"); err != nil {
		return p, "", err
	}
	if p.TempC, err = parseFloatField(m.inputs[fieldTemp].Value(), "temperature"); err != nil {
		return p, "", err
	}
	if p.Wind.SpeedMS, err = parseFloatField(m.inputs[fieldWindSpeed].Value(), "wind speed"); err != nil {
		return p, "", err
	}
	if p.Wind.FromDeg, err = parseFloatField(m.inputs[fieldWindDir].Value(), "wind direction"); err != nil {
		return p, "", err
	}
	if p.HillPower, err = parseFloatField(m.inputs[fieldHillPower].Value(), "hill power"); err != nil {
		return p, "", err
	}

	switch strings.ToLower(strings.TrimSpace(m.inputs[fieldSplit].Value())) {
	case "", "even":
		p.Split = pacing.SplitEven
	case "positive", "pos":
		p.Split = pacing.SplitPositive
	case "negative", "neg":
		p.Split = pacing.SplitNegative
	default:
		return p, "", fmt.Errorf("split must be even, positive, or negative")
	}

	return p, courseName, nil
}

// fetchWeather loads current conditions at the selected course's start.
func (m SetupModel) fetchWeather() tea.Msg {
	name := strings.TrimSpace(m.inputs[fieldCourse].Value())
	c, err := m.courseService.Get(name)
	if err != nil {
		return weatherLoadedMsg{err: fmt.Errorf("course %q: %w", name, err)}
	}
	if c.StartLat == nil || c.StartLon == nil {
		return weatherLoadedMsg{err: fmt.Errorf("course %q has no start coordinates", name)}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	cond, err := m.weatherClient.Current(ctx, *c.StartLat, *c.StartLon)
	return weatherLoadedMsg{cond: cond, err: err}
}

// View renders the setup form
func (m SetupModel) View() string {
	var lines []string

	lines = append(lines, cardTitleStyle.Render("Simulation Setup"))

	for i := range m.inputs {
		label := fieldLabels[i]
		if i == m.focus {
			lines = append(lines, "  "+navActiveStyle.Render("▸ "+label))
		} else {
			lines = append(lines, "  "+metricLabelStyle.Render("  "+label))
		}
		lines = append(lines, "    "+m.inputs[i].View())
	}

	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  tab/↑↓: move  ctrl+r: run  ctrl+w: fetch weather  ctrl+c: quit"))

	if m.status != "" {
		if m.statErr {
			lines = append(lines, errorStyle.Render("  "+m.status))
		} else {
			lines = append(lines, successStyle.Render("  "+m.status))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// parseTargetTime reads "3:30" (h:mm) or "3:30:00" (h:mm:ss). Empty input
// returns zero so a VDOT can take over.
func parseTargetTime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("target time must be h:mm or h:mm:ss, got %q", s)
	}

	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("target time must be h:mm or h:mm:ss, got %q", s)
		}
		nums[i] = n
	}

	d := time.Duration(nums[0])*time.Hour + time.Duration(nums[1])*time.Minute
	if len(nums) == 3 {
		d += time.Duration(nums[2]) * time.Second
	}
	return d, nil
}

func parseFloatField(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return v, nil
}
