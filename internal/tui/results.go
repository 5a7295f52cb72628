package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"marathon-pacer/internal/pacing"
)

const (
	chartWidth  = 60
	chartHeight = 8
	paceSmooth  = 9
)

// ResultsModel is the simulation results screen
type ResultsModel struct {
	units  Units
	result *pacing.Result
	params pacing.Params

	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// NewResultsModel creates an empty results screen
func NewResultsModel(units Units) ResultsModel {
	return ResultsModel{units: units}
}

// WithResult loads a fresh simulation result into the screen.
func (m ResultsModel) WithResult(r *pacing.Result, params pacing.Params, width, height int) ResultsModel {
	m.result = r
	m.params = params
	if width > 0 && height > 0 {
		m.width = width
		m.height = height
		m.viewport = viewport.New(width, height-6)
		m.ready = true
		m.viewport.SetContent(m.renderContent())
	}
	return m
}

// Init initializes the results screen
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.result != nil {
			m.viewport.SetContent(m.renderContent())
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the results screen
func (m ResultsModel) View() string {
	if m.result == nil {
		return statusStyle.Render("\n  No simulation yet. Run one from the Setup screen.")
	}
	if !m.ready {
		return m.renderContent()
	}

	footer := statusStyle.Render("  j/k or arrows: scroll  esc: back to setup")
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m ResultsModel) renderContent() string {
	var sections []string

	sections = append(sections, "")
	sections = append(sections, cardTitleStyle.Render(fmt.Sprintf("Pacing Plan: %s", m.result.CourseName)))
	sections = append(sections, m.renderSummary())
	sections = append(sections, m.renderPaceChart())
	sections = append(sections, m.renderElevationChart())
	sections = append(sections, m.renderSplitsTable())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ResultsModel) renderSummary() string {
	r := m.result
	var lines []string

	windDesc := "calm"
	if m.params.Wind.SpeedMS > 0 {
		windDesc = fmt.Sprintf("%.1f m/s from %.0f°", m.params.Wind.SpeedMS, m.params.Wind.FromDeg)
	}

	lines = append(lines, "  "+RenderMetric("Finish time", pacing.FormatDuration(r.TotalSeconds), ""))
	lines = append(lines, "  "+RenderMetric("Distance", m.units.FormatDistance(r.DistanceKM*1000), ""))
	lines = append(lines, "  "+RenderMetric("Average pace", m.units.FormatPaceSeconds(r.AvgPaceSecPerKM), ""))
	lines = append(lines, "  "+RenderMetric("Effort power", fmt.Sprintf("%.0f W (metabolic)", r.EffortPower), ""))
	lines = append(lines, "  "+RenderMetric("Conditions", fmt.Sprintf("%.0f°C, wind %s", m.params.TempC, windDesc), ""))
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}

func (m ResultsModel) renderPaceChart() string {
	var lines []string

	lines = append(lines, sectionStyle.Render(fmt.Sprintf("Pace Over Distance (%s)", m.units.PaceLabel())))

	data := m.units.ConvertPaceSeries(m.result.PaceSeries(paceSmooth))
	if len(data) > chartWidth {
		data = downsample(data, chartWidth)
	}

	if len(data) > 2 {
		chart := asciigraph.Plot(data,
			asciigraph.Height(chartHeight),
			asciigraph.Width(chartWidth),
			asciigraph.Precision(2),
		)
		lines = append(lines, chart)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ResultsModel) renderElevationChart() string {
	var lines []string

	lines = append(lines, sectionStyle.Render("Course Profile (m)"))

	data := m.result.ElevationSeries()
	if len(data) > chartWidth {
		data = downsample(data, chartWidth)
	}

	if len(data) > 2 {
		chart := asciigraph.Plot(data,
			asciigraph.Height(chartHeight),
			asciigraph.Width(chartWidth),
		)
		lines = append(lines, chart)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m ResultsModel) renderSplitsTable() string {
	var lines []string

	lines = append(lines, sectionStyle.Render("Kilometer Splits"))

	header := fmt.Sprintf("  %-16s  %8s  %8s  %10s", "Lap", "Pace", "Time", "Cumulative")
	lines = append(lines, tableHeaderStyle.Render(header))

	for _, s := range m.result.Splits() {
		lines = append(lines, fmt.Sprintf("  %-16s  %8s  %8s  %10s",
			s.Label,
			m.units.FormatPaceSeconds(s.PaceSecPerKM),
			pacing.FormatDuration(s.TimeSec),
			pacing.FormatDuration(s.CumulativeSec),
		))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// downsample reduces a series to at most n points by averaging buckets.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n {
		return data
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		lo := i * len(data) / n
		hi := (i + 1) * len(data) / n
		sum := 0.0
		for j := lo; j < hi; j++ {
			sum += data[j]
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}
