package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/testsprint/testsprint/pkg/models"
)

// Dashboard panel indices.
const (
	panelProgress = iota
	panelTasks
	panelBlocked
	panelCount
)

type dashboardModel struct {
	sprintID    string
	activePanel int
	width       int
	height      int

	// Data.
	data *models.SprintDashboard

	// State.
	loading bool
	err     error
}

// dataLoadedMsg carries the loaded dashboard back to the model.
type dataLoadedMsg struct {
	data *models.SprintDashboard
	err  error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	statusInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusDone       = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusBlocked    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusBacklog    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	lightGreenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	lightYellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	lightRedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel(sprintID string) dashboardModel {
	return dashboardModel{
		sprintID:    sprintID,
		activePanel: panelProgress,
		loading:     true,
	}
}

func loadDashboard(sprintID string) tea.Cmd {
	return func() tea.Msg {
		if Dash == nil {
			return dataLoadedMsg{err: fmt.Errorf("dashboard service not initialized")}
		}
		d, err := Dash.Summary(sprintID)
		if err != nil {
			return dataLoadedMsg{err: fmt.Errorf("loading dashboard: %w", err)}
		}
		if d == nil {
			return dataLoadedMsg{err: fmt.Errorf("sprint %s not found", sprintID)}
		}
		return dataLoadedMsg{data: d}
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadDashboard(m.sprintID)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadDashboard(m.sprintID)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.data = msg.data
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(fmt.Sprintf(" Sprint %s ", m.sprintID))
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	progressPanel := m.renderProgressPanel()
	tasksPanel := m.renderTasksPanel()
	blockedPanel := m.renderBlockedPanel()

	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		colWidth := availableWidth / 3
		progressPanel = m.applyPanelStyle(panelProgress, progressPanel, colWidth-4)
		tasksPanel = m.applyPanelStyle(panelTasks, tasksPanel, colWidth-4)
		blockedPanel = m.applyPanelStyle(panelBlocked, blockedPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, progressPanel, tasksPanel, blockedPanel)
	} else {
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		progressPanel = m.applyPanelStyle(panelProgress, progressPanel, panelWidth)
		tasksPanel = m.applyPanelStyle(panelTasks, tasksPanel, panelWidth)
		blockedPanel = m.applyPanelStyle(panelBlocked, blockedPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, progressPanel, tasksPanel, blockedPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderProgressPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Progress"))
	b.WriteString("\n")

	d := m.data
	light := styleForLight(d.Light).Render(string(d.Light))
	b.WriteString(fmt.Sprintf("  Health:    %s\n", light))
	b.WriteString(fmt.Sprintf("  Real:      %.1f%%\n", d.RealPercent))
	b.WriteString(fmt.Sprintf("  Expected:  %.1f%%\n", d.ExpectedPercent))
	b.WriteString(fmt.Sprintf("  Planned:   %.1f days\n", d.PlannedDays))
	if d.SprintStartedFlg {
		b.WriteString("  Sprint:    started\n")
	} else {
		b.WriteString(fmt.Sprintf("  Sprint:    %s\n", d.SprintStatus))
	}

	return b.String()
}

func (m dashboardModel) renderTasksPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Tasks"))
	b.WriteString("\n")

	total := 0
	for _, status := range models.AllTaskStatuses {
		count := m.data.TasksByStatus[status]
		total += count
		label := fmt.Sprintf("  %-14s %d", status, count)
		b.WriteString(styleForStatus(status).Render(label))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n  Total: %d", total))

	return b.String()
}

func (m dashboardModel) renderBlockedPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Impediments"))
	b.WriteString("\n")

	if len(m.data.Blocked) == 0 {
		b.WriteString("  No blocked tasks.\n")
	}
	for _, blk := range m.data.Blocked {
		line := fmt.Sprintf("  %s %s (%dd)", blk.ID, blk.Motivo, blk.AgeBusinessDays)
		b.WriteString(statusBlocked.Render(line))
		b.WriteString("\n")
	}

	if len(m.data.Unassigned) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Outside any sprint"))
		b.WriteString("\n")
		for _, u := range m.data.Unassigned {
			b.WriteString(fmt.Sprintf("  %s %s (%dd old)\n", u.ID, u.Title, u.AgeBusinessDays))
		}
	}

	return b.String()
}

func styleForStatus(status models.TaskStatus) lipgloss.Style {
	switch status {
	case models.StatusInProgress:
		return statusInProgress
	case models.StatusDone:
		return statusDone
	case models.StatusBlocked:
		return statusBlocked
	case models.StatusBacklog:
		return statusBacklog
	default:
		return lipgloss.NewStyle()
	}
}

func styleForLight(light models.TrafficLight) lipgloss.Style {
	switch light {
	case models.LightGreen:
		return lightGreenStyle
	case models.LightYellow:
		return lightYellowStyle
	case models.LightRed:
		return lightRedStyle
	default:
		return lipgloss.NewStyle()
	}
}

var dashboardJSON bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <sprint-id>",
	Short: "Sprint progress dashboard",
	Long: `Show the progress dashboard of a sprint: real versus expected progress,
traffic-light health, tasks by status, open impediments with their age
in business days, and tasks outside any sprint.

By default an interactive terminal view opens. Use --json for a
machine-readable snapshot.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Dash == nil {
			return fmt.Errorf("dashboard service not initialized")
		}

		if dashboardJSON {
			d, err := Dash.Summary(args[0])
			if err != nil {
				return fmt.Errorf("loading dashboard: %w", err)
			}
			if d == nil {
				return fmt.Errorf("sprint %s not found", args[0])
			}
			out, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding dashboard: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		p := tea.NewProgram(newDashboardModel(args[0]), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardJSON, "json", false, "Print the dashboard as JSON")
	rootCmd.AddCommand(dashboardCmd)
}
