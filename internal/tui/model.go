package tui

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sparsim/sparsim/internal/config"
	"github.com/sparsim/sparsim/internal/output"
	"github.com/sparsim/sparsim/internal/simulation"
)

// Model is the application state: one plan file, one report per plan, and a
// cursor over the plans.
type Model struct {
	configPath string
	reports    []output.PlanReport
	selected   int

	spinner spinner.Model
	loading bool
	err     error

	width  int
	height int
}

// NewModel creates the application model for one plan file.
func NewModel(configPath string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)
	return Model{
		configPath: configPath,
		spinner:    sp,
		loading:    true,
		width:      80,
		height:     24,
	}
}

// Run launches the TUI on the given plan file and blocks until it exits.
func Run(configPath string) error {
	p := tea.NewProgram(NewModel(configPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type reportsMsg struct {
	reports []output.PlanReport
}

type errMsg struct {
	err error
}

// loadReportsCmd loads the plan file and runs every plan: the deterministic
// projection, the IRR, and the Monte Carlo batch configured in the file.
func loadReportsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(path)
		if err != nil {
			return errMsg{err: err}
		}

		reports := make([]output.PlanReport, 0, len(cfg.Plans))
		for _, plan := range cfg.Plans {
			result := simulation.NewEngine(plan).Run()

			driver := simulation.NewMonteCarloDriver(plan, cfg.MonteCarlo.Runs)
			if cfg.MonteCarlo.Seed != 0 {
				driver.SetSource(rand.NewPCG(cfg.MonteCarlo.Seed, cfg.MonteCarlo.Seed))
			}

			reports = append(reports, output.PlanReport{
				Plan:       plan,
				Result:     result,
				IRR:        simulation.IRR(result.Cashflows),
				MonteCarlo: driver.Run(),
			})
		}
		return reportsMsg{reports: reports}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadReportsCmd(m.configPath))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case reportsMsg:
		m.reports = msg.reports
		m.loading = false
		return m, nil

	case errMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "left", "h", "shift+tab":
			if len(m.reports) > 0 {
				m.selected = (m.selected + len(m.reports) - 1) % len(m.reports)
			}
		case "right", "l", "tab":
			if len(m.reports) > 0 {
				m.selected = (m.selected + 1) % len(m.reports)
			}
		case "r":
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, loadReportsCmd(m.configPath))
		}
	}
	return m, nil
}

func (m Model) View() string {
	title := titleStyle.Render("sparsim") + subtitleStyle.Render(" · "+m.configPath)

	if m.loading {
		return title + "\n\n  " + m.spinner.View() + " running simulations...\n"
	}
	if m.err != nil {
		return title + "\n" + errorStyle.Render("Error: "+m.err.Error()) + helpStyle.Render("r retry · q quit")
	}
	if len(m.reports) == 0 {
		return title + "\n" + errorStyle.Render("No plans in file") + helpStyle.Render("q quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.renderTabs(),
		m.renderReport(m.reports[m.selected]),
		helpStyle.Render("←/→ switch plan · r re-run · q quit"),
	)
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(m.reports))
	for i, r := range m.reports {
		if i == m.selected {
			tabs[i] = selectedTabStyle.Render(r.Plan.Label)
		} else {
			tabs[i] = tabStyle.Render(r.Plan.Label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderReport(r output.PlanReport) string {
	final := r.Result.FinalEntry()

	finalValue := 0.0
	if n := len(r.Result.Entries); n >= 2 {
		finalValue = r.Result.Entries[n-2].PortfolioValue
	}

	row1 := renderCardRow(
		newMetricCard("Final value", output.FormatEUR(finalValue)).
			withSubtext(fmt.Sprintf("%d years", r.Plan.DurationYears)).asGood(),
		newMetricCard("Net payout", output.FormatEUR(final.Withdrawals)),
		newMetricCard("IRR", output.FormatPercent(r.IRR)),
	)
	row2 := renderCardRow(
		newMetricCard("Total costs", output.FormatEUR(final.TotalCosts())).asBad(),
		newMetricCard("Taxes paid", output.FormatEUR(final.TaxesPaid)).asBad(),
		newMetricCard("Rebalancings", fmt.Sprintf("%d", len(r.Result.Rebalancings))),
	)

	sections := []string{row1, row2}
	if mc := r.MonteCarlo; mc != nil {
		sections = append(sections, renderCardRow(
			newMetricCard("MC median", output.FormatEUR(mc.Median)).
				withSubtext(fmt.Sprintf("%d runs", len(mc.FinalValues))),
			newMetricCard("MC mean", output.FormatEUR(mc.Mean)),
			newMetricCard("95% interval", output.FormatEUR(mc.CILower)).
				withSubtext("to "+output.FormatEUR(mc.CIUpper)),
		))
	}

	return strings.Join(sections, "\n")
}
