package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const (
	simFrameInterval = 33 * time.Millisecond
	alphaBarWidth    = 40
)

var (
	simLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	simBarStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	simHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// simulateCommand shows the layout settling in the terminal.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		flags    layoutFlags
		perFrame int
		hold     bool
	)

	cmd := &cobra.Command{
		Use:   "simulate [network]",
		Short: "Watch a layout settle in the terminal",
		Long: `Run the force simulation interactively and show its temperature, energy
and tick count as it cools.

Keys: space pauses, r reheats, +/- change the connection threshold, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadOptions(flags.sets)
			if err != nil {
				return err
			}
			h, err := c.openEngine(args[0], opts, nil)
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			defer h.Close()

			m := newSimModel(h, args[0], perFrame, hold)
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if sm, ok := final.(simModel); ok && sm.settled {
				printSuccess("Settled after %d ticks", sm.total)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&perFrame, "ticks-per-frame", 3, "simulation ticks per screen refresh")
	cmd.Flags().BoolVar(&hold, "hold", false, "keep the view open after the layout settles")
	return cmd
}

// =============================================================================
// simModel - bubbletea model for the settle view
// =============================================================================

type simFrameMsg time.Time

type simModel struct {
	h        *headless
	name     string
	perFrame int
	hold     bool

	paused  bool
	settled bool
	total   int // Ticks across reheats
	err     error
}

func newSimModel(h *headless, name string, perFrame int, hold bool) simModel {
	if perFrame < 1 {
		perFrame = 1
	}
	return simModel{h: h, name: name, perFrame: perFrame, hold: hold}
}

func simFrame() tea.Cmd {
	return tea.Tick(simFrameInterval, func(t time.Time) tea.Msg { return simFrameMsg(t) })
}

func (m simModel) Init() tea.Cmd { return simFrame() }

func (m simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.h.Reheat()
			m.settled = false
		case "+", "=":
			m.err = m.h.SetThreshold(m.h.Options().MinConnections + 1)
			m.settled = false
		case "-":
			if t := m.h.Options().MinConnections; t > 0 {
				m.err = m.h.SetThreshold(t - 1)
				m.settled = false
			}
		}
		return m, nil

	case simFrameMsg:
		if !m.paused {
			for range m.perFrame {
				if !m.h.Tick() {
					break
				}
				m.total++
			}
			m.settled = m.h.Settled()
		}
		if m.settled && !m.hold {
			return m, tea.Quit
		}
		return m, simFrame()
	}
	return m, nil
}

func (m simModel) View() string {
	var b strings.Builder
	s := m.h.Stats()

	b.WriteString(StyleTitle.Render(m.name))
	b.WriteString("\n\n")
	row := func(label, value string) {
		b.WriteString(simLabelStyle.Render(label) + " " + StyleValue.Render(value) + "\n")
	}
	row("nodes", fmt.Sprintf("%d (threshold %d)", s.NodeCount, m.h.Options().MinConnections))
	row("edges", fmt.Sprintf("%d", s.EdgeCount))
	row("alpha", alphaBar(m.h.Alpha())+fmt.Sprintf(" %.4f", m.h.Alpha()))
	row("energy", fmt.Sprintf("%.4g", m.h.Energy()))
	row("ticks", fmt.Sprintf("%d", m.total))

	status := StyleHighlight.Render("running")
	switch {
	case m.settled:
		status = StyleSuccess.Render("settled")
	case m.paused:
		status = StyleWarning.Render("paused")
	}
	row("state", status)
	if m.err != nil {
		b.WriteString("\n" + StyleWarning.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + simHelpStyle.Render("space pause  r reheat  +/- threshold  q quit") + "\n")
	return b.String()
}

// alphaBar draws alpha in [0, 1] as a fixed-width bar.
func alphaBar(alpha float64) string {
	n := int(alpha*alphaBarWidth + 0.5)
	n = max(0, min(alphaBarWidth, n))
	return simBarStyle.Render(strings.Repeat("█", n)) + StyleDim.Render(strings.Repeat("░", alphaBarWidth-n))
}
