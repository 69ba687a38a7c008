package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/marcus/sheet/internal/logging"
	"github.com/marcus/sheet/internal/script"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <script.yaml>",
	Short: "Replay a gesture script against a headless sheet",
	Long: `Replay a gesture script and print the sheet state after every step.

A script fixes the geometry and lists steps:

  viewport: 1000
  header: 50
  handle: 24
  body: 350
  attributes:
    minimize: ""
  steps:
    - attach
    - open
    - start: 100
    - move: 420
    - end`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Bool("json", false, "print snapshots as JSON")
	simulateCmd.Flags().String("log-level", "", "engine log level on stderr")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(c *cobra.Command, args []string) error {
	level, _ := c.Flags().GetString("log-level")
	logger, _, err := logging.New(logging.Options{Level: level}.FromEnv(), c.ErrOrStderr())
	if err != nil {
		return err
	}

	s, err := script.Load(args[0])
	if err != nil {
		return err
	}
	r := &script.Runner{Logger: logger}
	snaps, runErr := r.Run(c.Context(), s)

	asJSON, _ := c.Flags().GetBool("json")
	out := c.OutOrStdout()
	if asJSON {
		if err := writeSnapshotsJSON(out, snaps); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, renderSnapshots(s.Name, snaps))
	}

	var stepErr *script.StepError
	if errors.As(runErr, &stepErr) {
		slog.Debug("simulate: stopped", "step", stepErr.Index+1, "kind", stepErr.Kind)
	}
	return runErr
}

func writeSnapshotsJSON(w io.Writer, snaps []script.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if snaps == nil {
		snaps = []script.Snapshot{}
	}
	return enc.Encode(snaps)
}

var (
	simHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	simCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	simTitleStyle  = lipgloss.NewStyle().Bold(true)
)

// renderSnapshots draws one table row per step.
func renderSnapshots(name string, snaps []script.Snapshot) string {
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			strconv.Itoa(s.Step),
			s.Kind,
			s.Elapsed,
			s.State,
			strconv.FormatFloat(s.Offset, 'f', -1, 64),
			strings.Join(s.Flags, ","),
			yesNo(s.Locked),
			strconv.Itoa(s.Listeners),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("#", "STEP", "T", "STATE", "OFFSET", "FLAGS", "LOCK", "LISTENERS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return simHeaderStyle
			}
			return simCellStyle
		})
	return simTitleStyle.Render(name) + "\n" + t.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
