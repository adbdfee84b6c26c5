package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ui_workflows/application/steps"
	"ui_workflows/domain/entities"
	"ui_workflows/infrastructure/storage"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yml>...",
		Short: "Run every scenario in the given YAML files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var scenarios []steps.Scenario
			for _, path := range args {
				loaded, err := loadScenarioFile(path)
				if err != nil {
					return err
				}
				scenarios = append(scenarios, loaded...)
			}

			s, err := openSession(a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}
			defer func() {
				if err := s.Close(); err != nil {
					a.logger.WithError(err).Warn("failed to close browser")
				}
			}()

			return runAll(cmd.Context(), cmd.OutOrStdout(), s.runner(), scenarios)
		},
	}
}

func loadScenarioFile(path string) ([]steps.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scenarios, err := LoadScenarios(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenarios, nil
}

// runAll runs scenarios in order, printing one line per outcome. A cancelled
// context stops the remaining scenarios.
func runAll(ctx context.Context, out io.Writer, runner *Runner, scenarios []steps.Scenario) error {
	failed := 0
	for i, scenario := range scenarios {
		if ctx.Err() != nil {
			fmt.Fprintf(out, "skipped %d scenarios\n", len(scenarios)-i)
			return ctx.Err()
		}

		record, err := runner.Run(ctx, scenario)
		fmt.Fprintln(out, summary(record))
		if err != nil {
			failed++
			fmt.Fprintf(out, "    %v\n", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
	}
	return nil
}

func summary(record entities.RunRecord) string {
	return fmt.Sprintf("%-9s %s (%s, %s)",
		strings.ToUpper(string(record.Status)),
		record.Scenario,
		record.Actor,
		record.FinishedAt.Sub(record.StartedAt).Round(time.Millisecond),
	)
}

func newInteractiveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Perform steps typed at a prompt, one scenario per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}
			defer func() {
				if err := s.Close(); err != nil {
					a.logger.WithError(err).Warn("failed to close browser")
				}
			}()

			return repl(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), s.runner())
		},
	}
}

// repl reads one step per line and performs it as a single-step scenario
func repl(ctx context.Context, in io.Reader, out io.Writer, runner *Runner) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "UI workflows")
	fmt.Fprintln(out, "============")
	fmt.Fprintln(out, "Type a step, 'help' for the list of steps, or 'quit' to exit")
	fmt.Fprintln(out)

	for {
		fmt.Fprint(out, "> ")
		input, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF

		input = strings.TrimSpace(input)
		switch {
		case input == "" && eof:
			fmt.Fprintln(out)
			return nil
		case input == "":
			continue
		case input == "quit" || input == "exit" || input == "q":
			fmt.Fprintln(out, "Bye!")
			return nil
		case input == "help":
			printHelp(out)
			continue
		}

		step, perr := parseStepLine(input)
		if perr != nil {
			fmt.Fprintf(out, "%v\n\n", perr)
		} else {
			record, runErr := runner.Run(ctx, steps.Scenario{Name: step.String(), Steps: []steps.Step{step}})
			fmt.Fprintln(out, summary(record))
			if runErr != nil {
				fmt.Fprintf(out, "    %v\n", runErr)
			}
			fmt.Fprintln(out)
		}

		if eof || ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Steps:")
	for _, kind := range steps.StepKinds {
		fmt.Fprintf(out, "  %s <mail type>\n", kind)
	}
	fmt.Fprintln(out, "Or a YAML step, for example:")
	fmt.Fprintln(out, `  {step: sends notification, mail_type: Default Email, data: [{field: asset, value: pump}]}`)
	fmt.Fprintln(out)
}

// parseStepLine accepts either a YAML flow mapping or "<step kind> <mail type>"
func parseStepLine(line string) (steps.Step, error) {
	var step steps.Step
	if strings.HasPrefix(line, "{") {
		if err := yaml.Unmarshal([]byte(line), &step); err != nil {
			return step, fmt.Errorf("invalid step: %w", err)
		}
		return step, nil
	}

	// longest kind first so "sends notification to" wins over "sends notification"
	var best steps.StepKind
	for _, kind := range steps.StepKinds {
		if (line == string(kind) || strings.HasPrefix(line, string(kind)+" ")) && len(kind) > len(best) {
			best = kind
		}
	}
	if best == "" {
		return step, fmt.Errorf("unknown step %q, type 'help' for the list of steps", line)
	}

	step.Kind = best
	rest := strings.TrimSpace(strings.TrimPrefix(line, string(best)))
	if best == steps.StepSendNotificationTo {
		// "<mail type> -> <recipient>"
		mailType, recipient, found := strings.Cut(rest, "->")
		if !found {
			return step, fmt.Errorf("expected %q", "sends notification to <mail type> -> <recipient>")
		}
		step.MailType = strings.TrimSpace(mailType)
		step.Recipient = strings.TrimSpace(recipient)
		return step, nil
	}
	step.MailType = rest
	return step, nil
}

func newHistoryCommand(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scenario runs, newest last",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := storage.NewJournal(a.cfg.StateDir)
			if err != nil {
				return err
			}
			records, err := journal.Load()
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), records, limit)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show, 0 for all")
	return cmd
}

func printHistory(out io.Writer, records []entities.RunRecord, limit int) {
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return
	}
	for _, record := range records {
		fmt.Fprintf(out, "%s  %s  %s\n", record.StartedAt.Format("2006-01-02 15:04:05"), record.ID, summary(record))
		if record.Error != "" {
			fmt.Fprintf(out, "    %s\n", record.Error)
		}
	}
}
