package terminal

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"ui_workflows/application/steps"
	"ui_workflows/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStepLine(t *testing.T) {
	tests := []struct {
		line string
		want steps.Step
	}{
		{"sends notification Default Email", steps.Step{Kind: steps.StepSendNotification, MailType: "Default Email"}},
		{"sees notification in feed Example: HTML Email", steps.Step{Kind: steps.StepSeeNotificationFeed, MailType: "Example: HTML Email"}},
		{"sends notification to QA HTML Email -> qa@octaipipe.ai", steps.Step{Kind: steps.StepSendNotificationTo, MailType: "QA HTML Email", Recipient: "qa@octaipipe.ai"}},
		{
			"{step: sends notification, mail_type: Default Email, data: [{field: asset, value: pump}]}",
			steps.Step{Kind: steps.StepSendNotification, MailType: "Default Email", Data: entities.DataTable{{Field: "asset", Value: "pump"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseStepLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStepLineErrors(t *testing.T) {
	_, err := parseStepLine("dances a jig")
	assert.ErrorContains(t, err, "unknown step")

	_, err = parseStepLine("sends notification to QA HTML Email")
	assert.ErrorContains(t, err, "->")

	_, err = parseStepLine("{step: [")
	assert.ErrorContains(t, err, "invalid step")
}

func TestReplRunsStepsUntilQuit(t *testing.T) {
	h := newHarness(t, "http://platform.test")
	in := strings.NewReader("help\n\nwaltzes\nsees notification in feed Default Email\nquit\nsends notification Default Email\n")
	var out bytes.Buffer

	require.NoError(t, repl(context.Background(), in, &out, h.runner))

	text := out.String()
	assert.Contains(t, text, "sees notification in feed <mail type>")
	assert.Contains(t, text, `unknown step "waltzes"`)
	assert.Contains(t, text, `FAILED    sees notification in feed "Default Email"`)
	assert.Contains(t, text, "Bye!")

	history, err := h.journal.Load()
	require.NoError(t, err)
	assert.Len(t, history, 1, "nothing after quit is performed")
}

func TestReplStopsAtEndOfInput(t *testing.T) {
	h := newHarness(t, "")
	var out bytes.Buffer

	require.NoError(t, repl(context.Background(), strings.NewReader("sends notification to Default Email -> qa@octaipipe.ai"), &out, h.runner))
	assert.Contains(t, out.String(), "FAILED")
}

func TestRunAll(t *testing.T) {
	h := newHarness(t, "http://platform.test")
	var out bytes.Buffer

	scenarios := []steps.Scenario{
		{Name: "opens the platform"},
		{Name: "unknown step", Steps: []steps.Step{{Kind: "dances"}}},
	}
	err := runAll(context.Background(), &out, h.runner, scenarios)
	assert.EqualError(t, err, "1 of 2 scenarios failed")
	assert.Contains(t, out.String(), "PASSED    opens the platform")
	assert.Contains(t, out.String(), `unsupported step "dances"`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out.Reset()
	err = runAll(ctx, &out, h.runner, scenarios)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "skipped 2 scenarios")
}

func TestPrintHistory(t *testing.T) {
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	records := []entities.RunRecord{
		{ID: "a", Scenario: "first", Actor: "Nadia", Status: entities.RunStatusPassed, StartedAt: start, FinishedAt: start.Add(time.Second)},
		{ID: "b", Scenario: "second", Actor: "Nadia", Status: entities.RunStatusFailed, StartedAt: start, FinishedAt: start.Add(2 * time.Second), Error: "boom"},
	}

	var out bytes.Buffer
	printHistory(&out, records, 1)
	assert.NotContains(t, out.String(), "first")
	assert.Contains(t, out.String(), "2026-10-18 09:00:00  b  FAILED    second (Nadia, 2s)")
	assert.Contains(t, out.String(), "    boom")

	out.Reset()
	printHistory(&out, nil, 0)
	assert.Equal(t, "no runs recorded\n", out.String())
}

func TestRootCommandWiresSubcommands(t *testing.T) {
	root := NewRootCommand()
	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["interactive"])
	assert.True(t, names["history"])
}

func TestHistoryCommand(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("STATE_DIR", stateDir)

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"history", "--env-file", ""})

	require.NoError(t, root.Execute())
	assert.Equal(t, "no runs recorded\n", out.String())
}
