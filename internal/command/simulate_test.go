package command

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/journal"
	"github.com/joeycumines/lifesim/internal/testutil"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, ctx context.Context, cmd Command, args ...string) (string, error) {
	t.Helper()
	r := NewRegistry()
	r.Register(cmd)
	var stdout, stderr bytes.Buffer
	err := r.Run(ctx, append([]string{cmd.Name()}, args...), &stdout, &stderr)
	return stdout.String(), err
}

func TestSimulateCommand_PrintsDecisionsAndSummary(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, context.Background(), NewSimulateCommand(newTestEnv(t, "")), "-ticks", "2", "-interval", "1ms", "-trees")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.True(t, strings.HasPrefix(lines[0], "#1 day 1 Morning Bob: Harvest [ok]"), lines[0])
	require.Contains(t, out, "2 steps, now")
	require.Contains(t, out, "8 decisions")
	require.Contains(t, out, "Bob Farmer: 2 ticks")
	require.Contains(t, out, "Farmer Root [Selector]")
}

func TestSimulateCommand_JournalAndQuiet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.json")
	out, err := runCommand(t, context.Background(), NewSimulateCommand(newTestEnv(t, "journal.path "+path+"\n")), "-ticks", "3", "-interval", "1ms", "-quiet")
	require.NoError(t, err)
	require.NotContains(t, out, "Bob:")
	require.Contains(t, out, "journal saved to "+path)

	j, err := journal.Load(path)
	require.NoError(t, err)
	require.Len(t, j.Decisions.Records, 12)
	last := j.Events.Events[len(j.Events.Events)-1]
	require.Equal(t, "GameSaved", last.Subtype.String())
}

func TestSimulateCommand_BehaviorGates(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, context.Background(), NewSimulateCommand(newTestEnv(t, "")), "-ticks", "1", "-interval", "1ms", "-plain")
	require.NoError(t, err)
	require.Contains(t, out, "Cora: Talk [ok]")

	out, err = runCommand(t, context.Background(), NewSimulateCommand(newTestEnv(t, "[behavior]\nlonely false\n")), "-ticks", "1", "-interval", "1ms", "-plain")
	require.NoError(t, err)
	require.Contains(t, out, "Cora: None [ok]")

	_, err = runCommand(t, context.Background(), NewSimulateCommand(newTestEnv(t, "[behavior]\nhungry hunger <\n")), "-ticks", "1", "-interval", "1ms")
	require.ErrorContains(t, err, "gate hungry")
}

func TestSimulateCommand_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := runCommand(t, ctx, NewSimulateCommand(newTestEnv(t, "")), "-ticks", "0", "-interval", "1ms", "-quiet")
	require.NoError(t, err)
}

func TestPrintDecision(t *testing.T) {
	t.Parallel()

	r := &decision.Record{
		ID:        7,
		Day:       2,
		ActorName: "Ann",
		Options:   []decision.Option{{Action: decision.Work, Utility: 0.5}},
		Action:    decision.Work,
		Reasoning: "needs money",
	}
	var b bytes.Buffer
	require.NoError(t, printDecision(&b, r, false))
	require.Equal(t, "#7 day 2 Morning Ann: Work [pending] utility 0.50 - needs money\n", b.String())

	r.Outcome.Executed, r.Outcome.Succeeded = true, false
	b.Reset()
	require.NoError(t, printDecision(&b, r, false))
	require.Contains(t, b.String(), "[failed]")

	b.Reset()
	require.NoError(t, printDecision(&b, r, true))
	require.Contains(t, b.String(), "Ann")
	require.Contains(t, b.String(), "\x1b[")
}

func TestSimulateCommand_ServesWhileRunning(t *testing.T) {
	t.Parallel()

	addr := testutil.FreeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := runCommand(t, ctx, NewSimulateCommand(newTestEnv(t, "")), "-ticks", "0", "-interval", "5ms", "-quiet", "-serve", addr)
		done <- err
	}()

	var recent struct {
		Success bool               `json:"success"`
		Data    []*decision.Record `json:"data"`
	}
	require.NoError(t, testutil.Poll(ctx, 5*time.Second, 10*time.Millisecond, func() bool {
		code, err := testutil.GetJSON(ctx, "http://"+addr+"/api/decisions?limit=5", &recent)
		return err == nil && code == http.StatusOK && len(recent.Data) == 5
	}))
	require.True(t, recent.Success)
	require.Greater(t, recent.Data[0].ID, recent.Data[4].ID)

	cancel()
	require.NoError(t, <-done)
}
