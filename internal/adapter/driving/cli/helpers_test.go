package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/credstash/internal/config"
	"github.com/ericfisherdev/credstash/internal/domain/model"
)

const testSecret = "correct horse"

// scriptedPrompter answers prompts from a queue.
type scriptedPrompter struct {
	answers []string
	prompts []string
}

func (p *scriptedPrompter) Secret(_ context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) queue(answers ...string) {
	p.answers = append(p.answers, answers...)
}

// memAudit is an in-memory AuditLog.
type memAudit struct {
	events []model.AuditEvent
	err    error
}

func (m *memAudit) Append(_ context.Context, event model.AuditEvent) error {
	if m.err != nil {
		return m.err
	}
	event.ID = int64(len(m.events) + 1)
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	m.events = append(m.events, event)
	return nil
}

func (m *memAudit) Recent(_ context.Context, limit int) ([]model.AuditEvent, error) {
	out := slices.Clone(m.events)
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memAudit) Purge(_ context.Context, before time.Time) (int64, error) {
	kept := m.events[:0]
	for _, e := range m.events {
		if !e.CreatedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	n := int64(len(m.events) - len(kept))
	m.events = kept
	return n, nil
}

func (m *memAudit) actions() []model.AuditAction {
	out := make([]model.AuditAction, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Action)
	}
	return out
}

type testEnv struct {
	app      *App
	prompter *scriptedPrompter
	audit    *memAudit
	dir      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		DataDir:         dir,
		DataPath:        filepath.Join(dir, "database.dat"),
		KeyPath:         filepath.Join(dir, "key.dat"),
		LoginPath:       filepath.Join(dir, "login.dat"),
		LoginKeyPath:    filepath.Join(dir, "login_key.dat"),
		AuditDBPath:     filepath.Join(dir, "audit.db"),
		LockPath:        filepath.Join(dir, "database.dat.lock"),
		SearchThreshold: 0.8,
		LogLevel:        slog.LevelWarn,
		AuditRetention:  time.Hour,
	}
	prompter := &scriptedPrompter{}
	audit := &memAudit{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		app:      NewApp(cfg, audit, prompter, logger),
		prompter: prompter,
		audit:    audit,
		dir:      dir,
	}
}

// execute runs one command line against the environment.
func (e *testEnv) execute(args ...string) (string, error) {
	cmd := NewRootCommand(e.app, nil)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// unlocked runs a command that passes the login gate with testSecret.
func (e *testEnv) unlocked(t *testing.T, args ...string) string {
	t.Helper()
	e.prompter.queue(testSecret)
	out, err := e.execute(args...)
	require.NoError(t, err, "credstash %v", args)
	return out
}

func (e *testEnv) initStore(t *testing.T) {
	t.Helper()
	e.prompter.queue(testSecret, testSecret)
	_, err := e.execute("init")
	require.NoError(t, err)
}

// decodeData unpacks the data member of a JSON CLIResponse.
func decodeData[T any](t *testing.T, out string) T {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	require.Equal(t, "ok", resp.Status)

	var data T
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data
}
