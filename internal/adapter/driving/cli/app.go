package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/ericfisherdev/credstash/internal/adapter/driven/crypto"
	"github.com/ericfisherdev/credstash/internal/adapter/driven/filestore"
	"github.com/ericfisherdev/credstash/internal/application"
	"github.com/ericfisherdev/credstash/internal/config"
	"github.com/ericfisherdev/credstash/internal/domain/model"
	"github.com/ericfisherdev/credstash/internal/domain/port/driven"
)

// App holds the single store instance and its collaborators for the
// lifetime of one CLI invocation. Every command handler receives it by
// reference.
type App struct {
	Config    *config.Config
	StoreFile *application.Envelope
	Store     *application.CredentialStore
	Gate      *application.LoginGate
	Audit     driven.AuditLog
	Prompter  Prompter
	SessionID string
	Logger    *slog.Logger
}

// NewApp wires the store and login gate for cfg. audit may be nil, in which
// case no journal is kept.
func NewApp(cfg *config.Config, audit driven.AuditLog, prompter Prompter, logger *slog.Logger) *App {
	codec := crypto.NewCodec()
	storeFile := application.NewEnvelope(codec, filestore.NewPair(cfg.KeyPath, cfg.DataPath))
	loginFile := application.NewEnvelope(codec, filestore.NewPair(cfg.LoginKeyPath, cfg.LoginPath))

	return &App{
		Config:    cfg,
		StoreFile: storeFile,
		Store:     application.NewCredentialStore(storeFile),
		Gate:      application.NewLoginGate(loginFile),
		Audit:     audit,
		Prompter:  prompter,
		SessionID: uuid.NewString(),
		Logger:    logger,
	}
}

// Unlock runs the login gate and loads the store.
func (a *App) Unlock(ctx context.Context) error {
	secret, err := a.Prompter.Secret(ctx, "Password: ")
	if err != nil {
		return WrapExitError(ExitCommandError, "read password", err)
	}
	if err := a.Gate.Verify(secret); err != nil {
		if errors.Is(err, model.ErrStorageNotFound) {
			return WrapExitError(ExitCommandError, "store is not initialized, run \"credstash init\"", err)
		}
		return classify("unlock", err)
	}
	if err := a.Store.Load(); err != nil {
		return classify("load store", err)
	}
	a.Logger.Debug("store loaded", "path", a.Config.DataPath, "count", a.Store.Len())
	return nil
}

// Save persists the store.
func (a *App) Save() error {
	if err := a.Store.Save(); err != nil {
		return classify("save store", err)
	}
	a.Logger.Debug("store saved", "path", a.Config.DataPath, "count", a.Store.Len())
	return nil
}

// Record appends an audit event. A journal failure is logged, not returned:
// the store change it describes has already been saved.
func (a *App) Record(ctx context.Context, action model.AuditAction, recordID *int, detail string) {
	if a.Audit == nil {
		return
	}
	err := a.Audit.Append(ctx, model.AuditEvent{
		SessionID: a.SessionID,
		Action:    action,
		RecordID:  recordID,
		Detail:    detail,
	})
	if err != nil {
		a.Logger.Warn("audit append failed", "action", action, "error", err)
	}
}

// classify maps domain errors to exit codes.
func classify(op string, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrStorageNotFound):
		return WrapExitError(ExitCommandError, op, err)
	default:
		return WrapExitError(ExitFailure, op, err)
	}
}

func intPtr(v int) *int { return &v }

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q", s))
	}
	return id, nil
}
