package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/nfrund/flavorfusion/internal/app"
	"github.com/nfrund/flavorfusion/internal/attachment"
	"github.com/nfrund/flavorfusion/internal/config"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/nfrund/flavorfusion/internal/logging"
	"github.com/spf13/afero"
)

var errNotSignedIn = errors.New(`not signed in; run "flavorfusion login" first`)

// client is one terminal session: the core App plus the token file that
// carries the backend session between runs.
type client struct {
	*app.App
	env       *Env
	cfg       *config.Config
	gw        domain.Gateway
	tokenFile string
	logger    *slog.Logger
}

func openClient(ctx context.Context, env *Env) (*client, error) {
	cfg, err := env.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(env.Stderr, cfg.GetLogFormat(), cfg.GetLogLevel())

	backend, err := env.NewBackend(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure backend: %w", err)
	}
	gw, err := backend.Factory()
	if err != nil {
		return nil, err
	}

	c := &client{env: env, cfg: cfg, gw: gw, tokenFile: cfg.GetTokenFile(), logger: logger}
	token, err := c.readToken()
	if err != nil {
		return nil, err
	}
	if token != "" {
		gw.SetToken(token)
	}

	c.App = app.New(app.Dependencies{
		Gateway: gw,
		Encoder: attachment.New(attachment.WithMaxBytes(cfg.GetUploadMaxBytes()), attachment.WithLogger(logger)),
		Logger:  logger,
	}, app.Settings{
		DemoEmail:    cfg.GetDemoEmail(),
		DemoPassword: cfg.GetDemoPassword(),
		AdminURL:     cfg.GetAdminURL(),
	})
	c.Start(ctx)
	return c, nil
}

// signedIn returns the current user or errNotSignedIn.
func (c *client) signedIn() (*domain.User, error) {
	s := c.Session()
	if !s.Authenticated() {
		if !s.BackendReachable {
			return nil, domain.ErrNetwork
		}
		return nil, errNotSignedIn
	}
	return s.User, nil
}

func (c *client) readToken() (string, error) {
	data, err := afero.ReadFile(c.env.Fs, c.tokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// saveToken writes the gateway's current token, or removes the file when
// there is none.
func (c *client) saveToken() error {
	token := c.gw.Token()
	if token == "" {
		err := c.env.Fs.Remove(c.tokenFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove token file: %w", err)
		}
		return nil
	}
	if err := c.env.Fs.MkdirAll(filepath.Dir(c.tokenFile), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := afero.WriteFile(c.env.Fs, c.tokenFile, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// attach reads path into the form's attachment slot. A file that cannot be
// used is reported and skipped so the entry is still created.
func (c *client) attach(ctx context.Context, path string, slot interface {
	Attach(context.Context, attachment.Source) error
	Notice() string
}) {
	if path == "" {
		return
	}
	f, err := c.env.Fs.Open(path)
	if err != nil {
		fmt.Fprintf(c.env.Stderr, "warning: %v\n", err)
		return
	}
	defer f.Close()
	if err := slot.Attach(ctx, attachment.Source{Filename: filepath.Base(path), Reader: f}); err != nil {
		fmt.Fprintf(c.env.Stderr, "warning: %s\n", slot.Notice())
	}
}

// describe turns err into the message the web client would show.
func describe(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errNotSignedIn) {
		return err
	}
	var vErr *domain.ValidationError
	for _, known := range []error{
		domain.ErrInvalidCredentials, domain.ErrDuplicateAccount, domain.ErrNetwork,
		domain.ErrUnauthenticated, domain.ErrSubmitInFlight, domain.ErrNotPermitted,
	} {
		if errors.Is(err, known) {
			return errors.New(domain.UserMessage(err))
		}
	}
	if errors.As(err, &vErr) {
		return errors.New(domain.UserMessage(err))
	}
	return err
}
