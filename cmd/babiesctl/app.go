package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pribylovaa/go-baby-cry/internal/client"
	"github.com/pribylovaa/go-baby-cry/internal/profilesync"
	"github.com/pribylovaa/go-baby-cry/internal/profilesync/statefile"
)

const (
	envServer = "BABIES_SERVER"
	envOwner  = "BABIES_OWNER"

	defaultServer = "http://localhost:8085"
)

// app - значения persistent-флагов и потоки вывода.
type app struct {
	server    string
	owner     string
	statePath string
	timeout   time.Duration
	verbose   bool

	out    io.Writer
	errOut io.Writer
}

// session - собранный на одну команду стек синхронизации.
type session struct {
	coord  *profilesync.Coordinator
	remote *client.Client
	state  *statefile.Store
	owner  string
}

func (s *session) close() {
	s.state.Close()
}

// resolve заполняет незаданные флаги из окружения и значений по умолчанию.
func (a *app) resolve() error {
	if a.server == "" {
		a.server = os.Getenv(envServer)
	}
	if a.server == "" {
		a.server = defaultServer
	}

	if a.owner == "" {
		a.owner = os.Getenv(envOwner)
	}
	if a.owner == "" {
		return errors.New("owner is required (--owner or " + envOwner + ")")
	}

	if a.statePath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolve state path: %w", err)
		}
		a.statePath = filepath.Join(dir, "babiesctl", "state.yaml")
	}

	return nil
}

func (a *app) logger() *slog.Logger {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
}

// open поднимает кэш, восстанавливает активный профиль и делает Refresh.
func (a *app) open(ctx context.Context) (*session, error) {
	if err := a.resolve(); err != nil {
		return nil, err
	}

	log := a.logger()

	state := statefile.Open(a.statePath, log)
	cache := profilesync.NewCache(state, log)
	cache.Bootstrap(ctx, state)

	remote := client.New(a.server, client.WithLogger(log))
	coord := profilesync.NewCoordinator(cache, remote, a.owner,
		profilesync.WithLogger(log),
		profilesync.WithNotifier(profilesync.LogNotifier{Log: log}),
	)

	if err := coord.Refresh(ctx); err != nil {
		state.Close()
		return nil, err
	}

	return &session{coord: coord, remote: remote, state: state, owner: a.owner}, nil
}

// run выполняет fn в рамках сессии с таймаутом --timeout.
func (a *app) run(parent context.Context, fn func(ctx context.Context, s *session) error) error {
	ctx := parent
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, a.timeout)
		defer cancel()
	}

	s, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	return fn(ctx, s)
}

// babyOrActive - явный id профиля или активный.
func (s *session) babyOrActive(id string) (string, error) {
	if id != "" {
		return id, nil
	}

	active, ok := s.coord.Cache().Active()
	if !ok {
		return "", errors.New("no active baby: add one or pass --baby")
	}

	return active.ID, nil
}
