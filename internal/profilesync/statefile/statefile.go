// statefile хранит id активного профиля в локальном YAML-файле.
//
// Запись асинхронная и best-effort: TrySave не блокирует вызывающего,
// из нескольких быстрых сохранений на диск попадает последнее.
package statefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// State - содержимое файла состояния.
type State struct {
	ActiveID  string    `yaml:"active_id"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// Store реализует profilesync.ActivePersister и profilesync.ActiveLoader.
type Store struct {
	path string
	log  *slog.Logger

	mu     sync.Mutex
	closed bool
	queue  chan string
	done   chan struct{}
}

// Open создаёт хранилище по пути path и запускает фоновую запись.
// Сам файл может не существовать.
func Open(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}

	s := &Store{
		path:  path,
		log:   log.With(slog.String("state_file", path)),
		queue: make(chan string, 1),
		done:  make(chan struct{}),
	}

	go s.run()

	return s
}

// Path возвращает путь к файлу.
func (s *Store) Path() string {
	return s.path
}

// TrySave ставит id в очередь на запись. Не блокируется; более старое
// значение, ещё не записанное на диск, вытесняется.
func (s *Store) TrySave(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	for {
		select {
		case s.queue <- id:
			return
		default:
		}

		select {
		case <-s.queue:
		default:
		}
	}
}

// Load читает сохранённый id. Отсутствующий файл -> "".
func (s *Store) Load(ctx context.Context) (string, error) {
	const op = "statefile/Load"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	st, err := Read(s.path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return st.ActiveID, nil
}

// Close дожидается записи последнего значения и останавливает фон.
// Повторный вызов безопасен.
func (s *Store) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	<-s.done
}

func (s *Store) run() {
	defer close(s.done)

	for id := range s.queue {
		if err := Write(s.path, State{ActiveID: id, UpdatedAt: time.Now().UTC()}); err != nil {
			s.log.Warn("state_write_failed", slog.String("err", err.Error()))
			continue
		}

		s.log.Debug("state_saved", slog.String("active_id", id))
	}
}

// Read читает файл состояния. Отсутствующий файл -> пустое состояние.
func Read(path string) (State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return st, nil
}

// Write атомарно заменяет файл состояния (через временный файл и rename).
func Write(path string, st State) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".state-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
