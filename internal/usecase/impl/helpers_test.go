package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskhub/config"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"
	"taskhub/internal/errors"
	"taskhub/internal/infra/auth"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHasher() service.PasswordHasher {
	return auth.NewBcryptHasherWithCost(bcrypt.MinCost)
}

func newTestTokenService() service.TokenService {
	cfg := &config.Config{}
	cfg.SecretKey.Signing = "test_signing_secret_very_long_for_testing"
	cfg.Auth = &config.AuthConfig{AccessTokenTTL: 30 * time.Minute}

	return auth.NewJWTService(auth.Params{Config: cfg, Logger: newDiscardLogger()})
}

// memUserRepo is an in-memory UserRepository double. Uniqueness is enforced
// the same way the real store does it, so registration races surface as the
// duplicate domain error.
type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*entity.User

	failWith error // when set, every call fails with this error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: make(map[string]*entity.User)}
}

func (m *memUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	user, ok := m.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (m *memUserRepo) Create(_ context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}

	if _, ok := m.users[user.Username]; ok {
		return errors.WithStack(domainerrors.ErrDuplicateUsername)
	}

	user.ID = m.nextID
	m.nextID++
	copied := *user
	m.users[user.Username] = &copied

	return nil
}

// memTaskRepo is an in-memory TaskRepository double.
type memTaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*entity.Task

	failWith error
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{nextID: 1, tasks: make(map[int64]*entity.Task)}
}

func (m *memTaskRepo) Create(_ context.Context, task *entity.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}

	task.ID = m.nextID
	m.nextID++
	copied := *task
	m.tasks[task.ID] = &copied

	return nil
}

func (m *memTaskRepo) FindByID(_ context.Context, id int64) (*entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	task, ok := m.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	copied := *task

	return &copied, nil
}

func (m *memTaskRepo) FindByOwner(_ context.Context, owner string) ([]*entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	var out []*entity.Task
	for id := int64(1); id < m.nextID; id++ {
		if task, ok := m.tasks[id]; ok && task.Owner == owner {
			copied := *task
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (m *memTaskRepo) Update(_ context.Context, task *entity.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}

	if _, ok := m.tasks[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	copied := *task
	m.tasks[task.ID] = &copied

	return nil
}

func (m *memTaskRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}

	if _, ok := m.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(m.tasks, id)

	return nil
}
