package impl

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"

	"github.com/google/uuid"
)

// In-memory repository fakes. They implement just enough of the persistence
// contracts to drive the services through their real control flow, including
// the transaction callbacks.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.JoinedAt = now
	user.UpdatedAt = now
	copied := *user
	r.users[user.ID] = &copied

	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied

	return nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.users)
}

type memTodoRepo struct {
	mu    sync.Mutex
	todos map[uuid.UUID]*entity.Todo
	seq   int
}

func newMemTodoRepo() *memTodoRepo {
	return &memTodoRepo{todos: make(map[uuid.UUID]*entity.Todo)}
}

func (r *memTodoRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, ok := r.todos[id]
	if !ok {
		return nil, repository.ErrTodoNotFound
	}
	copied := *todo

	return &copied, nil
}

func (r *memTodoRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Todo
	for _, todo := range r.todos {
		if todo.OwnerID == ownerID {
			copied := *todo
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *memTodoRepo) Create(_ context.Context, todo *entity.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if todo.ID == uuid.Nil {
		todo.ID = uuid.New()
	}
	// Distinct timestamps keep the creation order observable in lists.
	r.seq++
	todo.CreatedAt = time.Unix(0, int64(r.seq)*int64(time.Millisecond))
	todo.UpdatedAt = todo.CreatedAt
	copied := *todo
	r.todos[todo.ID] = &copied

	return nil
}

func (r *memTodoRepo) Update(_ context.Context, todo *entity.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.todos[todo.ID]
	if !ok {
		return repository.ErrTodoNotFound
	}
	todo.CreatedAt = stored.CreatedAt
	todo.UpdatedAt = time.Now()
	copied := *todo
	r.todos[todo.ID] = &copied

	return nil
}

func (r *memTodoRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return repository.ErrTodoNotFound
	}
	delete(r.todos, id)

	return nil
}

// memTxManager runs the callback against the same repositories the services
// use outside of transactions. Rollback is not simulated; tests that care
// about atomicity assert on the observable aftermath instead.
type memTxManager struct {
	userRepo *memUserRepo
	todoRepo *memTodoRepo
}

func (m *memTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m)
}

func (m *memTxManager) UserRepo() repository.UserRepository { return m.userRepo }
func (m *memTxManager) TodoRepo() repository.TodoRepository { return m.todoRepo }

// memFileStore keeps blobs in a map and records every save and delete so
// tests can assert on cleanup behavior.
type memFileStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	seq     int
	deleted []string
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: make(map[string][]byte)}
}

func (s *memFileStore) Save(_ context.Context, originalFilename string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	path := fmt.Sprintf("blob-%d%s", s.seq, ext(originalFilename))
	s.files[path] = data

	return path, nil
}

func (s *memFileStore) Load(_ context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.files[path]
	if !ok {
		return nil, service.ErrFileNotFound
	}

	return data, nil
}

func (s *memFileStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.files, path)
	s.deleted = append(s.deleted, path)

	return nil
}

func (s *memFileStore) stored() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.files)
}

func ext(filename string) string {
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[i:]
		}
	}

	return ""
}
