package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/internal/repository"
	"github.com/noah-isme/tutoring-site/pkg/mail"
)

type memUserRepo struct {
	mu       sync.Mutex
	users    map[string]*models.User
	students map[string]*models.Student
	creates  int
	findErr  error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}, students: map[string]*models.Student{}}
}

func (m *memUserRepo) add(username string, role models.UserRole, hash string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: uuid.NewString(), Username: username, Role: role, PasswordHash: hash}
	m.users[u.ID] = u
	return u
}

func (m *memUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memUserRepo) CreateWithProfile(_ context.Context, user *models.User, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	student.ID = uuid.NewString()
	student.UserID = user.ID
	cp := *user
	m.users[user.ID] = &cp
	m.students[user.ID] = student
	m.creates++
	return nil
}

func (m *memUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = hash
	return nil
}

func (m *memUserRepo) UpdateRole(_ context.Context, id string, role models.UserRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Role = role
	return nil
}

func (m *memUserRepo) role(id string) models.UserRole {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id].Role
}

type memFileStore struct {
	files   map[string][]byte
	saveErr error
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: map[string][]byte{}}
}

func (s *memFileStore) SaveStream(name string, r io.Reader) (int64, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	if _, ok := s.files[name]; ok {
		return 0, fmt.Errorf("exists")
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return n, err
	}
	s.files[name] = buf.Bytes()
	return n, nil
}

func (s *memFileStore) Delete(name string) (bool, error) {
	if _, ok := s.files[name]; !ok {
		return false, nil
	}
	delete(s.files, name)
	return true, nil
}

type memNewsRepo struct {
	items     map[string]models.News
	createErr error
	lists     int
}

func newMemNewsRepo() *memNewsRepo {
	return &memNewsRepo{items: map[string]models.News{}}
}

func (r *memNewsRepo) List(_ context.Context) ([]models.News, error) {
	r.lists++
	out := make([]models.News, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memNewsRepo) FindByID(_ context.Context, id string) (*models.News, error) {
	n, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &n, nil
}

func (r *memNewsRepo) Create(_ context.Context, item *models.News) error {
	if r.createErr != nil {
		return r.createErr
	}
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now()
	r.items[item.ID] = *item
	return nil
}

func (r *memNewsRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

type recordingTransport struct {
	sent []mail.Message
	err  error
}

func (t *recordingTransport) Send(_ context.Context, msg mail.Message) error {
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, msg)
	return nil
}
