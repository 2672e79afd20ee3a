package listview

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"usersadmin/internal/client"
	"usersadmin/internal/domain"
	"usersadmin/internal/domain/models"
)

// fakeBackend is an in-memory users API ordered newest first.
type fakeBackend struct {
	mu    sync.Mutex
	users []models.User
	clock time.Time
	calls []domain.ListRequest
	seq   int
}

func newFakeBackend(n int) *fakeBackend {
	b := &fakeBackend{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	for i := 0; i < n; i++ {
		b.add(fmt.Sprintf("seed %02d", i))
	}
	return b
}

func (b *fakeBackend) add(name string) models.User {
	b.seq++
	b.clock = b.clock.Add(time.Second)
	u := models.User{
		ID:        fmt.Sprintf("usr_%04d", b.seq),
		Name:      name,
		Email:     fmt.Sprintf("u%04d@example.com", b.seq),
		Role:      models.RoleUser,
		Status:    models.StatusActive,
		CreatedAt: b.clock,
		UpdatedAt: b.clock,
	}
	b.users = append(b.users, u)
	return u
}

func (b *fakeBackend) ListUsers(_ context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, req)

	all := append([]models.User(nil), b.users...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	page := req.PageRequest()
	items := []models.User{}
	if start := page.Skip(); start < len(all) {
		end := start + page.PageSize
		if end > len(all) {
			end = len(all)
		}
		items = all[start:end]
	}
	return domain.ListResponse{
		Items:      items,
		TotalCount: len(all),
		TotalPages: domain.TotalPages(len(all), page.PageSize),
	}, nil
}

func (b *fakeBackend) CreateUser(_ context.Context, req client.CreateUserRequest) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Email == req.Email {
			return models.User{}, domain.ValidationError{Field: "email", Code: domain.CodeDuplicateEmail, Msg: "email is already registered"}
		}
	}
	u := b.add(req.Name)
	if req.Email != "" {
		b.users[len(b.users)-1].Email = req.Email
		u.Email = req.Email
	}
	return u, nil
}

func (b *fakeBackend) UpdateUser(_ context.Context, id string, req client.UpdateUserRequest) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.users {
		if b.users[i].ID == id {
			if req.Name != nil {
				b.users[i].Name = *req.Name
			}
			return b.users[i], nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user", ID: id}
}

func (b *fakeBackend) DeleteUser(_ context.Context, id string) (client.DeleteUserResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, u := range b.users {
		if u.ID == id {
			b.users = append(b.users[:i], b.users[i+1:]...)
			return client.DeleteUserResponse{Deleted: true, Item: u}, nil
		}
	}
	return client.DeleteUserResponse{}, domain.NotFoundError{Resource: "user", ID: id}
}

func (b *fakeBackend) lastCall() domain.ListRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[len(b.calls)-1]
}

func (b *fakeBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

type recordingNotifier struct {
	successes []string
	errors    []error
	fields    map[string]string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(err error)    { n.errors = append(n.errors, err) }
func (n *recordingNotifier) FieldError(field, msg string) {
	if n.fields == nil {
		n.fields = map[string]string{}
	}
	n.fields[field] = msg
}
