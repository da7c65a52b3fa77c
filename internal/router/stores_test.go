package router_test

import (
	"context"
	"sort"
	"sync"

	"github.com/deppfellow/meetapp/internal/model/meetup"
	"github.com/deppfellow/meetapp/internal/model/user"
	"github.com/deppfellow/meetapp/internal/repository"
)

type memoryUsers struct {
	mu   sync.Mutex
	rows map[int64]user.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{rows: make(map[int64]user.User)}
}

func (m *memoryUsers) GetByID(_ context.Context, userID int64) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) Create(_ context.Context, u *user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[u.ID] = *u
	return u, nil
}

func (m *memoryUsers) Update(_ context.Context, u *user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	m.rows[u.ID] = *u
	return u, nil
}

type memoryMeetups struct {
	mu   sync.Mutex
	rows map[int64]meetup.Meetup
}

func newMemoryMeetups() *memoryMeetups {
	return &memoryMeetups{rows: make(map[int64]meetup.Meetup)}
}

func (m *memoryMeetups) GetByID(_ context.Context, meetupID int64) (*meetup.Meetup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[meetupID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (m *memoryMeetups) ListByOrganizer(_ context.Context, organizerID int64) ([]meetup.Meetup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []meetup.Meetup{}
	for _, row := range m.rows {
		if row.OrganizerID == organizerID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memoryMeetups) Create(_ context.Context, row *meetup.Meetup) (*meetup.Meetup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[row.ID] = *row
	return row, nil
}

func (m *memoryMeetups) Update(_ context.Context, row *meetup.Meetup) (*meetup.Meetup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[row.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	m.rows[row.ID] = *row
	return row, nil
}

func (m *memoryMeetups) Delete(_ context.Context, meetupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[meetupID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, meetupID)
	return nil
}
