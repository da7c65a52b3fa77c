// Package service holds the user and meetup policies. Each write operation
// runs its payload through a gate (schema, loader, ordered rules) before
// anything is persisted; the stores and helpers it needs are the interfaces
// declared here.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/deppfellow/meetapp/internal/gate"
	"github.com/deppfellow/meetapp/internal/lib/id"
	"github.com/deppfellow/meetapp/internal/model/meetup"
	"github.com/deppfellow/meetapp/internal/model/user"
	"github.com/deppfellow/meetapp/internal/repository"
)

// UserStore returns repository.ErrNotFound when no user matches.
type UserStore interface {
	GetByID(ctx context.Context, userID int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) (*user.User, error)
	Update(ctx context.Context, u *user.User) (*user.User, error)
}

// MeetupStore returns repository.ErrNotFound when no meetup matches.
type MeetupStore interface {
	GetByID(ctx context.Context, meetupID int64) (*meetup.Meetup, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]meetup.Meetup, error)
	Create(ctx context.Context, m *meetup.Meetup) (*meetup.Meetup, error)
	Update(ctx context.Context, m *meetup.Meetup) (*meetup.Meetup, error)
	Delete(ctx context.Context, meetupID int64) error
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) (bool, error)
}

// Notifier schedules messages to users. Failures never fail the request.
type Notifier interface {
	EnqueueWelcomeEmail(ctx context.Context, to, name string) error
}

type Clock func() time.Time

// Options tune how the policies answer.
type Options struct {
	// Mode picks the status table rejections are served with.
	Mode gate.StatusMode
	// Now defaults to time.Now.
	Now Clock
	// NewID defaults to id.New.
	NewID func() int64
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = gate.ModeLegacy
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = id.New
	}
	return o
}

// found turns a store lookup into the (record, found, err) triple gate
// loaders return.
func found[T any](record *T, err error) (*T, bool, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}
