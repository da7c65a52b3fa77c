package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/deppfellow/meetapp/internal/gate"
	"github.com/deppfellow/meetapp/internal/model"
	"github.com/deppfellow/meetapp/internal/model/user"
	"github.com/rs/zerolog"
)

const (
	MsgUserExists       = "User already exists"
	MsgEmailExists      = "Email already exists"
	MsgPasswordMismatch = "Password does not match"
	MsgUserNotFound     = "User not found"
)

type (
	createUserSubject = gate.Subject[*user.CreateUserPayload, *user.User]
	updateUserSubject = gate.Subject[*user.UpdateUserPayload, *user.User]
)

type UserService struct {
	users    UserStore
	hasher   PasswordHasher
	notifier Notifier
	opts     Options

	createGate *gate.Gate[*user.CreateUserPayload, *user.User]
	updateGate *gate.Gate[*user.UpdateUserPayload, *user.User]
}

func NewUserService(users UserStore, hasher PasswordHasher, notifier Notifier, opts Options) *UserService {
	s := &UserService{
		users:    users,
		hasher:   hasher,
		notifier: notifier,
		opts:     opts.withDefaults(),
	}

	statuses := gate.Statuses(s.opts.Mode)

	s.createGate = gate.New[*user.CreateUserPayload, *user.User]("user.create", statuses).
		Rule("email-unique", gate.KindConflict, MsgUserExists, s.emailUnique)

	// Profile updates have always answered schema failures with 401.
	updateStatuses := statuses
	if s.opts.Mode == gate.ModeLegacy {
		updateStatuses = statuses.With(gate.KindValidation, http.StatusUnauthorized)
	}

	s.updateGate = gate.New[*user.UpdateUserPayload, *user.User]("user.update", updateStatuses).
		Load(s.loadActor).
		Rule("account-exists", gate.KindNotFound, MsgUserNotFound, accountExists).
		Rule("email-available", gate.KindConflict, MsgEmailExists, s.emailAvailable).
		Rule("old-password-matches", gate.KindUnauthorized, MsgPasswordMismatch, s.oldPasswordMatches)

	return s
}

// Create signs a new user up and schedules the welcome email.
func (s *UserService) Create(ctx context.Context, payload *user.CreateUserPayload) (*user.User, error) {
	if _, err := s.createGate.Evaluate(ctx, 0, payload); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(payload.Password)
	if err != nil {
		return nil, err
	}

	now := s.opts.Now()
	u := &user.User{
		Base: model.Base{
			ID:        s.opts.NewID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: hash,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().
		Int64("user_id", created.ID).
		Msg("user created")

	if s.notifier != nil {
		if err := s.notifier.EnqueueWelcomeEmail(ctx, created.Email, created.Name); err != nil {
			logger.Warn().Err(err).Int64("user_id", created.ID).Msg("could not enqueue welcome email")
		}
	}

	return created, nil
}

// Update changes the acting user's profile.
func (s *UserService) Update(ctx context.Context, actorID int64, payload *user.UpdateUserPayload) (*user.Summary, error) {
	subject, err := s.updateGate.Evaluate(ctx, actorID, payload)
	if err != nil {
		return nil, err
	}

	u := *subject.Current
	if payload.Name != nil {
		u.Name = *payload.Name
	}
	if payload.Email != nil {
		u.Email = *payload.Email
	}
	if payload.ChangesPassword() {
		hash, err := s.hasher.Hash(*payload.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = s.opts.Now()

	updated, err := s.users.Update(ctx, &u)
	if err != nil {
		return nil, fmt.Errorf("updating user %d: %w", actorID, err)
	}

	zerolog.Ctx(ctx).Info().
		Int64("user_id", updated.ID).
		Bool("password_changed", payload.ChangesPassword()).
		Msg("user updated")

	summary := updated.Summary()
	return &summary, nil
}

func (s *UserService) loadActor(ctx context.Context, subj *updateUserSubject) (*user.User, bool, error) {
	return found(s.users.GetByID(ctx, subj.ActorID))
}

func (s *UserService) emailUnique(ctx context.Context, subj *createUserSubject) (bool, error) {
	_, exists, err := found(s.users.GetByEmail(ctx, subj.Payload.Email))
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func accountExists(_ context.Context, subj *updateUserSubject) (bool, error) {
	return subj.Found, nil
}

func (s *UserService) emailAvailable(ctx context.Context, subj *updateUserSubject) (bool, error) {
	email := subj.Payload.Email
	if email == nil || *email == subj.Current.Email {
		return true, nil
	}

	other, exists, err := found(s.users.GetByEmail(ctx, *email))
	if err != nil {
		return false, err
	}
	return !exists || other.ID == subj.Current.ID, nil
}

func (s *UserService) oldPasswordMatches(_ context.Context, subj *updateUserSubject) (bool, error) {
	if !model.Present(subj.Payload.OldPassword) {
		return true, nil
	}
	return s.hasher.Verify(subj.Current.PasswordHash, *subj.Payload.OldPassword)
}
