package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/meetapp/internal/gate"
	"github.com/deppfellow/meetapp/internal/model"
	"github.com/deppfellow/meetapp/internal/model/meetup"
	"github.com/rs/zerolog"
)

const (
	MsgMeetupNotFound     = "Meetup not found"
	MsgPastDate           = "Past dates are not permitted"
	MsgNoUpdatePermission = "You don't have permission to update this meetup"
	MsgNoDeletePermission = "You don't have permission to delete this meetup"
	MsgNoViewPermission   = "You don't have permission to view this meetup"
)

type (
	createMeetupSubject = gate.Subject[*meetup.CreateMeetupPayload, *meetup.Meetup]
	updateMeetupSubject = gate.Subject[*meetup.UpdateMeetupPayload, *meetup.Meetup]
	meetupIDSubject     = gate.Subject[*meetup.MeetupIDPayload, *meetup.Meetup]
)

type MeetupService struct {
	meetups MeetupStore
	opts    Options

	listGate   *gate.Gate[*meetup.ListMeetupsPayload, *meetup.Meetup]
	createGate *gate.Gate[*meetup.CreateMeetupPayload, *meetup.Meetup]
	updateGate *gate.Gate[*meetup.UpdateMeetupPayload, *meetup.Meetup]
	deleteGate *gate.Gate[*meetup.MeetupIDPayload, *meetup.Meetup]
	showGate   *gate.Gate[*meetup.MeetupIDPayload, *meetup.Meetup]
}

func NewMeetupService(meetups MeetupStore, opts Options) *MeetupService {
	s := &MeetupService{
		meetups: meetups,
		opts:    opts.withDefaults(),
	}

	statuses := gate.Statuses(s.opts.Mode)

	s.listGate = gate.New[*meetup.ListMeetupsPayload, *meetup.Meetup]("meetup.list", statuses)

	s.createGate = gate.New[*meetup.CreateMeetupPayload, *meetup.Meetup]("meetup.create", statuses).
		Rule("date-not-past", gate.KindBusinessRule, MsgPastDate, s.createDateNotPast)

	// An elapsed meetup is frozen whatever the update carries, so the rule
	// looks at the stored date only.
	s.updateGate = gate.New[*meetup.UpdateMeetupPayload, *meetup.Meetup]("meetup.update", statuses).
		Load(func(ctx context.Context, subj *updateMeetupSubject) (*meetup.Meetup, bool, error) {
			return found(s.meetups.GetByID(ctx, subj.Payload.ID))
		}).
		Rule("meetup-exists", gate.KindNotFound, MsgMeetupNotFound, meetupExists[*meetup.UpdateMeetupPayload]).
		Rule("organizer-only", gate.KindForbidden, MsgNoUpdatePermission, organizerOnly[*meetup.UpdateMeetupPayload]).
		Rule("meetup-not-elapsed", gate.KindBusinessRule, MsgPastDate, s.storedDateNotPast)

	// Elapsed meetups can still be deleted.
	s.deleteGate = gate.New[*meetup.MeetupIDPayload, *meetup.Meetup]("meetup.delete", statuses).
		Load(s.loadByID).
		Rule("meetup-exists", gate.KindNotFound, MsgMeetupNotFound, meetupExists[*meetup.MeetupIDPayload]).
		Rule("organizer-only", gate.KindForbidden, MsgNoDeletePermission, organizerOnly[*meetup.MeetupIDPayload])

	s.showGate = gate.New[*meetup.MeetupIDPayload, *meetup.Meetup]("meetup.show", statuses).
		Load(s.loadByID).
		Rule("meetup-exists", gate.KindNotFound, MsgMeetupNotFound, meetupExists[*meetup.MeetupIDPayload]).
		Rule("organizer-only", gate.KindForbidden, MsgNoViewPermission, organizerOnly[*meetup.MeetupIDPayload])

	return s
}

// List returns the actor's meetups ordered by date; no meetups is an empty list.
func (s *MeetupService) List(ctx context.Context, actorID int64, payload *meetup.ListMeetupsPayload) ([]meetup.Meetup, error) {
	if _, err := s.listGate.Evaluate(ctx, actorID, payload); err != nil {
		return nil, err
	}

	meetups, err := s.meetups.ListByOrganizer(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("listing meetups for organizer %d: %w", actorID, err)
	}
	if meetups == nil {
		meetups = []meetup.Meetup{}
	}

	return meetups, nil
}

func (s *MeetupService) Show(ctx context.Context, actorID int64, payload *meetup.MeetupIDPayload) (*meetup.Meetup, error) {
	subject, err := s.showGate.Evaluate(ctx, actorID, payload)
	if err != nil {
		return nil, err
	}
	return subject.Current, nil
}

// Create schedules a meetup organized by the actor.
func (s *MeetupService) Create(ctx context.Context, actorID int64, payload *meetup.CreateMeetupPayload) (*meetup.Meetup, error) {
	if _, err := s.createGate.Evaluate(ctx, actorID, payload); err != nil {
		return nil, err
	}

	now := s.opts.Now()
	m := &meetup.Meetup{
		Base: model.Base{
			ID:        s.opts.NewID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       payload.Title,
		Description: payload.Description,
		Location:    payload.Location,
		Date:        payload.Date,
		Banner:      payload.Banner,
		OrganizerID: actorID,
	}

	created, err := s.meetups.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("creating meetup: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Int64("meetup_id", created.ID).
		Time("date", created.Date).
		Msg("meetup created")

	return created, nil
}

// Update applies the supplied fields to one of the actor's upcoming meetups.
func (s *MeetupService) Update(ctx context.Context, actorID int64, payload *meetup.UpdateMeetupPayload) (*meetup.Meetup, error) {
	subject, err := s.updateGate.Evaluate(ctx, actorID, payload)
	if err != nil {
		return nil, err
	}

	m := *subject.Current
	if payload.Title != nil {
		m.Title = *payload.Title
	}
	if payload.Description != nil {
		m.Description = *payload.Description
	}
	if payload.Location != nil {
		m.Location = *payload.Location
	}
	if payload.Date != nil {
		m.Date = *payload.Date
	}
	if payload.Banner != nil {
		m.Banner = payload.Banner
	}
	m.UpdatedAt = s.opts.Now()

	updated, err := s.meetups.Update(ctx, &m)
	if err != nil {
		return nil, fmt.Errorf("updating meetup %d: %w", payload.ID, err)
	}

	zerolog.Ctx(ctx).Info().Int64("meetup_id", updated.ID).Msg("meetup updated")

	return updated, nil
}

// Delete removes one of the actor's meetups, elapsed or not.
func (s *MeetupService) Delete(ctx context.Context, actorID int64, payload *meetup.MeetupIDPayload) (*meetup.DeleteResult, error) {
	if _, err := s.deleteGate.Evaluate(ctx, actorID, payload); err != nil {
		return nil, err
	}

	if err := s.meetups.Delete(ctx, payload.ID); err != nil {
		return nil, fmt.Errorf("deleting meetup %d: %w", payload.ID, err)
	}

	zerolog.Ctx(ctx).Info().Int64("meetup_id", payload.ID).Msg("meetup deleted")

	return &meetup.DeleteResult{
		Message: fmt.Sprintf("Meetup: %d successfully deleted", payload.ID),
	}, nil
}

func (s *MeetupService) loadByID(ctx context.Context, subj *meetupIDSubject) (*meetup.Meetup, bool, error) {
	return found(s.meetups.GetByID(ctx, subj.Payload.ID))
}

func (s *MeetupService) createDateNotPast(_ context.Context, subj *createMeetupSubject) (bool, error) {
	return !meetup.Elapsed(subj.Payload.Date, s.opts.Now()), nil
}

func (s *MeetupService) storedDateNotPast(_ context.Context, subj *updateMeetupSubject) (bool, error) {
	return !meetup.Elapsed(subj.Current.Date, s.opts.Now()), nil
}

func meetupExists[P any](_ context.Context, subj *gate.Subject[P, *meetup.Meetup]) (bool, error) {
	return subj.Found, nil
}

func organizerOnly[P any](_ context.Context, subj *gate.Subject[P, *meetup.Meetup]) (bool, error) {
	return subj.Current.OrganizerID == subj.ActorID, nil
}
