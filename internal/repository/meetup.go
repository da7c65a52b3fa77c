package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/meetapp/internal/model/meetup"
	"github.com/jackc/pgx/v5"
)

type MeetupRepository struct {
	db DBTX
}

func NewMeetupRepository(db DBTX) *MeetupRepository {
	return &MeetupRepository{db: db}
}

const meetupColumns = `id, title, description, location, date, banner, organizer_id, created_at, updated_at`

func (r *MeetupRepository) GetByID(ctx context.Context, meetupID int64) (*meetup.Meetup, error) {
	stmt := `SELECT ` + meetupColumns + ` FROM meetups WHERE id = @id`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"id": meetupID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get meetup by id query for meetup_id=%d: %w", meetupID, err)
	}

	m, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[meetup.Meetup])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:meetups for meetup_id=%d: %w", meetupID, notFound(err))
	}

	return m, nil
}

// ListByOrganizer returns the organizer's meetups ordered by date. The slice
// is empty, never nil, when there are none.
func (r *MeetupRepository) ListByOrganizer(ctx context.Context, organizerID int64) ([]meetup.Meetup, error) {
	stmt := `
		SELECT ` + meetupColumns + `
		FROM meetups
		WHERE organizer_id = @organizer_id
		ORDER BY date ASC, id ASC`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"organizer_id": organizerID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list meetups query for organizer_id=%d: %w", organizerID, err)
	}

	meetups, err := pgx.CollectRows(rows, pgx.RowToStructByName[meetup.Meetup])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:meetups for organizer_id=%d: %w", organizerID, err)
	}
	if meetups == nil {
		meetups = []meetup.Meetup{}
	}

	return meetups, nil
}

func (r *MeetupRepository) Create(ctx context.Context, m *meetup.Meetup) (*meetup.Meetup, error) {
	stmt := `
		INSERT INTO meetups (id, title, description, location, date, banner, organizer_id, created_at, updated_at)
		VALUES (@id, @title, @description, @location, @date, @banner, @organizer_id, @created_at, @updated_at)
		RETURNING ` + meetupColumns

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"id":           m.ID,
		"title":        m.Title,
		"description":  m.Description,
		"location":     m.Location,
		"date":         m.Date,
		"banner":       m.Banner,
		"organizer_id": m.OrganizerID,
		"created_at":   m.CreatedAt,
		"updated_at":   m.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create meetup query: %w", err)
	}

	created, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[meetup.Meetup])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:meetups after insert: %w", err)
	}

	return created, nil
}

// Update writes every mutable column of m. The organizer never changes.
func (r *MeetupRepository) Update(ctx context.Context, m *meetup.Meetup) (*meetup.Meetup, error) {
	stmt := `
		UPDATE meetups
		SET title = @title,
			description = @description,
			location = @location,
			date = @date,
			banner = @banner,
			updated_at = @updated_at
		WHERE id = @id
		RETURNING ` + meetupColumns

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"id":          m.ID,
		"title":       m.Title,
		"description": m.Description,
		"location":    m.Location,
		"date":        m.Date,
		"banner":      m.Banner,
		"updated_at":  m.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update meetup query for meetup_id=%d: %w", m.ID, err)
	}

	updated, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[meetup.Meetup])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:meetups for meetup_id=%d: %w", m.ID, notFound(err))
	}

	return updated, nil
}

func (r *MeetupRepository) Delete(ctx context.Context, meetupID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM meetups WHERE id = @id`, pgx.NamedArgs{"id": meetupID})
	if err != nil {
		return fmt.Errorf("failed to execute delete meetup query for meetup_id=%d: %w", meetupID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table:meetups: meetup_id=%d: %w", meetupID, ErrNotFound)
	}

	return nil
}
