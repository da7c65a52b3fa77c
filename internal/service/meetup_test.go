package service_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deppfellow/meetapp/internal/gate"
	"github.com/deppfellow/meetapp/internal/model"
	"github.com/deppfellow/meetapp/internal/model/meetup"
	"github.com/deppfellow/meetapp/internal/service"
)

const (
	organizerID = int64(1)
	strangerID  = int64(2)
)

var _ = Describe("MeetupService", func() {
	var (
		ctx    context.Context
		store  *memoryMeetupStore
		now    time.Time
		nextID int64
		opts   service.Options
		svc    *service.MeetupService
	)

	seed := func(id int64, date time.Time, organizer int64) meetup.Meetup {
		return meetup.Meetup{
			Base:        model.Base{ID: id, CreatedAt: now, UpdatedAt: now},
			Title:       "Go meetup",
			Description: "Talks and pizza",
			Location:    "Lisbon",
			Date:        date,
			OrganizerID: organizer,
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
		nextID = 100
		store = newMemoryMeetupStore()
		opts = service.Options{
			Mode: gate.ModeLegacy,
			Now:  func() time.Time { return now },
			NewID: func() int64 {
				nextID++
				return nextID
			},
		}
	})

	JustBeforeEach(func() {
		svc = service.NewMeetupService(store, opts)
	})

	Describe("List", func() {
		It("returns only the actor's meetups ordered by date", func() {
			store = newMemoryMeetupStore(
				seed(1, now.Add(72*time.Hour), organizerID),
				seed(2, now.Add(24*time.Hour), organizerID),
				seed(3, now.Add(48*time.Hour), strangerID),
			)
			svc = service.NewMeetupService(store, opts)

			list, err := svc.List(ctx, organizerID, &meetup.ListMeetupsPayload{})

			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
			Expect(list[0].ID).To(Equal(int64(2)))
			Expect(list[1].ID).To(Equal(int64(1)))
		})

		It("returns an empty, non-nil list when the actor has none", func() {
			list, err := svc.List(ctx, organizerID, &meetup.ListMeetupsPayload{})

			Expect(err).NotTo(HaveOccurred())
			Expect(list).NotTo(BeNil())
			Expect(list).To(BeEmpty())
		})

		It("propagates store failures", func() {
			boom := errors.New("timeout")
			store.listErr = boom

			_, err := svc.List(ctx, organizerID, &meetup.ListMeetupsPayload{})
			expectFailure(err, boom)
		})
	})

	Describe("Create", func() {
		payload := func(date time.Time) *meetup.CreateMeetupPayload {
			return &meetup.CreateMeetupPayload{
				Title:       "Go meetup",
				Description: "Talks and pizza",
				Location:    "Lisbon",
				Date:        date,
			}
		}

		It("creates a meetup owned by the actor", func() {
			banner := "banners/go.png"
			p := payload(now.Add(24 * time.Hour))
			p.Banner = &banner

			created, err := svc.Create(ctx, organizerID, p)

			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal(int64(101)))
			Expect(created.OrganizerID).To(Equal(organizerID))
			Expect(created.Title).To(Equal("Go meetup"))
			Expect(*created.Banner).To(Equal(banner))
			Expect(store.meetups).To(HaveKey(int64(101)))
		})

		It("rejects a date in an earlier hour with 401", func() {
			_, err := svc.Create(ctx, organizerID, payload(now.Add(-2*time.Hour)))

			expectRejection(err, http.StatusUnauthorized, service.MsgPastDate)
			Expect(store.meetups).To(BeEmpty())
		})

		It("rejects a later minute of an hour that has already started", func() {
			_, err := svc.Create(ctx, organizerID, payload(now.Add(10*time.Minute)))

			expectRejection(err, http.StatusUnauthorized, service.MsgPastDate)
		})

		It("accepts the next hour boundary", func() {
			_, err := svc.Create(ctx, organizerID, payload(time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)))

			Expect(err).NotTo(HaveOccurred())
		})

		It("accepts a date at the current hour boundary when now is exactly on it", func() {
			now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

			_, err := svc.Create(ctx, organizerID, payload(now))

			Expect(err).NotTo(HaveOccurred())
		})

		It("evaluates the hour in the date's own zone", func() {
			india := time.FixedZone("IST", 5*60*60+30*60)
			// 18:15 IST is 12:45 UTC. Its local hour starts at 12:30 UTC, which is
			// not before now; truncating in UTC would give 12:00 and reject it.
			_, err := svc.Create(ctx, organizerID, payload(time.Date(2026, 3, 1, 18, 15, 0, 0, india)))

			Expect(err).NotTo(HaveOccurred())
		})

		It("uses 422 for past dates in conventional mode", func() {
			opts.Mode = gate.ModeConventional
			svc = service.NewMeetupService(store, opts)

			_, err := svc.Create(ctx, organizerID, payload(now.Add(-24*time.Hour)))

			expectRejection(err, http.StatusUnprocessableEntity, service.MsgPastDate)
		})

		It("rejects an incomplete payload with 400 before checking the date", func() {
			p := payload(now.Add(-24 * time.Hour))
			p.Title = ""

			_, err := svc.Create(ctx, organizerID, p)

			expectRejection(err, http.StatusBadRequest, "Validation fails")
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			store = newMemoryMeetupStore(
				seed(10, now.Add(24*time.Hour), organizerID),
				seed(11, now.Add(-24*time.Hour), organizerID),
			)
		})

		It("applies only the supplied fields", func() {
			updated, err := svc.Update(ctx, organizerID, &meetup.UpdateMeetupPayload{ID: 10, Title: str("Go meetup #2")})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Title).To(Equal("Go meetup #2"))
			Expect(updated.Location).To(Equal("Lisbon"))
			Expect(updated.OrganizerID).To(Equal(organizerID))
		})

		It("moves the date", func() {
			later := now.Add(96 * time.Hour)

			updated, err := svc.Update(ctx, organizerID, &meetup.UpdateMeetupPayload{ID: 10, Date: &later})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Date).To(Equal(later))
		})

		It("rejects an unknown meetup with 401", func() {
			_, err := svc.Update(ctx, organizerID, &meetup.UpdateMeetupPayload{ID: 999})

			expectRejection(err, http.StatusUnauthorized, service.MsgMeetupNotFound)
		})

		It("rejects a non-organizer with 401", func() {
			_, err := svc.Update(ctx, strangerID, &meetup.UpdateMeetupPayload{ID: 10, Title: str("mine now")})

			expectRejection(err, http.StatusUnauthorized, service.MsgNoUpdatePermission)
			Expect(store.meetups[10].Title).To(Equal("Go meetup"))
		})

		It("rejects an elapsed meetup even with a future date in the payload", func() {
			future := now.Add(240 * time.Hour)

			_, err := svc.Update(ctx, organizerID, &meetup.UpdateMeetupPayload{ID: 11, Date: &future})

			expectRejection(err, http.StatusUnauthorized, service.MsgPastDate)
		})

		It("accepts a past date in the payload for an upcoming meetup", func() {
			past := now.Add(-240 * time.Hour)

			updated, err := svc.Update(ctx, organizerID, &meetup.UpdateMeetupPayload{ID: 10, Date: &past})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Date).To(Equal(past))
		})

		It("uses 404 and 403 in conventional mode", func() {
			opts.Mode = gate.ModeConventional
			svc = service.NewMeetupService(store, opts)

			_, err := svc.Update(ctx, organizerID, &meetup.UpdateMeetupPayload{ID: 999})
			expectRejection(err, http.StatusNotFound, service.MsgMeetupNotFound)

			_, err = svc.Update(ctx, strangerID, &meetup.UpdateMeetupPayload{ID: 10})
			expectRejection(err, http.StatusForbidden, service.MsgNoUpdatePermission)
		})

		It("validates before the ownership check", func() {
			tooLong := string(make([]byte, 300))

			_, err := svc.Update(ctx, strangerID, &meetup.UpdateMeetupPayload{ID: 10, Banner: &tooLong})

			expectRejection(err, http.StatusBadRequest, "Validation fails")
		})

		It("propagates a failing lookup", func() {
			boom := errors.New("pool exhausted")
			store.getErr = boom

			_, err := svc.Update(ctx, organizerID, &meetup.UpdateMeetupPayload{ID: 10})
			expectFailure(err, boom)
		})
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			store = newMemoryMeetupStore(
				seed(10, now.Add(24*time.Hour), organizerID),
				seed(11, now.Add(-24*time.Hour), organizerID),
			)
		})

		It("deletes and confirms with the id", func() {
			result, err := svc.Delete(ctx, organizerID, &meetup.MeetupIDPayload{ID: 10})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Message).To(Equal("Meetup: 10 successfully deleted"))
			Expect(store.deleted).To(ConsistOf(int64(10)))
		})

		It("deletes elapsed meetups", func() {
			_, err := svc.Delete(ctx, organizerID, &meetup.MeetupIDPayload{ID: 11})

			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects an unknown meetup with 401", func() {
			_, err := svc.Delete(ctx, organizerID, &meetup.MeetupIDPayload{ID: 999})

			expectRejection(err, http.StatusUnauthorized, service.MsgMeetupNotFound)
		})

		It("rejects a non-organizer with 401", func() {
			_, err := svc.Delete(ctx, strangerID, &meetup.MeetupIDPayload{ID: 10})

			expectRejection(err, http.StatusUnauthorized, service.MsgNoDeletePermission)
			Expect(store.deleted).To(BeEmpty())
		})
	})

	Describe("Show", func() {
		BeforeEach(func() {
			store = newMemoryMeetupStore(seed(10, now.Add(24*time.Hour), organizerID))
		})

		It("returns the organizer's meetup", func() {
			m, err := svc.Show(ctx, organizerID, &meetup.MeetupIDPayload{ID: 10})

			Expect(err).NotTo(HaveOccurred())
			Expect(m.ID).To(Equal(int64(10)))
		})

		It("hides other organizers' meetups", func() {
			_, err := svc.Show(ctx, strangerID, &meetup.MeetupIDPayload{ID: 10})

			expectRejection(err, http.StatusUnauthorized, service.MsgNoViewPermission)
		})
	})

	It("follows a meetup from creation through elapse to deletion", func() {
		tomorrow := now.Add(24 * time.Hour)

		created, err := svc.Create(ctx, organizerID, &meetup.CreateMeetupPayload{
			Title:       "Go meetup",
			Description: "Talks and pizza",
			Location:    "Lisbon",
			Date:        tomorrow,
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.Update(ctx, strangerID, &meetup.UpdateMeetupPayload{ID: created.ID, Title: str("hijacked")})
		expectRejection(err, http.StatusUnauthorized, service.MsgNoUpdatePermission)

		now = tomorrow.Add(2 * time.Hour)

		_, err = svc.Update(ctx, organizerID, &meetup.UpdateMeetupPayload{ID: created.ID, Title: str("too late")})
		expectRejection(err, http.StatusUnauthorized, service.MsgPastDate)

		result, err := svc.Delete(ctx, organizerID, &meetup.MeetupIDPayload{ID: created.ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Message).To(ContainSubstring("successfully deleted"))
	})
})
