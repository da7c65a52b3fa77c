package handler

import (
	"github.com/deppfellow/meetapp/internal/middleware"
	"github.com/deppfellow/meetapp/internal/model/meetup"
	"github.com/deppfellow/meetapp/internal/server"
	"github.com/deppfellow/meetapp/internal/service"
	"github.com/labstack/echo/v4"
)

// MeetupHandler serves the organizer's meetups. Every route requires a
// bearer token; the gate decides what the actor may touch.
type MeetupHandler struct {
	Handler
	meetups *service.MeetupService
}

func NewMeetupHandler(s *server.Server, meetups *service.MeetupService) *MeetupHandler {
	return &MeetupHandler{
		Handler: NewHandler(s),
		meetups: meetups,
	}
}

func (h *MeetupHandler) List(c echo.Context, payload *meetup.ListMeetupsPayload) ([]meetup.Meetup, error) {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return nil, err
	}
	return h.meetups.List(c.Request().Context(), actorID, payload)
}

func (h *MeetupHandler) Show(c echo.Context, payload *meetup.MeetupIDPayload) (*meetup.Meetup, error) {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return nil, err
	}
	return h.meetups.Show(c.Request().Context(), actorID, payload)
}

func (h *MeetupHandler) Create(c echo.Context, payload *meetup.CreateMeetupPayload) (*meetup.Meetup, error) {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return nil, err
	}
	return h.meetups.Create(c.Request().Context(), actorID, payload)
}

func (h *MeetupHandler) Update(c echo.Context, payload *meetup.UpdateMeetupPayload) (*meetup.Meetup, error) {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return nil, err
	}
	return h.meetups.Update(c.Request().Context(), actorID, payload)
}

func (h *MeetupHandler) Delete(c echo.Context, payload *meetup.MeetupIDPayload) (*meetup.DeleteResult, error) {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return nil, err
	}
	return h.meetups.Delete(c.Request().Context(), actorID, payload)
}
