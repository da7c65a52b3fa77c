package handler

import (
	"github.com/deppfellow/meetapp/internal/server"
	"github.com/deppfellow/meetapp/internal/service"
)

type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	User    *UserHandler
	Meetup  *MeetupHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		User:    NewUserHandler(s, services.User),
		Meetup:  NewMeetupHandler(s, services.Meetup),
	}
}
