package handler

import (
	"github.com/deppfellow/meetapp/internal/middleware"
	"github.com/deppfellow/meetapp/internal/model/user"
	"github.com/deppfellow/meetapp/internal/server"
	"github.com/deppfellow/meetapp/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

// Create signs a user up. It is the only unauthenticated write.
func (h *UserHandler) Create(c echo.Context, payload *user.CreateUserPayload) (*user.User, error) {
	return h.users.Create(c.Request().Context(), payload)
}

// Update edits the authenticated user's own profile.
func (h *UserHandler) Update(c echo.Context, payload *user.UpdateUserPayload) (*user.Summary, error) {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return nil, err
	}
	return h.users.Update(c.Request().Context(), actorID, payload)
}
