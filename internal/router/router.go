// Package router builds the Echo instance: middleware order, the error
// handler and the route table.
package router

import (
	"net/http"

	"github.com/deppfellow/meetapp/internal/handler"
	"github.com/deppfellow/meetapp/internal/middleware"
	"github.com/deppfellow/meetapp/internal/model/meetup"
	"github.com/deppfellow/meetapp/internal/model/user"
	"github.com/deppfellow/meetapp/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	// Order matters: the transaction and the request id must exist before
	// the context logger is built, and the logger before anything logs.
	router.Use(
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		middleware.RequestID(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.CORS(),
		mw.Global.Secure(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerUserRoutes(router, mw, h)
	registerMeetupRoutes(router, mw, h)

	return router
}

func registerUserRoutes(r *echo.Echo, mw *middleware.Middlewares, h *handler.Handlers) {
	users := r.Group("/users")

	users.POST("", handler.Handle(
		h.User.Handler,
		h.User.Create,
		http.StatusOK,
		handler.Payload[user.CreateUserPayload](),
	), mw.RateLimit.Signup())

	users.PUT("", handler.Handle(
		h.User.Handler,
		h.User.Update,
		http.StatusOK,
		handler.Payload[user.UpdateUserPayload](),
	), mw.Auth.RequireAuth)
}

func registerMeetupRoutes(r *echo.Echo, mw *middleware.Middlewares, h *handler.Handlers) {
	meetups := r.Group("/meetups", mw.Auth.RequireAuth)

	meetups.GET("", handler.Handle(
		h.Meetup.Handler,
		h.Meetup.List,
		http.StatusOK,
		handler.Payload[meetup.ListMeetupsPayload](),
	))

	meetups.GET("/:id", handler.Handle(
		h.Meetup.Handler,
		h.Meetup.Show,
		http.StatusOK,
		handler.Payload[meetup.MeetupIDPayload](),
	))

	meetups.POST("", handler.Handle(
		h.Meetup.Handler,
		h.Meetup.Create,
		http.StatusOK,
		handler.Payload[meetup.CreateMeetupPayload](),
	))

	meetups.PUT("/:id", handler.Handle(
		h.Meetup.Handler,
		h.Meetup.Update,
		http.StatusOK,
		handler.Payload[meetup.UpdateMeetupPayload](),
	))

	meetups.DELETE("/:id", handler.Handle(
		h.Meetup.Handler,
		h.Meetup.Delete,
		http.StatusOK,
		handler.Payload[meetup.MeetupIDPayload](),
	))
}
