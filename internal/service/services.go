package service

import (
	"github.com/deppfellow/meetapp/internal/lib/password"
	"github.com/deppfellow/meetapp/internal/repository"
	"github.com/deppfellow/meetapp/internal/server"
)

type Services struct {
	User   *UserService
	Meetup *MeetupService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	opts := Options{Mode: s.Config.Server.GateStatusMode()}

	var notifier Notifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		User:   NewUserService(repos.User, password.NewHasher(0), notifier, opts),
		Meetup: NewMeetupService(repos.Meetup, opts),
	}, nil
}
