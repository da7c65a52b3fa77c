package repository

import (
	"github.com/deppfellow/meetapp/internal/server"
)

type Repositories struct {
	User   *UserRepository
	Meetup *MeetupRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		User:   NewUserRepository(s.DB.Pool),
		Meetup: NewMeetupRepository(s.DB.Pool),
	}
}
