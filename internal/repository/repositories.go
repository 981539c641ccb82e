package repository

import (
	"github.com/deppfellow/bizlist/internal/server"
)

type Repositories struct {
	Business *BusinessRepository
	User     *UserRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Business: NewBusinessRepository(s.DB.Pool, s.Logger),
		User:     NewUserRepository(s.DB.Pool),
	}
}
