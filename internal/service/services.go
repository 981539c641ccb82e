package service

import (
	"github.com/deppfellow/bizlist/internal/lib/job"
	"github.com/deppfellow/bizlist/internal/repository"
	"github.com/deppfellow/bizlist/internal/server"
)

type Services struct {
	Auth     *AuthService
	Job      *job.JobService
	Business *BusinessService
	Image    *ImageService
	User     *UserService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	authService := NewAuthService(s)
	businessService := NewBusinessService(repos.Business, s.Logger)

	var tasks TaskEnqueuer
	if s.Job != nil {
		tasks = s.Job.Client
	}

	return &Services{
		Auth:     authService,
		Job:      s.Job,
		Business: businessService,
		Image:    NewImageService(repos.Business, s.Storage, s.Logger),
		User:     NewUserService(repos.User, authService, tasks, businessService, s.Logger),
	}
}
