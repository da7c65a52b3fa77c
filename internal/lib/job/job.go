// Package job runs background work on asynq (Redis backed): the HTTP side
// enqueues tasks through JobService and the worker side processes them.
package job

import (
	"context"
	"fmt"

	"github.com/deppfellow/meetapp/internal/config"
	"github.com/deppfellow/meetapp/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// WelcomeMailer is the part of the email client the worker needs.
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, to, name string) error
}

// Enqueuer is the part of asynq.Client the producer side needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type JobService struct {
	client Enqueuer
	closer func() error
	server *asynq.Server
	mailer WelcomeMailer
	logger *zerolog.Logger
}

func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	return &JobService{
		client: client,
		closer: client.Close,
		server: server,
		mailer: email.NewClient(cfg, logger),
		logger: logger,
	}
}

// Start registers the task handlers and starts the workers in the background.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)

	j.logger.Info().Msg("starting background job server")

	if err := j.server.Start(mux); err != nil {
		return fmt.Errorf("starting job server: %w", err)
	}

	return nil
}

// Stop waits for running tasks and releases the Redis connections.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	if j.server != nil {
		j.server.Shutdown()
	}
	if j.closer != nil {
		if err := j.closer(); err != nil {
			j.logger.Error().Err(err).Msg("failed to close job client")
		}
	}
}
