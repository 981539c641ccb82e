package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/bizlist/internal/config"
	"github.com/deppfellow/bizlist/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// WelcomeSender delivers the welcome email. *email.Client implements it.
type WelcomeSender interface {
	SendWelcomeEmail(to, firstName string) error
}

// InitHandlers builds the dependencies task handlers need. It must run
// before Start.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.SetWelcomeSender(email.NewClient(cfg, logger))
}

func (j *JobService) SetWelcomeSender(sender WelcomeSender) {
	j.emails = sender
}

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w: %w", err, asynq.SkipRetry)
	}

	if j.emails == nil {
		return fmt.Errorf("welcome email sender is not configured")
	}

	log := j.logger.With().
		Str("type", "welcome").
		Str("to", p.To).
		Logger()

	log.Info().Msg("processing welcome email task")

	if err := j.emails.SendWelcomeEmail(p.To, p.FirstName); err != nil {
		log.Error().Err(err).Msg("failed to send welcome email")
		return err
	}

	log.Info().Msg("sent welcome email")

	return nil
}
