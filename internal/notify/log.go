package notify

import (
	"context"

	"github.com/karlov/authgate/internal/logging"
)

// LogNotifier writes the instruction to the log instead of sending mail.
// Used in development and tests where no mail provider is configured.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "notify")}
}

func (n *LogNotifier) NotifyVerification(ctx context.Context, email, token string) error {
	n.logger.Info(ctx, "verification email", "to", email, "token", token)
	return nil
}

func (n *LogNotifier) NotifyPasswordReset(ctx context.Context, email, token string) error {
	n.logger.Info(ctx, "password reset email", "to", email, "token", token)
	return nil
}
