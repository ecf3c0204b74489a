package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Subject lines for outbound lifecycle email.
const (
	SubjectVerification  = "Verify Your Email"
	SubjectWelcome       = "Welcome"
	SubjectPasswordReset = "Reset Your Password"
	SubjectResetSuccess  = "Your Password Was Reset"
)

// Notifier delivers account lifecycle email. Any method may fail with a
// delivery error; callers decide whether that failure aborts the overall
// operation. Registration and reset requests treat it as fatal, welcome and
// reset-success email is best-effort.
type Notifier interface {
	SendVerification(ctx context.Context, email, token string) error
	SendWelcome(ctx context.Context, email, name string) error
	SendPasswordReset(ctx context.Context, email, resetURL string) error
	SendResetSuccess(ctx context.Context, email string) error
}

// NewDeliveryError wraps a transport failure in the delivery taxonomy.
func NewDeliveryError(err error, kind string) error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to deliver "+kind+" email").
		WithTextCode(TextCodeDeliveryFailed)
}

type noopNotifier struct{}

func (noopNotifier) SendVerification(context.Context, string, string) error  { return nil }
func (noopNotifier) SendWelcome(context.Context, string, string) error       { return nil }
func (noopNotifier) SendPasswordReset(context.Context, string, string) error { return nil }
func (noopNotifier) SendResetSuccess(context.Context, string) error          { return nil }

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

// LogNotifier writes outbound email through the logger instead of an email
// provider. It stands in for a real transport during development.
type LogNotifier struct {
	logger Logger
}

// NewLogNotifier returns a LogNotifier, falling back to the default logger.
func NewLogNotifier(logger Logger) *LogNotifier {
	if logger == nil {
		logger = defLogger{}
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendVerification(ctx context.Context, email, token string) error {
	n.logger.Info("sending email to=%s subject=%q token=%s", email, SubjectVerification, token)
	return nil
}

func (n *LogNotifier) SendWelcome(ctx context.Context, email, name string) error {
	n.logger.Info("sending email to=%s subject=%q name=%s", email, SubjectWelcome, name)
	return nil
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	n.logger.Info("sending email to=%s subject=%q link=%s", email, SubjectPasswordReset, resetURL)
	return nil
}

func (n *LogNotifier) SendResetSuccess(ctx context.Context, email string) error {
	n.logger.Info("sending email to=%s subject=%q", email, SubjectResetSuccess)
	return nil
}
