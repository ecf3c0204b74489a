package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type VerifyEmailMessage struct {
	Token      string `json:"token"`
	OnResponse func(resp *VerifyEmailResponse)
}

func (e VerifyEmailMessage) Type() string { return "account.verify_email" }

type VerifyEmailResponse struct {
	Account *Account
	Success bool
}

type VerifyEmailHandler struct {
	repo     RepositoryManager
	notifier Notifier
	logger   Logger
}

// NewVerifyEmailHandler creates a handler with sane defaults.
func NewVerifyEmailHandler(repo RepositoryManager) *VerifyEmailHandler {
	return &VerifyEmailHandler{
		repo:     repo,
		notifier: noopNotifier{},
		logger:   defLogger{},
	}
}

// WithNotifier sets the notifier used to deliver the welcome message.
func (h *VerifyEmailHandler) WithNotifier(n Notifier) *VerifyEmailHandler {
	h.notifier = normalizeNotifier(n)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *VerifyEmailHandler) WithLogger(logger Logger) *VerifyEmailHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *VerifyEmailHandler) Execute(ctx context.Context, event VerifyEmailMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during email verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyEmailHandler) execute(ctx context.Context, event VerifyEmailMessage) error {
	account := &Account{}
	resp := &VerifyEmailResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var err error

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, err = h.repo.Accounts().GetByVerificationTokenTx(ctx, tx, event.Token)
		if err != nil {
			// a missing token and an expired one are indistinguishable to
			// the caller
			if repository.IsRecordNotFound(err) {
				return ErrTokenInvalidOrExpired
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account for verification")
		}

		if !account.VerificationTokenValidAt(time.Now()) {
			return ErrTokenInvalidOrExpired
		}

		// raw SQL so the token columns actually get NULLed; a model update
		// would skip the zero fields
		if _, err = h.repo.Accounts().RawTx(ctx, tx, VerifyAccountEmailSQL, account.ID.String()); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark account as verified")
		}

		account.Verified = true
		account.ClearVerificationToken()

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to verify email")
	}

	// welcome delivery is best effort, the account is verified either way
	if err := h.notifier.SendWelcome(ctx, account.Email, account.DisplayName); err != nil {
		h.logger.Warn("welcome delivery failed for %s: %s", account.Email, err)
	}

	resp.Account = account
	resp.Success = true
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
