package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var VerifyAccountEmailSQL = `UPDATE "accounts" AS "acct"
SET
	"is_verified" = TRUE,
	"verification_token" = NULL,
	"verification_expires_at" = NULL
WHERE (
	"acct"."id" = ?
) RETURNING *;`

var ResetAccountPasswordSQL = `UPDATE "accounts" AS "acct"
SET
	"password_hash" = ?,
	"reset_token" = NULL,
	"reset_expires_at" = NULL
WHERE (
	"acct"."id" = ?
) RETURNING *;`

// Accounts is the credential store: keyed lookups over the account table
// plus the write paths the lifecycle operations need.
type Accounts interface {
	repository.Repository[*Account]

	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error)
	GetByVerificationToken(ctx context.Context, token string) (*Account, error)
	GetByVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*Account, error)
	GetByResetToken(ctx context.Context, token string) (*Account, error)
	GetByResetTokenTx(ctx context.Context, tx bun.IDB, token string) (*Account, error)

	TrackSuccessfulLogin(ctx context.Context, account *Account) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, account *Account) error

	DeleteByEmail(ctx context.Context, email string) error
	DeleteByEmailTx(ctx context.Context, tx bun.IDB, email string) error
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var (
	_ Accounts                        = (*accounts)(nil)
	_ repository.Repository[*Account] = (*accounts)(nil)
)

func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) Create(ctx context.Context, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *accounts) CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	prepareAccountDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *accounts) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *accounts) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error) {
	return a.getByColumnTx(ctx, tx, "email", email)
}

func (a *accounts) GetByVerificationToken(ctx context.Context, token string) (*Account, error) {
	return a.GetByVerificationTokenTx(ctx, a.db, token)
}

func (a *accounts) GetByVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*Account, error) {
	return a.getByColumnTx(ctx, tx, "verification_token", token)
}

func (a *accounts) GetByResetToken(ctx context.Context, token string) (*Account, error) {
	return a.GetByResetTokenTx(ctx, a.db, token)
}

func (a *accounts) GetByResetTokenTx(ctx context.Context, tx bun.IDB, token string) (*Account, error) {
	return a.getByColumnTx(ctx, tx, "reset_token", token)
}

func (a *accounts) getByColumnTx(ctx context.Context, tx bun.IDB, column, value string) (*Account, error) {
	record := &Account{}

	err := tx.NewSelect().Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					column: value,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *accounts) TrackSuccessfulLogin(ctx context.Context, account *Account) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, account)
}

func (a *accounts) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, account *Account) error {
	// NOTE: raw SQL keeps this a single-column touch; the ORM update path
	// would rewrite every non-zero column on the record.
	lastLogin := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "accounts" AS "acct"
		SET "last_login_at" = ?
		WHERE ("acct".id = ?);
	`, lastLogin, account.ID).Exec(ctx)

	if err == nil {
		account.LastLoginAt = &lastLogin
	}

	return err
}

func (a *accounts) DeleteByEmail(ctx context.Context, email string) error {
	return a.DeleteByEmailTx(ctx, a.db, email)
}

// DeleteByEmailTx removes the account unconditionally. Deleting an email
// that has no account is not an error.
func (a *accounts) DeleteByEmailTx(ctx context.Context, tx bun.IDB, email string) error {
	_, err := tx.NewDelete().
		Model((*Account)(nil)).
		Where("?TableAlias.email = ?", email).
		Exec(ctx)
	return err
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
