package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quitflow-bot/internal/infra/postgres"
	"github.com/aliskhannn/quitflow-bot/internal/infra/postgres/repository"
)

// PostgresTransactor binds repositories to a pgx transaction.
type PostgresTransactor struct {
	tr *postgres.Transactor
}

func NewPostgresTransactor(tr *postgres.Transactor) *PostgresTransactor {
	return &PostgresTransactor{tr: tr}
}

func (t *PostgresTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error {
	return t.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, TxRepositories{
			Users:         repository.NewUserRepository(tx),
			Progression:   repository.NewProgressionRepository(tx),
			Activity:      repository.NewActivityRepository(tx),
			Notifications: repository.NewNotificationRepository(tx),
		})
	})
}
