package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepoSet bundles the repositories a unit of work exposes, all bound to the
// same transaction. Writes issued through a RepoSet are atomic: an error
// returned from the unit function rolls every one of them back, including
// audit-log entries.
type RepoSet struct {
	Tickets     TicketRepository
	Attachments AttachmentRepository
	Logs        TicketLogRepository
	Employees   EmployeeRepository
	Lookups     LookupRepository
}

// UnitOfWork runs a function against transaction-bound repositories.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos RepoSet) error) error
}

type pgxUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork builds a pgx-backed unit of work over the pool.
func NewUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgxUnitOfWork{pool: pool}
}

func (u *pgxUnitOfWork) Do(ctx context.Context, fn func(repos RepoSet) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	repos := RepoSet{
		Tickets:     NewTicketRepository(tx),
		Attachments: NewAttachmentRepository(tx),
		Logs:        NewTicketLogRepository(tx),
		Employees:   NewEmployeeRepository(tx),
		Lookups:     NewLookupRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
