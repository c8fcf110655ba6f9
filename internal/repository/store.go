package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promokit/lucky-wheel/internal/domain"
)

type Store interface {
	ExecTx(ctx context.Context, fn func(Querier) error) error
	ListPrizes(ctx context.Context) ([]domain.Prize, error)
	LastSpinAt(ctx context.Context, userID string) (time.Time, error)
	InsertSpin(ctx context.Context, userID, prizeValue string) (int64, error)
	DecrementStock(ctx context.Context, value string) (int64, error)
}

type Querier interface {
	InsertSpin(ctx context.Context, userID, prizeValue string) (int64, error)
	DecrementStock(ctx context.Context, value string) (int64, error)
}

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same query
// methods run pooled or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type queries struct {
	db DBTX
}

type store struct {
	pool *pgxpool.Pool
	queries
}

func New(pool *pgxpool.Pool) Store {
	return &store{
		pool:    pool,
		queries: queries{db: pool},
	}
}

func (s *store) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	q := queries{db: tx}
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rollback err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const listPrizes = `
SELECT id, value, name, stock FROM prizes ORDER BY id
`

func (q queries) ListPrizes(ctx context.Context) ([]domain.Prize, error) {
	rows, err := q.db.Query(ctx, listPrizes)
	if err != nil {
		return nil, fmt.Errorf("list prizes: %w", err)
	}
	defer rows.Close()

	var prizes []domain.Prize
	for rows.Next() {
		var p domain.Prize
		if err := rows.Scan(&p.ID, &p.Value, &p.Name, &p.Stock); err != nil {
			return nil, fmt.Errorf("scan prize: %w", err)
		}
		prizes = append(prizes, p)
	}
	return prizes, rows.Err()
}

const lastSpinAt = `
SELECT created_at FROM spins WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1
`

func (q queries) LastSpinAt(ctx context.Context, userID string) (time.Time, error) {
	var at time.Time
	if err := q.db.QueryRow(ctx, lastSpinAt, userID).Scan(&at); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, domain.ErrNoSpins
		}
		return time.Time{}, fmt.Errorf("last spin: %w", err)
	}
	return at, nil
}

const insertSpin = `
INSERT INTO spins (user_id, prize_value) VALUES ($1, $2) RETURNING id
`

func (q queries) InsertSpin(ctx context.Context, userID, prizeValue string) (int64, error) {
	var id int64
	if err := q.db.QueryRow(ctx, insertSpin, userID, prizeValue).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert spin: %w", err)
	}
	return id, nil
}

// DecrementStock is a conditional update so stock can never go below zero,
// even under concurrent awards of the last unit. Zero rows affected means the
// stock was already exhausted (or unlimited), which is not an error.
const decrementStock = `
UPDATE prizes SET stock = stock - 1 WHERE value = $1 AND stock IS NOT NULL AND stock > 0
`

func (q queries) DecrementStock(ctx context.Context, value string) (int64, error) {
	tag, err := q.db.Exec(ctx, decrementStock, value)
	if err != nil {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	return tag.RowsAffected(), nil
}
