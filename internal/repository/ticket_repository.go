package repository

import (
	"context"
	"errors"
	"fmt"

	"go-gin-ecommerce/internal/model"
	apperrors "go-gin-ecommerce/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// TicketRepository 票券只新增與查詢，沒有更新或刪除
type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)
	FindByCode(ctx context.Context, code string) (*model.Ticket, error)
	ListByPurchaser(ctx context.Context, purchaser string) ([]*model.Ticket, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (code, purchase_datetime, amount, purchaser)
		VALUES ($1, $2, $3, $4)
		RETURNING id, code, purchase_datetime, amount, purchaser
	`

	err := r.pool.QueryRow(ctx, query,
		ticket.Code, ticket.PurchaseDatetime, ticket.Amount, ticket.Purchaser,
	).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.PurchaseDatetime,
		&ticket.Amount,
		&ticket.Purchaser,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.ErrDuplicateTicketCode
		}
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) FindByCode(ctx context.Context, code string) (*model.Ticket, error) {
	query := `
		SELECT id, code, purchase_datetime, amount, purchaser
		FROM tickets
		WHERE code = $1
	`

	var ticket model.Ticket
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.PurchaseDatetime,
		&ticket.Amount,
		&ticket.Purchaser,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

func (r *TicketRepositoryImpl) ListByPurchaser(ctx context.Context, purchaser string) ([]*model.Ticket, error) {
	query := `
		SELECT id, code, purchase_datetime, amount, purchaser
		FROM tickets
		WHERE purchaser = $1
		ORDER BY purchase_datetime DESC
	`

	rows, err := r.pool.Query(ctx, query, purchaser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		var ticket model.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.Code,
			&ticket.PurchaseDatetime,
			&ticket.Amount,
			&ticket.Purchaser,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}
