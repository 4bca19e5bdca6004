package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

var orderPartColumns = []string{
	"id", "service_order_id", "part_id", "quantity",
	"unit_price", "total_price", "notes", "created_at",
}

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewOrderPartRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repository) Create(ctx context.Context, op *model.OrderPart) (*model.OrderPart, error) {
	q := r.sb.
		Insert("service_order_parts").
		Columns("service_order_id", "part_id", "quantity", "unit_price", "total_price", "notes").
		Values(op.ServiceOrderID, op.PartID, op.Quantity, op.UnitPrice, op.TotalPrice, op.Notes).
		Suffix("RETURNING id, created_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx, sqlStr, args...).
		Scan(&op.ID, &op.CreatedAt); err != nil {
		return nil, err
	}

	return op, nil
}

func (r *repository) ByID(ctx context.Context, id uuid.UUID) (*model.OrderPart, error) {
	q := r.sb.
		Select(orderPartColumns...).
		From("service_order_parts").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	op, err := scanOrderPart(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderPartNotFound
		}
		return nil, err
	}

	return op, nil
}

// ListByOrderID returns the order's lines in insertion order.
func (r *repository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*model.OrderPart, error) {
	q := r.sb.
		Select(orderPartColumns...).
		From("service_order_parts").
		Where(sq.Eq{"service_order_id": orderID}).
		OrderBy("created_at ASC")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.OrderPart, 0)
	for rows.Next() {
		op, err := scanOrderPart(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *repository) Update(ctx context.Context, upd *model.OrderPart) error {
	q := r.sb.
		Update("service_order_parts").
		SetMap(sq.Eq{
			"quantity":    upd.Quantity,
			"total_price": upd.TotalPrice,
			"notes":       upd.Notes,
		}).
		Where(sq.Eq{"id": upd.ID})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrOrderPartNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	q := r.sb.Delete("service_order_parts").Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrOrderPartNotFound
	}

	return nil
}

// PartsCostByOrderID sums total_price over the order's live lines.
func (r *repository) PartsCostByOrderID(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	q := r.sb.
		Select("COALESCE(SUM(total_price), 0)").
		From("service_order_parts").
		Where(sq.Eq{"service_order_id": orderID})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return sum, nil
}

func scanOrderPart(row pgx.Row) (*model.OrderPart, error) {
	var op model.OrderPart
	err := row.Scan(
		&op.ID,
		&op.ServiceOrderID,
		&op.PartID,
		&op.Quantity,
		&op.UnitPrice,
		&op.TotalPrice,
		&op.Notes,
		&op.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &op, nil
}
