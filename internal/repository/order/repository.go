package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

var orderColumns = []string{
	"id", "order_number", "customer_id", "vehicle_id", "assigned_mechanic_id",
	"description", "status", "priority",
	"scheduled_at", "started_at", "completed_at", "closed_at",
	"mileage_at_acceptance", "labor_cost", "parts_cost", "total_cost",
	"mechanic_notes", "internal_notes", "created_at", "updated_at",
}

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewOrderRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repository) Create(ctx context.Context, ord *model.ServiceOrder) (*model.ServiceOrder, error) {
	q := r.sb.
		Insert("service_orders").
		Columns(
			"order_number", "customer_id", "vehicle_id", "assigned_mechanic_id",
			"description", "status", "priority", "scheduled_at",
			"mileage_at_acceptance", "labor_cost", "parts_cost", "total_cost",
			"internal_notes",
		).
		Values(
			ord.OrderNumber, ord.CustomerID, ord.VehicleID, ord.AssignedMechanicID,
			ord.Description, ord.Status, ord.Priority, ord.ScheduledAt,
			ord.MileageAtAcceptance, ord.LaborCost, ord.PartsCost, ord.TotalCost,
			ord.InternalNotes,
		).
		Suffix("RETURNING id, created_at, updated_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx, sqlStr, args...).
		Scan(&ord.ID, &ord.CreatedAt, &ord.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation. The order number is the only generated
		// unique column, so a clash here means a concurrent create.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" &&
			pgErr.ConstraintName == "service_orders_order_number_key" {
			return nil, model.ErrOrderNumberConflict
		}
		return nil, err
	}

	return ord, nil
}

func (r *repository) OrderByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error) {
	q := r.sb.
		Select(orderColumns...).
		From("service_orders").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	ord, err := scanOrder(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, err
	}

	return ord, nil
}

func (r *repository) OrderByNumber(ctx context.Context, orderNumber string) (*model.ServiceOrder, error) {
	q := r.sb.
		Select(orderColumns...).
		From("service_orders").
		Where(sq.Eq{"order_number": orderNumber})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	ord, err := scanOrder(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, err
	}

	return ord, nil
}

// LastOrderNumber returns the highest order number with the given prefix, or
// an empty string when none exists yet.
func (r *repository) LastOrderNumber(ctx context.Context, prefix string) (string, error) {
	q := r.sb.
		Select("order_number").
		From("service_orders").
		Where(sq.Like{"order_number": prefix + "%"}).
		OrderBy("order_number DESC").
		Limit(1)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return "", err
	}

	var number string
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&number); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	return number, nil
}

func (r *repository) List(
	ctx context.Context,
	filter model.OrdersFilter,
	page, limit uint64,
) ([]*model.ServiceOrder, int64, error) {
	where := ordersWhere(filter)

	countQ := r.sb.Select("COUNT(*)").From("service_orders").Where(where)
	sqlStr, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := r.sb.
		Select(orderColumns...).
		From("service_orders").
		Where(where).
		OrderBy("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit)

	sqlStr, args, err = q.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*model.ServiceOrder, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *repository) Update(ctx context.Context, upd *model.ServiceOrder) error {
	q := r.sb.
		Update("service_orders").
		SetMap(sq.Eq{
			"assigned_mechanic_id":  upd.AssignedMechanicID,
			"description":           upd.Description,
			"status":                upd.Status,
			"priority":              upd.Priority,
			"scheduled_at":          upd.ScheduledAt,
			"started_at":            upd.StartedAt,
			"completed_at":          upd.CompletedAt,
			"closed_at":             upd.ClosedAt,
			"mileage_at_acceptance": upd.MileageAtAcceptance,
			"labor_cost":            upd.LaborCost,
			"parts_cost":            upd.PartsCost,
			"total_cost":            upd.TotalCost,
			"mechanic_notes":        upd.MechanicNotes,
			"internal_notes":        upd.InternalNotes,
		}).
		Set("updated_at", sq.Expr("now()")).
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
		return model.ErrOrderNotFound
	}

	return nil
}

// UpdateCosts overwrites the derived cost fields only; used by the cost
// aggregator after every order-part mutation.
func (r *repository) UpdateCosts(
	ctx context.Context,
	id uuid.UUID,
	partsCost, totalCost decimal.Decimal,
) error {
	q := r.sb.
		Update("service_orders").
		Set("parts_cost", partsCost).
		Set("total_cost", totalCost).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	q := r.sb.Delete("service_orders").Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

func (r *repository) Stats(ctx context.Context) (*model.OrderStats, error) {
	q := r.sb.
		Select(
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE status = 'PENDING')",
			"COUNT(*) FILTER (WHERE status = 'IN_PROGRESS')",
			"COUNT(*) FILTER (WHERE status = 'COMPLETED')",
			"COUNT(*) FILTER (WHERE status = 'CLOSED')",
			"COUNT(*) FILTER (WHERE status = 'CANCELLED')",
		).
		From("service_orders")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var st model.OrderStats
	err = r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&st.Total,
		&st.Pending,
		&st.InProgress,
		&st.Completed,
		&st.Closed,
		&st.Cancelled,
	)
	if err != nil {
		return nil, err
	}

	return &st, nil
}

func ordersWhere(filter model.OrdersFilter) sq.And {
	where := sq.And{}

	if filter.Status != nil {
		where = append(where, sq.Eq{"status": *filter.Status})
	}
	if filter.Priority != nil {
		where = append(where, sq.Eq{"priority": *filter.Priority})
	}
	if filter.CustomerID != nil {
		where = append(where, sq.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.MechanicID != nil {
		where = append(where, sq.Eq{"assigned_mechanic_id": *filter.MechanicID})
	}

	if len(where) == 0 {
		where = append(where, sq.Expr("TRUE"))
	}

	return where
}

func scanOrder(row pgx.Row) (*model.ServiceOrder, error) {
	var ord model.ServiceOrder
	err := row.Scan(
		&ord.ID,
		&ord.OrderNumber,
		&ord.CustomerID,
		&ord.VehicleID,
		&ord.AssignedMechanicID,
		&ord.Description,
		&ord.Status,
		&ord.Priority,
		&ord.ScheduledAt,
		&ord.StartedAt,
		&ord.CompletedAt,
		&ord.ClosedAt,
		&ord.MileageAtAcceptance,
		&ord.LaborCost,
		&ord.PartsCost,
		&ord.TotalCost,
		&ord.MechanicNotes,
		&ord.InternalNotes,
		&ord.CreatedAt,
		&ord.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &ord, nil
}
