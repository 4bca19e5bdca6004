package repository

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

var partColumns = []string{
	"id", "part_number", "name", "description", "category",
	"manufacturer", "brand", "purchase_price", "selling_price",
	"quantity_in_stock", "min_stock_level", "location", "status",
	"supplier", "supplier_email", "supplier_phone",
	"compatible_vehicles", "notes", "created_at", "updated_at",
}

// statusCase mirrors model.DeriveStatus so that status and quantity always
// change in the same statement.
const statusCase = `CASE
	WHEN status = 'DISCONTINUED' THEN status
	WHEN quantity_in_stock + ? = 0 THEN 'OUT_OF_STOCK'
	WHEN quantity_in_stock + ? <= min_stock_level THEN 'LOW_STOCK'
	ELSE 'AVAILABLE'
END`

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewPartRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repository) Create(ctx context.Context, p *model.Part) (*model.Part, error) {
	q := r.sb.
		Insert("parts").
		Columns(
			"part_number", "name", "description", "category",
			"manufacturer", "brand", "purchase_price", "selling_price",
			"quantity_in_stock", "min_stock_level", "location", "status",
			"supplier", "supplier_email", "supplier_phone",
			"compatible_vehicles", "notes",
		).
		Values(
			p.PartNumber, p.Name, p.Description, p.Category,
			p.Manufacturer, p.Brand, p.PurchasePrice, p.SellingPrice,
			p.QuantityInStock, p.MinStockLevel, p.Location, p.Status,
			p.Supplier, p.SupplierEmail, p.SupplierPhone,
			p.CompatibleVehicles, p.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx, sqlStr, args...).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) PartByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	q := r.sb.
		Select(partColumns...).
		From("parts").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanPart(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPartNotFound
		}
		return nil, err
	}

	return p, nil
}

func (r *repository) PartByNumber(ctx context.Context, partNumber string) (*model.Part, error) {
	q := r.sb.
		Select(partColumns...).
		From("parts").
		Where(sq.Eq{"part_number": partNumber})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanPart(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPartNotFound
		}
		return nil, err
	}

	return p, nil
}

func (r *repository) List(
	ctx context.Context,
	filter model.PartsFilter,
	page, limit uint64,
) ([]*model.Part, int64, error) {
	where := partsWhere(filter)

	countQ := r.sb.Select("COUNT(*)").From("parts").Where(where)
	sqlStr, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := r.sb.
		Select(partColumns...).
		From("parts").
		Where(where).
		OrderBy("name ASC").
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

	out := make([]*model.Part, 0)
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *repository) Update(ctx context.Context, upd *model.Part) error {
	q := r.sb.
		Update("parts").
		SetMap(sq.Eq{
			"name":                upd.Name,
			"description":         upd.Description,
			"category":            upd.Category,
			"manufacturer":        upd.Manufacturer,
			"brand":               upd.Brand,
			"purchase_price":      upd.PurchasePrice,
			"selling_price":       upd.SellingPrice,
			"min_stock_level":     upd.MinStockLevel,
			"location":            upd.Location,
			"status":              upd.Status,
			"supplier":            upd.Supplier,
			"supplier_email":      upd.SupplierEmail,
			"supplier_phone":      upd.SupplierPhone,
			"compatible_vehicles": upd.CompatibleVehicles,
			"notes":               upd.Notes,
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
		return model.ErrPartNotFound
	}

	return nil
}

// AdjustStock applies delta to the part's stock in a single conditional
// update: the row changes only if the resulting quantity stays non-negative,
// so concurrent decrements can never drive stock below zero. Status is
// recomputed in the same statement.
func (r *repository) AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (*model.Part, error) {
	q := r.sb.
		Update("parts").
		Set("quantity_in_stock", sq.Expr("quantity_in_stock + ?", delta)).
		Set("status", sq.Expr(statusCase, delta, delta)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Where(sq.Expr("quantity_in_stock + ? >= 0", delta)).
		Suffix("RETURNING " + strings.Join(partColumns, ", "))

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanPart(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.adjustMissReason(ctx, id, delta)
		}
		return nil, err
	}

	return p, nil
}

// adjustMissReason distinguishes a missing part from a guarded update that
// refused to go negative, reporting how much stock was actually there.
func (r *repository) adjustMissReason(ctx context.Context, id uuid.UUID, delta int64) error {
	q := r.sb.Select("quantity_in_stock").From("parts").Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	var available int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrPartNotFound
		}
		return err
	}

	return model.InsufficientStockError(available, -delta)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	q := r.sb.Delete("parts").Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrPartNotFound
	}

	return nil
}

func (r *repository) LowStock(ctx context.Context) ([]*model.Part, error) {
	q := r.sb.
		Select(partColumns...).
		From("parts").
		Where(sq.Expr("quantity_in_stock <= min_stock_level")).
		Where(sq.NotEq{"status": model.PartStatusDiscontinued}).
		OrderBy("quantity_in_stock ASC")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Part, 0)
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *repository) Stats(ctx context.Context) (*model.PartStats, error) {
	q := r.sb.
		Select(
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE status = 'AVAILABLE')",
			"COUNT(*) FILTER (WHERE status = 'LOW_STOCK')",
			"COUNT(*) FILTER (WHERE status = 'OUT_OF_STOCK')",
			"COUNT(*) FILTER (WHERE status = 'DISCONTINUED')",
			"COALESCE(SUM(selling_price * quantity_in_stock), 0)",
		).
		From("parts")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var st model.PartStats
	err = r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&st.Total,
		&st.Available,
		&st.LowStock,
		&st.OutOfStock,
		&st.Discontinued,
		&st.TotalValue,
	)
	if err != nil {
		return nil, err
	}

	return &st, nil
}

func partsWhere(filter model.PartsFilter) sq.And {
	where := sq.And{}

	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		where = append(where, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"part_number": pattern},
			sq.ILike{"manufacturer": pattern},
		})
	}
	if filter.Category != nil {
		where = append(where, sq.Eq{"category": *filter.Category})
	}
	if filter.Status != nil {
		where = append(where, sq.Eq{"status": *filter.Status})
	}
	if filter.LowStockOnly {
		// Same predicate as LowStock: a discontinued part is not waiting
		// for a reorder.
		where = append(where, sq.Expr("quantity_in_stock <= min_stock_level"))
		where = append(where, sq.NotEq{"status": model.PartStatusDiscontinued})
	}

	if len(where) == 0 {
		where = append(where, sq.Expr("TRUE"))
	}

	return where
}

func scanPart(row pgx.Row) (*model.Part, error) {
	var p model.Part
	err := row.Scan(
		&p.ID,
		&p.PartNumber,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Manufacturer,
		&p.Brand,
		&p.PurchasePrice,
		&p.SellingPrice,
		&p.QuantityInStock,
		&p.MinStockLevel,
		&p.Location,
		&p.Status,
		&p.Supplier,
		&p.SupplierEmail,
		&p.SupplierPhone,
		&p.CompatibleVehicles,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}
