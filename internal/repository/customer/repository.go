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

var customerColumns = []string{
	"id", "type", "first_name", "last_name", "email", "phone",
	"street", "postal_code", "city", "pesel", "nip", "company_name",
	"notes", "created_at", "updated_at",
}

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewCustomerRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	q := r.sb.
		Insert("customers").
		Columns(
			"type", "first_name", "last_name", "email", "phone",
			"street", "postal_code", "city", "pesel", "nip",
			"company_name", "notes",
		).
		Values(
			c.Type, c.FirstName, c.LastName, c.Email, c.Phone,
			c.Street, c.PostalCode, c.City, c.Pesel, c.Nip,
			c.CompanyName, c.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx, sqlStr, args...).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *repository) CustomerByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	q := r.sb.
		Select(customerColumns...).
		From("customers").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanCustomer(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCustomerNotFound
		}
		return nil, err
	}

	return c, nil
}

func (r *repository) List(
	ctx context.Context,
	filter model.CustomersFilter,
	page, limit uint64,
) ([]*model.Customer, int64, error) {
	where := sq.And{sq.Expr("TRUE")}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		where = append(where, sq.Or{
			sq.ILike{"first_name": pattern},
			sq.ILike{"last_name": pattern},
			sq.ILike{"phone": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"company_name": pattern},
		})
	}

	countQ := r.sb.Select("COUNT(*)").From("customers").Where(where)
	sqlStr, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := r.sb.
		Select(customerColumns...).
		From("customers").
		Where(where).
		OrderBy("last_name ASC", "first_name ASC").
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

	out := make([]*model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *repository) Update(ctx context.Context, upd *model.Customer) error {
	q := r.sb.
		Update("customers").
		SetMap(sq.Eq{
			"type":         upd.Type,
			"first_name":   upd.FirstName,
			"last_name":    upd.LastName,
			"email":        upd.Email,
			"phone":        upd.Phone,
			"street":       upd.Street,
			"postal_code":  upd.PostalCode,
			"city":         upd.City,
			"pesel":        upd.Pesel,
			"nip":          upd.Nip,
			"company_name": upd.CompanyName,
			"notes":        upd.Notes,
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
		return model.ErrCustomerNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	q := r.sb.Delete("customers").Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrCustomerNotFound
	}

	return nil
}

func scanCustomer(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(
		&c.ID,
		&c.Type,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.Street,
		&c.PostalCode,
		&c.City,
		&c.Pesel,
		&c.Nip,
		&c.CompanyName,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}
