package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

var userColumns = []string{
	"id", "first_name", "last_name", "email", "phone", "password_hash",
	"role", "status", "last_login_at", "created_at", "updated_at",
}

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewUserRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	q := r.sb.
		Insert("users").
		Columns("first_name", "last_name", "email", "phone", "password_hash", "role", "status").
		Values(u.FirstName, u.LastName, u.Email, u.Phone, u.PasswordHash, u.Role, u.Status).
		Suffix("RETURNING id, created_at, updated_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx, sqlStr, args...).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}

	return u, nil
}

func (r *repository) UserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	q := r.sb.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	u, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *repository) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	q := r.sb.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	u, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *repository) List(ctx context.Context, page, limit uint64) ([]*model.User, int64, error) {
	countQ := r.sb.Select("COUNT(*)").From("users")
	sqlStr, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := r.sb.
		Select(userColumns...).
		From("users").
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

	out := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *repository) Update(ctx context.Context, upd *model.User) error {
	q := r.sb.
		Update("users").
		SetMap(sq.Eq{
			"first_name":    upd.FirstName,
			"last_name":     upd.LastName,
			"phone":         upd.Phone,
			"password_hash": upd.PasswordHash,
			"role":          upd.Role,
			"status":        upd.Status,
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
		return model.ErrUserNotFound
	}

	return nil
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := r.sb.
		Update("users").
		Set("last_login_at", at).
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
		return model.ErrUserNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	q := r.sb.Delete("users").Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.Role,
		&u.Status,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &u, nil
}
