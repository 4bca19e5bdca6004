package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

var vehicleColumns = []string{
	"id", "customer_id", "vin", "brand", "model", "year",
	"registration_number", "mileage", "color", "notes",
	"created_at", "updated_at",
}

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewVehicleRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repository) Create(ctx context.Context, v *model.Vehicle) (*model.Vehicle, error) {
	q := r.sb.
		Insert("vehicles").
		Columns(
			"customer_id", "vin", "brand", "model", "year",
			"registration_number", "mileage", "color", "notes",
		).
		Values(
			v.CustomerID, v.VIN, v.Brand, v.Model, v.Year,
			v.RegistrationNumber, v.Mileage, v.Color, v.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx, sqlStr, args...).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}

	return v, nil
}

func (r *repository) VehicleByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	q := r.sb.
		Select(vehicleColumns...).
		From("vehicles").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	v, err := scanVehicle(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrVehicleNotFound
		}
		return nil, err
	}

	return v, nil
}

func (r *repository) VehicleByVIN(ctx context.Context, vin string) (*model.Vehicle, error) {
	q := r.sb.
		Select(vehicleColumns...).
		From("vehicles").
		Where(sq.Eq{"vin": vin})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	v, err := scanVehicle(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrVehicleNotFound
		}
		return nil, err
	}

	return v, nil
}

func (r *repository) ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*model.Vehicle, error) {
	q := r.sb.
		Select(vehicleColumns...).
		From("vehicles").
		Where(sq.Eq{"customer_id": customerID}).
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

	out := make([]*model.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *repository) Update(ctx context.Context, upd *model.Vehicle) error {
	q := r.sb.
		Update("vehicles").
		SetMap(sq.Eq{
			"registration_number": upd.RegistrationNumber,
			"mileage":             upd.Mileage,
			"color":               upd.Color,
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
		return model.ErrVehicleNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	q := r.sb.Delete("vehicles").Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrVehicleNotFound
	}

	return nil
}

func scanVehicle(row pgx.Row) (*model.Vehicle, error) {
	var v model.Vehicle
	err := row.Scan(
		&v.ID,
		&v.CustomerID,
		&v.VIN,
		&v.Brand,
		&v.Model,
		&v.Year,
		&v.RegistrationNumber,
		&v.Mileage,
		&v.Color,
		&v.Notes,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &v, nil
}
