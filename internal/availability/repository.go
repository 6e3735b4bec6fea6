package availability

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
)

// Repository reads calendar data from the store. It never evaluates it.
type Repository interface {
	ListReservations(ctx context.Context, propertyIDs []string) ([]Reservation, error)
	ListOverrides(ctx context.Context, propertyIDs []string) ([]Override, error)
	UpsertOverride(ctx context.Context, o *Override) error
	DeleteOverride(ctx context.Context, scope Scope, date daterange.Date) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// unitEq matches a nullable unit column; empty means the whole property.
func unitEq(column, unitID string) squirrel.Sqlizer {
	if unitID == "" {
		return squirrel.Eq{column: nil}
	}
	return squirrel.Eq{column: unitID}
}

func (r *pgxRepository) ListReservations(ctx context.Context, propertyIDs []string) ([]Reservation, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}

	query, args, err := psql.Select(
		"id", "property_id", "COALESCE(unit_id::text, '')",
		"start_date::text", "end_date::text", "status",
	).
		From("public.bookings").
		Where(squirrel.Eq{"property_id": propertyIDs}).
		Where(squirrel.Eq{"status": []string{string(StatusPending), string(StatusConfirmed)}}).
		OrderBy("start_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var result []Reservation
	for rows.Next() {
		var (
			res        Reservation
			start, end string
		)
		if err := rows.Scan(&res.ID, &res.PropertyID, &res.UnitID, &start, &end, &res.Status); err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		if res.Interval.Start, err = daterange.Parse(start); err != nil {
			return nil, fmt.Errorf("reservation %s: %w", res.ID, err)
		}
		if res.Interval.End, err = daterange.Parse(end); err != nil {
			return nil, fmt.Errorf("reservation %s: %w", res.ID, err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) ListOverrides(ctx context.Context, propertyIDs []string) ([]Override, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}

	query, args, err := psql.Select(
		"property_id", "COALESCE(unit_id::text, '')", "date::text", "is_available", "COALESCE(note, '')", "updated_at",
	).
		From("public.availability_calendar").
		Where(squirrel.Eq{"property_id": propertyIDs}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list overrides query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list overrides failed: %w", err)
	}
	defer rows.Close()

	var result []Override
	for rows.Next() {
		var (
			o    Override
			date string
		)
		if err := rows.Scan(&o.PropertyID, &o.UnitID, &date, &o.IsAvailable, &o.Note, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan override failed: %w", err)
		}
		if o.Date, err = daterange.Parse(date); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) UpsertOverride(ctx context.Context, o *Override) error {
	var unitID any
	if o.UnitID != "" {
		unitID = o.UnitID
	}

	query, args, err := psql.Insert("public.availability_calendar").
		Columns("property_id", "unit_id", "date", "is_available", "note").
		Values(o.PropertyID, unitID, o.Date.String(), o.IsAvailable, o.Note).
		Suffix(`ON CONFLICT (property_id, unit_id, date)
			DO UPDATE SET is_available = EXCLUDED.is_available, note = EXCLUDED.note, updated_at = now()
			RETURNING updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert override query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.UpdatedAt); err != nil {
		return fmt.Errorf("upsert override failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) DeleteOverride(ctx context.Context, scope Scope, date daterange.Date) error {
	query, args, err := psql.Delete("public.availability_calendar").
		Where(squirrel.Eq{"property_id": scope.PropertyID}).
		Where(unitEq("unit_id", scope.UnitID)).
		Where(squirrel.Eq{"date": date.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete override query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete override failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrOverrideNotFound
	}
	return nil
}
