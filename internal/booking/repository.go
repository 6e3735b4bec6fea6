package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ketensuites/keten-backend/internal/db"
	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
)

type Repository interface {
	// Create inserts b after re-checking, under a lock on the property row,
	// that no blocking booking overlaps it.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// UpdateStatus changes the status, re-checking overlaps when a
	// cancelled booking is reinstated.
	UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"b.id", "b.booking_reference", "b.property_id", "p.name",
	"COALESCE(b.unit_id::text, '')", "COALESCE(u.name, '')",
	"b.guest_name", "b.guest_email", "COALESCE(b.guest_phone, '')",
	"b.start_date::text", "b.end_date::text", "b.total_price::text",
	"b.booking_type", "b.status", "COALESCE(b.special_requests, '')",
	"b.created_at", "b.updated_at",
}

func selectBookings(extra ...string) squirrel.SelectBuilder {
	return psql.Select(append(bookingColumns, extra...)...).
		From("public.bookings b").
		Join("public.properties p ON p.id = b.property_id").
		LeftJoin("public.units u ON u.id = b.unit_id")
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var (
		b                 Booking
		start, end, price string
	)
	dest := []any{
		&b.ID, &b.Reference, &b.PropertyID, &b.PropertyName,
		&b.UnitID, &b.UnitName,
		&b.GuestName, &b.GuestEmail, &b.GuestPhone,
		&start, &end, &price,
		&b.Type, &b.Status, &b.SpecialRequests,
		&b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	var err error
	if b.Interval, err = daterange.ParseInterval(start, end); err != nil {
		return nil, fmt.Errorf("booking %s: %w", b.ID, err)
	}
	if b.TotalPrice, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("booking %s total: %w", b.ID, err)
	}
	return &b, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// lockProperty serialises booking writes per property for the rest of tx.
func lockProperty(ctx context.Context, tx pgx.Tx, propertyID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM public.properties WHERE id = $1 FOR UPDATE`, propertyID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPropertyNotFound
	}
	if err != nil {
		return fmt.Errorf("lock property failed: %w", err)
	}
	return nil
}

// hasOverlap reports a blocking booking sharing a night with b. Whole-property
// bookings collide with every unit of the property.
func hasOverlap(ctx context.Context, tx pgx.Tx, b *Booking) (bool, error) {
	sub := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"property_id": b.PropertyID}).
		Where(squirrel.Eq{"status": []string{string(StatusPending), string(StatusConfirmed)}}).
		Where(squirrel.Lt{"start_date": b.Interval.End.String()}).
		Where(squirrel.Gt{"end_date": b.Interval.Start.String()})

	if b.UnitID != "" {
		sub = sub.Where(squirrel.Or{
			squirrel.Eq{"unit_id": nil},
			squirrel.Eq{"unit_id": b.UnitID},
		})
	}
	if b.ID != "" {
		sub = sub.Where(squirrel.NotEq{"id": b.ID})
	}

	sql, args, err := sub.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func mapWriteError(err error) error {
	switch {
	case db.IsExclusionViolation(err), db.IsSerializationFailure(err):
		return ErrDatesUnavailable
	case db.IsUniqueViolation(err):
		return errReferenceTaken
	case db.IsForeignKeyViolation(err):
		return ErrUnitNotFound
	}
	return err
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// 1. Lock the property
		if err := lockProperty(ctx, tx, b.PropertyID); err != nil {
			return err
		}

		// 2. Check for overlaps
		overlap, err := hasOverlap(ctx, tx, b)
		if err != nil {
			return err
		}
		if overlap {
			return ErrDatesUnavailable
		}

		// 3. Insert
		query, args, err := psql.Insert("public.bookings").
			Columns(
				"booking_reference", "property_id", "unit_id", "guest_name", "guest_email", "guest_phone",
				"start_date", "end_date", "total_price", "booking_type", "status", "special_requests",
			).
			Values(
				b.Reference, b.PropertyID, nullable(b.UnitID), b.GuestName, b.GuestEmail, nullable(b.GuestPhone),
				b.Interval.Start.String(), b.Interval.End.String(), b.TotalPrice.String(), b.Type, b.Status,
				nullable(b.SpecialRequests),
			).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create booking query failed: %w", err)
		}
		return tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	})
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *pgxRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*Booking, error) {
	query, args, err := selectBookings().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"b.id": id})
}

func (r *pgxRepository) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"b.booking_reference": strings.ToUpper(reference)})
}

var sortColumns = map[string]string{
	"start_date": "b.start_date",
	"end_date":   "b.end_date",
	"created_at": "b.created_at",
	"status":     "b.status",
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := selectBookings("count(*) OVER() AS total_count")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.PropertyID != "" {
		query = query.Where(squirrel.Eq{"b.property_id": filter.PropertyID})
	}
	if filter.UnitID != "" {
		query = query.Where(squirrel.Eq{"b.unit_id": filter.UnitID})
	}
	// Date window filtering (overlap logic)
	if filter.From != nil {
		query = query.Where(squirrel.Gt{"b.end_date": filter.From.String()})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"b.start_date": filter.To.String()})
	}

	// Sorting
	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = "b.start_date"
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy+" "+orderDir, "b.created_at DESC")

	// Pagination
	if filter.PageSize > 0 {
		if filter.Page < 1 {
			filter.Page = 1
		}
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var (
		bookings []*Booking
		total    int
	)
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if status.Blocks() && !current.Status.Blocks() {
			if err := lockProperty(ctx, tx, current.PropertyID); err != nil {
				return err
			}
			overlap, err := hasOverlap(ctx, tx, current)
			if err != nil {
				return err
			}
			if overlap {
				return ErrDatesUnavailable
			}
		}

		ct, err := tx.Exec(ctx,
			`UPDATE public.bookings SET status = $1, updated_at = now() WHERE id = $2`,
			status, id,
		)
		if err != nil {
			return fmt.Errorf("update booking status failed: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, mapWriteError(err)
	}
	return r.GetByID(ctx, id)
}
