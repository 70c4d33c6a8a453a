package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create checks for an approved overlapping booking and inserts the new one.
	// The check and the insert are atomic with respect to concurrent Create
	// calls for the same item; returns ErrTimeConflict on overlap.
	Create(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)

	// List returns bookings matching the filter, ordered by start time descending.
	List(ctx context.Context, filter Filter) ([]*Booking, error)

	// UpdateStatus transitions a WAITING booking to the given status.
	// Concurrent callers race on the WAITING guard: exactly one wins, the rest
	// get ErrAlreadyDecided.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// LastForItem returns the approved booking with the greatest end strictly
	// before now, or nil if there is none. Ties go to the lowest booking id.
	LastForItem(ctx context.Context, itemID string, now time.Time) (*Booking, error)

	// NextForItem returns the approved booking with the smallest start strictly
	// after now, or nil if there is none. Ties go to the lowest booking id.
	NextForItem(ctx context.Context, itemID string, now time.Time) (*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the item row to serialize concurrent creates for the same item,
	// so the overlap check and the insert below act as one step.
	var itemID string
	if err := tx.QueryRow(ctx,
		"SELECT id FROM public.items WHERE id = $1 FOR UPDATE", b.ItemID,
	).Scan(&itemID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrItemNotFound
		}
		return fmt.Errorf("lock item failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	// Overlap: (NewStart < ExistingEnd) AND (NewEnd > ExistingStart), approved only.
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": b.ItemID}).
		Where(squirrel.Eq{"status": StatusApproved}).
		Where(squirrel.Lt{"start_time": b.End}).
		Where(squirrel.Gt{"end_time": b.Start})

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return fmt.Errorf("check overlap failed: %w", err)
	}
	if exists {
		return ErrTimeConflict
	}

	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, b.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
		"b.start_time", "b.end_time", "b.status", "b.created_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
		"b.start_time", "b.end_time", "b.status", "b.created_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")

	if filter.BookerID != "" {
		query = query.Where(squirrel.Eq{"b.booker_id": filter.BookerID})
	}
	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"i.owner_id": filter.OwnerID})
	}

	switch filter.Bucket {
	case BucketAll, "":
		// no extra predicate
	case BucketCurrent:
		query = query.
			Where(squirrel.LtOrEq{"b.start_time": filter.Now}).
			Where(squirrel.GtOrEq{"b.end_time": filter.Now})
	case BucketPast:
		query = query.Where(squirrel.Lt{"b.end_time": filter.Now})
	case BucketFuture:
		query = query.Where(squirrel.Gt{"b.start_time": filter.Now})
	case BucketWaiting:
		query = query.Where(squirrel.Eq{"b.status": StatusWaiting})
	case BucketRejected:
		query = query.Where(squirrel.Eq{"b.status": StatusRejected})
	}

	// Most recently started first, regardless of bucket.
	query = query.OrderBy("b.start_time DESC")

	// Pagination
	if filter.From < 0 {
		filter.From = 0
	}
	if filter.Size < 1 {
		filter.Size = 20
	}
	query = query.Limit(uint64(filter.Size)).Offset(uint64(filter.From))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
			&b.Start, &b.End, &b.Status, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": StatusWaiting}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Either the booking is gone or someone else decided it first.
		var exists bool
		if err := r.pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM public.bookings WHERE id = $1)", id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check booking exists failed: %w", err)
		}
		if exists {
			return ErrAlreadyDecided
		}
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) LastForItem(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	return r.summaryQuery(ctx, itemID,
		squirrel.Lt{"b.end_time": now}, "b.end_time DESC, b.id ASC")
}

func (r *pgxRepository) NextForItem(ctx context.Context, itemID string, now time.Time) (*Booking, error) {
	return r.summaryQuery(ctx, itemID,
		squirrel.Gt{"b.start_time": now}, "b.start_time ASC, b.id ASC")
}

func (r *pgxRepository) summaryQuery(ctx context.Context, itemID string, timePred squirrel.Sqlizer, orderBy string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
		"b.start_time", "b.end_time", "b.status", "b.created_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id").
		Where(squirrel.Eq{"b.item_id": itemID}).
		Where(squirrel.Eq{"b.status": StatusApproved}).
		Where(timePred).
		OrderBy(orderBy).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item summary query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("item summary query failed: %w", err)
	}
	return &b, nil
}
