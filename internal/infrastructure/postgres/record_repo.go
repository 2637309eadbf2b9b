package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
	"github.com/HalleluyahGirl/ExpenseApp/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordRepository implements repository.RecordRepository and
// repository.ReminderQueue over per-kind tables of identical shape.
// Table names come exclusively from the domain.Kind whitelist.
type RecordRepository struct {
	pool *pgxpool.Pool
}

func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

func (r *RecordRepository) Create(ctx context.Context, kind domain.Kind, userID string, fields domain.Fields) (*domain.Record, error) {
	table, err := kind.Table()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, fields)
		VALUES ($1, $2)
		RETURNING id, user_id, fields, created_at`, table)

	return scanRecord(r.pool.QueryRow(ctx, query, userID, fields))
}

// GetByID conditions on id AND owner in one query, so an existing
// record owned by someone else is indistinguishable from no record.
func (r *RecordRepository) GetByID(ctx context.Context, kind domain.Kind, id, userID string) (*domain.Record, error) {
	table, err := kind.Table()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, fields, created_at
		FROM %s
		WHERE id = $1 AND user_id = $2`, table)

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, maskBadID(err)
	}
	return rec, nil
}

// Update is a single atomic merge conditioned on id and owner — there
// is no separate existence check to race against. user_id and
// created_at live outside fields and are never touched.
func (r *RecordRepository) Update(ctx context.Context, kind domain.Kind, id, userID string, patch domain.Fields) (*domain.Record, error) {
	table, err := kind.Table()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET fields = fields || $3::jsonb
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, fields, created_at`, table)

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id, userID, patch))
	if err != nil {
		return nil, maskBadID(err)
	}
	return rec, nil
}

func (r *RecordRepository) Delete(ctx context.Context, kind domain.Kind, id, userID string) error {
	table, err := kind.Table()
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, table)

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return maskBadID(fmt.Errorf("delete record: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *RecordRepository) List(ctx context.Context, input repository.ListRecordsInput) ([]*domain.Record, error) {
	table, err := input.Kind.Table()
	if err != nil {
		return nil, err
	}

	args := []any{input.UserID}
	where := []string{"user_id = $1"}

	f := input.Filters
	if f.CreatedFrom != nil {
		args = append(args, *f.CreatedFrom)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.CreatedTo != nil {
		args = append(args, *f.CreatedTo)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if f.Category != nil {
		args = append(args, *f.Category)
		where = append(where, fmt.Sprintf("fields->>'category' = $%d", len(args)))
	}
	// try_numeric yields NULL for records whose amount is not a
	// number, so they fall out of the comparison instead of raising.
	if f.AmountMin != nil {
		args = append(args, *f.AmountMin)
		where = append(where, fmt.Sprintf("try_numeric(fields->>'amount') >= $%d", len(args)))
	}
	if f.AmountMax != nil {
		args = append(args, *f.AmountMax)
		where = append(where, fmt.Sprintf("try_numeric(fields->>'amount') <= $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, fields, created_at
		FROM %s
		WHERE %s
		ORDER BY created_at ASC, id ASC`,
		table, strings.Join(where, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var recs []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ClaimDue marks due reminders notified and returns them in one
// statement. FOR UPDATE SKIP LOCKED keeps concurrent notifier
// instances from double-sending. Reminders whose remind_at does not
// parse are never due: try_timestamptz maps them to NULL.
func (r *RecordRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*domain.DueReminder, error) {
	query := `
		UPDATE reminders r
		SET    fields = r.fields || jsonb_build_object('notified', true)
		WHERE  r.id IN (
			SELECT id FROM reminders
			WHERE  try_timestamptz(fields->>'remind_at') <= $1
			  AND  COALESCE(fields->>'notified', 'false') <> 'true'
			ORDER BY try_timestamptz(fields->>'remind_at') ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING r.id, r.user_id, r.fields, r.created_at,
		          (SELECT email FROM users u WHERE u.id = r.user_id)`

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("claim due reminders: %w", err)
	}
	defer rows.Close()

	var due []*domain.DueReminder
	for rows.Next() {
		var d domain.DueReminder
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Fields, &d.CreatedAt, &d.Email); err != nil {
			return nil, fmt.Errorf("scan due reminder: %w", err)
		}
		due = append(due, &d)
	}
	return due, rows.Err()
}

// Reschedule moves a recurring reminder forward and re-arms it.
func (r *RecordRepository) Reschedule(ctx context.Context, id string, nextAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE reminders
		SET    fields = fields || jsonb_build_object('remind_at', $2::text, 'notified', false)
		WHERE  id = $1`,
		id, nextAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("reschedule reminder: %w", err)
	}
	return nil
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var rec domain.Record
	err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Fields, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}
	return &rec, nil
}

// maskBadID turns a malformed uuid in the id position into the same
// not-found outcome a well-formed unknown id gets.
func maskBadID(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return domain.ErrRecordNotFound
	}
	return err
}
