package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Repository defines the audit log operations.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository reads and writes system_logs.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new audit repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create appends entry. Timestamp defaults to now and Kind to KindInfo;
// the assigned id is written back to entry.ID.
func (r *SQLiteRepository) Create(ctx context.Context, entry *Entry) error {
	if entry.Topic == "" || entry.Message == "" {
		return ErrInvalidEntry
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Kind == "" {
		entry.Kind = KindInfo
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO system_logs (timestamp, topic, message, event_type) VALUES (?, ?, ?, ?)`,
		entry.Timestamp.Format(TimestampLayout),
		entry.Topic,
		entry.Message,
		string(entry.Kind),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading audit entry id: %w", err)
	}
	entry.ID = id

	return nil
}

// InsertLog appends a single entry.
func (r *SQLiteRepository) InsertLog(ctx context.Context, topic, message string, kind Kind) error {
	return r.Create(ctx, &Entry{Topic: topic, Message: message, Kind: kind})
}

// List returns entries matching filter, newest first. Total counts every
// match regardless of Limit and BeforeID.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	var conditions []string
	var args []any

	if filter.Kind != "" {
		conditions = append(conditions, "event_type = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Topic != "" {
		conditions = append(conditions, "topic = ?")
		args = append(args, filter.Topic)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM system_logs %s", where) //nolint:gosec // WHERE built from parameterised conditions
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting audit entries: %w", err)
	}

	if filter.BeforeID > 0 {
		conditions = append(conditions, "id < ?")
		args = append(args, filter.BeforeID)
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf( //nolint:gosec // WHERE built from parameterised conditions
		"SELECT id, timestamp, topic, message, event_type FROM system_logs %s ORDER BY id DESC LIMIT ?",
		where,
	)
	args = append(args, filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var ts string
		var kind sql.NullString

		if err := rows.Scan(&e.ID, &ts, &e.Topic, &e.Message, &kind); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		e.Timestamp, err = time.ParseInLocation(TimestampLayout, ts, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parsing audit timestamp %q: %w", ts, err)
		}
		if kind.Valid {
			e.Kind = Kind(kind.String)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	return &ListResult{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
	}, nil
}
