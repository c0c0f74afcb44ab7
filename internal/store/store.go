// Package store persists cheques in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/beekhof/cheque-reminders/internal/cheque"
)

// createdAtLayout sorts lexically in time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS cheques (
	id                  TEXT PRIMARY KEY,
	cheque_number       TEXT NOT NULL,
	bank_name           TEXT NOT NULL,
	account_number      TEXT NOT NULL DEFAULT '',
	payee_name          TEXT NOT NULL,
	amount              TEXT NOT NULL,
	issue_date          TEXT NOT NULL DEFAULT '',
	due_date            TEXT NOT NULL,
	status              TEXT NOT NULL,
	branch              TEXT NOT NULL,
	notes               TEXT NOT NULL DEFAULT '',
	created_at          TEXT NOT NULL,
	reminder_date       TEXT,
	is_holiday_adjusted INTEGER NOT NULL DEFAULT 0,
	holiday_skipped     TEXT NOT NULL DEFAULT '[]',
	google_event_id     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS cheques_status_idx ON cheques (status);
`

const columns = `id, cheque_number, bank_name, account_number, payee_name, amount,
	issue_date, due_date, status, branch, notes, created_at,
	reminder_date, is_holiday_adjusted, holiday_skipped, google_event_id`

// Store is a cheque.Repository backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ cheque.Repository = (*Store)(nil)

// Open opens (creating if needed) the database at path and ensures the
// schema exists. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serialises
	// writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new cheque.
func (s *Store) Create(ctx context.Context, c *cheque.Cheque) error {
	args, err := values(c)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cheques (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...)
	if err != nil {
		return fmt.Errorf("failed to insert cheque %s: %w", c.ChequeNumber, err)
	}
	return nil
}

// Get returns the cheque with the given id or cheque.ErrNotFound.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*cheque.Cheque, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM cheques WHERE id = ?`, id.String())
	c, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cheque.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cheque %s: %w", id, err)
	}
	return c, nil
}

// List returns the cheques matching f, newest first.
func (s *Store) List(ctx context.Context, f cheque.Filter) ([]*cheque.Cheque, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Branch != "" {
		where = append(where, "branch = ?")
		args = append(args, f.Branch)
	}
	if f.HasGoogleEvent {
		where = append(where, "google_event_id != ''")
	}

	query := `SELECT ` + columns + ` FROM cheques`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, cheque_number`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cheques: %w", err)
	}
	defer rows.Close()

	var out []*cheque.Cheque
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read cheque: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cheques: %w", err)
	}
	return out, nil
}

// Update overwrites every stored field of c.
func (s *Store) Update(ctx context.Context, c *cheque.Cheque) error {
	args, err := values(c)
	if err != nil {
		return err
	}
	// id moves to the end for the WHERE clause.
	args = append(args[1:], args[0])
	res, err := s.db.ExecContext(ctx, `UPDATE cheques SET
		cheque_number = ?, bank_name = ?, account_number = ?, payee_name = ?, amount = ?,
		issue_date = ?, due_date = ?, status = ?, branch = ?, notes = ?, created_at = ?,
		reminder_date = ?, is_holiday_adjusted = ?, holiday_skipped = ?, google_event_id = ?
		WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update cheque %s: %w", c.ChequeNumber, err)
	}
	return expectOne(res, c.ID)
}

// Delete removes the cheque with the given id.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cheques WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete cheque %s: %w", id, err)
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check result for cheque %s: %w", id, err)
	}
	if n == 0 {
		return cheque.ErrNotFound
	}
	return nil
}

// values returns the column values of c in the order of columns.
func values(c *cheque.Cheque) ([]any, error) {
	skipped := c.HolidaySkipped
	if skipped == nil {
		skipped = []string{}
	}
	skippedJSON, err := json.Marshal(skipped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode skipped days: %w", err)
	}

	var reminderDate sql.NullString
	if c.ReminderDate != nil {
		reminderDate = sql.NullString{String: c.ReminderDate.String(), Valid: true}
	}

	issueDate := ""
	if c.IssueDate != (civil.Date{}) {
		issueDate = c.IssueDate.String()
	}

	return []any{
		c.ID.String(),
		c.ChequeNumber,
		c.BankName,
		c.AccountNumber,
		c.PayeeName,
		c.Amount.String(),
		issueDate,
		c.DueDate.String(),
		string(c.Status),
		c.Branch,
		c.Notes,
		c.CreatedAt.UTC().Format(createdAtLayout),
		reminderDate,
		c.IsHolidayAdjusted,
		string(skippedJSON),
		c.GoogleEventID,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*cheque.Cheque, error) {
	var (
		c            cheque.Cheque
		id           string
		amount       string
		issueDate    string
		dueDate      string
		status       string
		createdAt    string
		reminderDate sql.NullString
		skippedJSON  string
	)
	err := row.Scan(&id, &c.ChequeNumber, &c.BankName, &c.AccountNumber, &c.PayeeName, &amount,
		&issueDate, &dueDate, &status, &c.Branch, &c.Notes, &createdAt,
		&reminderDate, &c.IsHolidayAdjusted, &skippedJSON, &c.GoogleEventID)
	if err != nil {
		return nil, err
	}

	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", id, err)
	}
	if c.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if issueDate != "" {
		if c.IssueDate, err = civil.ParseDate(issueDate); err != nil {
			return nil, fmt.Errorf("invalid issue date %q: %w", issueDate, err)
		}
	}
	if c.DueDate, err = civil.ParseDate(dueDate); err != nil {
		return nil, fmt.Errorf("invalid due date %q: %w", dueDate, err)
	}
	c.Status = cheque.Status(status)
	if c.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if reminderDate.Valid {
		d, err := civil.ParseDate(reminderDate.String)
		if err != nil {
			return nil, fmt.Errorf("invalid reminder date %q: %w", reminderDate.String, err)
		}
		c.ReminderDate = &d
	}
	if err := json.Unmarshal([]byte(skippedJSON), &c.HolidaySkipped); err != nil {
		return nil, fmt.Errorf("invalid skipped days %q: %w", skippedJSON, err)
	}
	return &c, nil
}
