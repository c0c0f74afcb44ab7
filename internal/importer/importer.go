// Package importer bulk loads cheques from CSV files.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/jszwec/csvutil"
	"github.com/shopspring/decimal"

	"github.com/beekhof/cheque-reminders/internal/cheque"
)

// requiredColumns must be present in the header row.
var requiredColumns = []string{"cheque_number", "bank_name", "payee_name", "amount", "due_date", "branch"}

// Row is one record of an import file. Line is the file line the record
// starts on.
type Row struct {
	Line int `csv:"-"`

	ChequeNumber  string `csv:"cheque_number"`
	BankName      string `csv:"bank_name"`
	AccountNumber string `csv:"account_number"`
	PayeeName     string `csv:"payee_name"`
	Amount        string `csv:"amount"`
	IssueDate     string `csv:"issue_date"`
	DueDate       string `csv:"due_date"`
	Status        string `csv:"status"`
	Branch        string `csv:"branch"`
	Notes         string `csv:"notes"`
}

// RowError reports a row that could not be imported.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Result summarises an import.
type Result struct {
	Imported []*cheque.Cheque
	Failed   []RowError
}

// Adder creates cheques. *cheque.Service satisfies it.
type Adder interface {
	Add(ctx context.Context, in cheque.Input) (*cheque.Cheque, error)
}

// ReadFile reads every row of the CSV file at path.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes rows from r. The first line must be a header naming at least
// the required columns; unknown columns are ignored.
func Read(r io.Reader) ([]Row, error) {
	csvr := csv.NewReader(r)
	csvr.TrimLeadingSpace = true

	dec, err := csvutil.NewDecoder(csvr)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	header := dec.Header()
	var missing []string
	for _, col := range requiredColumns {
		if !slices.Contains(header, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("header is missing column(s): %s", strings.Join(missing, ", "))
	}

	var rows []Row
	for {
		var row Row
		err := dec.Decode(&row)
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ParseError carries the line number.
			return nil, fmt.Errorf("failed to parse rows: %w", err)
		}
		// quoted fields may span lines, so ask the reader where the record began
		row.Line, _ = csvr.FieldPos(0)
		rows = append(rows, row)
	}
	return rows, nil
}

// Input converts the row into a cheque.Input.
func (r Row) Input() (cheque.Input, error) {
	in := cheque.Input{
		ChequeNumber:  strings.TrimSpace(r.ChequeNumber),
		BankName:      strings.TrimSpace(r.BankName),
		AccountNumber: strings.TrimSpace(r.AccountNumber),
		PayeeName:     strings.TrimSpace(r.PayeeName),
		Branch:        strings.TrimSpace(r.Branch),
		Notes:         strings.TrimSpace(r.Notes),
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(r.Amount), ",", ""))
	if err != nil {
		return cheque.Input{}, fmt.Errorf("invalid amount %q", r.Amount)
	}
	in.Amount = amount

	if in.DueDate, err = civil.ParseDate(strings.TrimSpace(r.DueDate)); err != nil {
		return cheque.Input{}, fmt.Errorf("invalid due date %q (expected YYYY-MM-DD)", r.DueDate)
	}
	if s := strings.TrimSpace(r.IssueDate); s != "" {
		if in.IssueDate, err = civil.ParseDate(s); err != nil {
			return cheque.Input{}, fmt.Errorf("invalid issue date %q (expected YYYY-MM-DD)", r.IssueDate)
		}
	}
	if s := strings.TrimSpace(r.Status); s != "" {
		if in.Status, err = cheque.ParseStatus(s); err != nil {
			return cheque.Input{}, err
		}
	}
	return in, nil
}

// Import adds every row independently. A failing row is recorded and does
// not stop the others. The returned error is only set when ctx is done.
func Import(ctx context.Context, svc Adder, rows []Row) (Result, error) {
	var res Result
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		in, err := row.Input()
		if err == nil {
			var c *cheque.Cheque
			c, err = svc.Add(ctx, in)
			if err == nil {
				res.Imported = append(res.Imported, c)
				continue
			}
		}

		log.Printf("Warning: skipping line %d: %v", row.Line, err)
		res.Failed = append(res.Failed, RowError{Line: row.Line, Err: err})
	}
	return res, nil
}
