package ics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/beekhof/cheque-reminders/internal/cheque"
)

// ChequeFilename is the file name used when exporting a single cheque.
func ChequeFilename(c *cheque.Cheque) string {
	return fmt.Sprintf("cheque-%s.ics", c.ChequeNumber)
}

// BatchFilename is the file name used when exporting all pending cheques.
func BatchFilename(now time.Time) string {
	return fmt.Sprintf("chequeflow-reminders-%s.ics", now.Format("2006-01-02"))
}

// ExportCheque writes the reminder of c to dir and returns the file path.
func ExportCheque(dir string, c *cheque.Cheque, now time.Time) (string, error) {
	path := filepath.Join(dir, ChequeFilename(c))
	err := writeFile(path, func(w io.Writer) error {
		return EncodeCheque(w, c, now)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// ExportPending writes the pending cheques among cheques to a single
// calendar file in dir. When nothing is pending no file is written and the
// returned path is empty.
func ExportPending(dir string, cheques []*cheque.Cheque, now time.Time) (string, error) {
	onlyPending := cheque.Filter{Status: cheque.StatusPending}
	var pending []*cheque.Cheque
	for _, c := range cheques {
		if onlyPending.Matches(c) {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		return "", nil
	}

	path := filepath.Join(dir, BatchFilename(now))
	err := writeFile(path, func(w io.Writer) error {
		return EncodeCheques(w, pending, now)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
