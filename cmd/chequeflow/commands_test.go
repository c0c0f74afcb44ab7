package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/beekhof/cheque-reminders/internal/config"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DatabasePath:     filepath.Join(dir, "chequeflow.db"),
		ExportDir:        filepath.Join(dir, "exports"),
		UpcomingHolidays: 3,
	}

	a, err := newApp(context.Background(), cfg, false)
	if err != nil {
		t.Fatalf("newApp() returned an error: %v", err)
	}
	t.Cleanup(func() {
		if err := a.close(); err != nil {
			t.Errorf("close() returned an error: %v", err)
		}
	})

	var out bytes.Buffer
	a.out = &out
	a.now = func() time.Time { return time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC) }
	return a, &out
}

func TestRunReminder(t *testing.T) {
	a, out := newTestApp(t)

	if err := a.run(context.Background(), "reminder", []string{"2025-02-08", "2025-03-14"}); err != nil {
		t.Fatalf("reminder returned an error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "2025-02-08 (Saturday): reminder moved to 2025-02-10 (Monday), skipped Saturday, Sunday") {
		t.Errorf("Unexpected weekend output:\n%s", got)
	}
	if !strings.Contains(got, "2025-03-14 (Friday): bank working day") {
		t.Errorf("Unexpected working day output:\n%s", got)
	}
}

func TestRunReminder_BadDate(t *testing.T) {
	a, _ := newTestApp(t)
	if err := a.run(context.Background(), "reminder", []string{"08/02/2025"}); err == nil {
		t.Error("Expected an error for a malformed date")
	}
	if err := a.run(context.Background(), "reminder", nil); err == nil {
		t.Error("Expected a usage error without dates")
	}
}

func TestRunHolidays(t *testing.T) {
	a, out := newTestApp(t)

	if err := a.run(context.Background(), "holidays", []string{"--month", "2025-02"}); err != nil {
		t.Fatalf("holidays --month returned an error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"2025-02-04", "National Day", "2025-02-12", "Navam Full Moon Poya Day"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in month listing:\n%s", want, got)
		}
	}

	out.Reset()
	if err := a.run(context.Background(), "holidays", nil); err != nil {
		t.Fatalf("holidays returned an error: %v", err)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 3 {
		t.Errorf("Expected 3 upcoming holidays, got %d:\n%s", lines, out.String())
	}

	out.Reset()
	if err := a.run(context.Background(), "holidays", []string{"--verify"}); err != nil {
		t.Errorf("holidays --verify returned an error: %v\n%s", err, out.String())
	}
}

func TestRunAddListExport(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	err := a.run(ctx, "add", []string{
		"--number", "000123", "--bank", "Commercial Bank", "--payee", "Lanka Traders",
		"--amount", "150,000.00", "--due", "2025-02-08", "--branch", "Colombo 03",
	})
	if err != nil {
		t.Fatalf("add returned an error: %v", err)
	}
	if !strings.Contains(out.String(), "Reminder set for next working day 2025-02-10") {
		t.Errorf("Expected the adjustment note, got:\n%s", out.String())
	}

	out.Reset()
	if err := a.run(ctx, "list", []string{"--status", "pending"}); err != nil {
		t.Fatalf("list returned an error: %v", err)
	}
	if !strings.Contains(out.String(), "000123") || !strings.Contains(out.String(), "2025-02-10*") {
		t.Errorf("Unexpected list output:\n%s", out.String())
	}

	out.Reset()
	if err := a.run(ctx, "export", nil); err != nil {
		t.Fatalf("export returned an error: %v", err)
	}
	path := filepath.Join(a.cfg.ExportDir, "chequeflow-reminders-2025-01-10.ics")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected export file %s: %v", path, err)
	}
	if !strings.Contains(string(data), "DTSTART;VALUE=DATE:20250210") {
		t.Errorf("Export does not start on the reminder date:\n%s", data)
	}
}

func TestRunExport_NothingPending(t *testing.T) {
	a, out := newTestApp(t)
	if err := a.run(context.Background(), "export", nil); err != nil {
		t.Fatalf("export returned an error: %v", err)
	}
	if !strings.Contains(out.String(), "No pending cheques") {
		t.Errorf("Unexpected output: %s", out.String())
	}
}

func TestRunImport(t *testing.T) {
	a, out := newTestApp(t)
	csvPath := filepath.Join(t.TempDir(), "cheques.csv")
	csv := "cheque_number,bank_name,payee_name,amount,due_date,branch\n" +
		"000200,HNB,Ceylon Tea,25000,2025-03-14,Kandy\n" +
		"000201,HNB,Ceylon Tea,abc,2025-03-14,Kandy\n"
	if err := os.WriteFile(csvPath, []byte(csv), 0644); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	err := a.run(context.Background(), "import", []string{csvPath})
	if err == nil {
		t.Error("Expected an error when a row fails")
	}
	if !strings.Contains(out.String(), "Imported 1 of 2 cheques") || !strings.Contains(out.String(), "line 3") {
		t.Errorf("Unexpected import output:\n%s", out.String())
	}
}

func TestRunIDCommands_InvalidID(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	cases := map[string][]string{
		"status":     {"not-a-uuid", "cleared"},
		"reschedule": {"not-a-uuid", "2025-02-10"},
		"recalc":     {"not-a-uuid"},
		"delete":     {"not-a-uuid"},
	}
	for cmd, args := range cases {
		if err := a.run(ctx, cmd, args); err == nil {
			t.Errorf("%s with an invalid id should fail", cmd)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	a, _ := newTestApp(t)
	if err := a.run(context.Background(), "frobnicate", nil); err == nil {
		t.Error("Expected an error for an unknown command")
	}
}

func TestRunSync_RequiresCredentials(t *testing.T) {
	a, _ := newTestApp(t)
	if err := a.run(context.Background(), "sync", nil); err == nil {
		t.Error("Expected sync to fail without Google settings")
	}
}
