package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"cloud.google.com/go/civil"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beekhof/cheque-reminders/internal/auth"
	"github.com/beekhof/cheque-reminders/internal/cheque"
	"github.com/beekhof/cheque-reminders/internal/config"
	"github.com/beekhof/cheque-reminders/internal/gcal"
	"github.com/beekhof/cheque-reminders/internal/holiday"
	"github.com/beekhof/cheque-reminders/internal/ics"
	"github.com/beekhof/cheque-reminders/internal/importer"
	"github.com/beekhof/cheque-reminders/internal/reminder"
	"github.com/beekhof/cheque-reminders/internal/store"
	"github.com/beekhof/cheque-reminders/internal/sync"
	"github.com/beekhof/cheque-reminders/internal/workday"
)

var (
	statusColors = map[cheque.Status]*color.Color{
		cheque.StatusPending: color.New(color.FgYellow),
		cheque.StatusCleared: color.New(color.FgGreen),
		cheque.StatusBounced: color.New(color.FgRed),
	}
	warn = color.New(color.FgRed).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

// app wires the holiday table, reminder resolver and cheque store together
// for a single command.
type app struct {
	cfg      *config.Config
	verbose  bool
	out      io.Writer
	now      func() time.Time
	table    *holiday.Table
	resolver *reminder.Resolver

	// opened on first use
	store *store.Store
	svc   *cheque.Service
}

func newApp(ctx context.Context, cfg *config.Config, verbose bool) (*app, error) {
	table := holiday.SriLanka()
	if cfg.HolidayTablePath != "" {
		var err error
		if table, err = holiday.LoadFile(cfg.HolidayTablePath); err != nil {
			return nil, err
		}
		if verbose {
			log.Printf("DEBUG: loaded holiday table from %s", cfg.HolidayTablePath)
		}
	}

	return &app{
		cfg:      cfg,
		verbose:  verbose,
		out:      os.Stdout,
		now:      time.Now,
		table:    table,
		resolver: reminder.NewResolver(workday.NewCalculator(table)),
	}, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *app) today() civil.Date {
	return civil.DateOf(a.now())
}

// service opens the database on first use.
func (a *app) service(ctx context.Context) (*cheque.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	s, err := store.Open(ctx, a.cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if a.verbose {
		log.Printf("DEBUG: opened database %s", a.cfg.DatabasePath)
	}
	a.store = s
	a.svc = cheque.NewService(s, a.resolver)
	return a.svc, nil
}

// warnOutOfRange notes when d lies outside the years the table knows
// variable holidays for.
func (a *app) warnOutOfRange(d civil.Date) {
	first, last := a.table.Years()
	if first == 0 || (d.Year >= first && d.Year <= last) {
		return
	}
	log.Printf("Warning: holiday table covers %d-%d; only fixed holidays are known for %d", first, last, d.Year)
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "reminder":
		return a.cmdReminder(args)
	case "holidays":
		return a.cmdHolidays(args)
	case "add":
		return a.cmdAdd(ctx, args)
	case "list":
		return a.cmdList(ctx, args)
	case "status":
		return a.cmdStatus(ctx, args)
	case "reschedule":
		return a.cmdReschedule(ctx, args)
	case "recalc":
		return a.cmdRecalc(ctx, args)
	case "delete":
		return a.cmdDelete(ctx, args)
	case "import":
		return a.cmdImport(ctx, args)
	case "export":
		return a.cmdExport(ctx, args)
	case "sync":
		return a.cmdSync(ctx, args)
	default:
		return fmt.Errorf("unknown command %q, use --help for a list of commands", command)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return d, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid cheque id %q: %w", s, err)
	}
	return id, nil
}

func expectArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func weekdayOf(d civil.Date) string {
	return d.In(time.UTC).Weekday().String()
}

func (a *app) cmdReminder(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: reminder DATE...")
	}

	dues := make([]civil.Date, 0, len(args))
	for _, arg := range args {
		d, err := parseDate(arg)
		if err != nil {
			return err
		}
		a.warnOutOfRange(d)
		dues = append(dues, d)
	}

	reminders, err := a.resolver.ResolveAll(dues)
	if err != nil {
		return err
	}
	for _, r := range reminders {
		if !r.Adjusted {
			fmt.Fprintf(a.out, "%s (%s): bank working day, reminder on the due date\n",
				r.DueDate, weekdayOf(r.DueDate))
			continue
		}
		fmt.Fprintf(a.out, "%s (%s): reminder moved to %s (%s), skipped %s\n",
			r.DueDate, weekdayOf(r.DueDate), bold(r.ReminderDate.String()), weekdayOf(r.ReminderDate),
			strings.Join(r.SkippedDays, ", "))
	}
	return nil
}

func (a *app) cmdHolidays(args []string) error {
	fs := newFlagSet("holidays")
	month := fs.String("month", "", "List holidays in this month (YYYY-MM)")
	upcoming := fs.Int("upcoming", a.cfg.UpcomingHolidays, "Number of upcoming holidays to list")
	verify := fs.Bool("verify", false, "Check Good Friday entries against the Easter computus")
	dump := fs.Bool("dump", false, "Print the holiday table as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *dump:
		return holiday.Encode(a.out, a.table)

	case *verify:
		discrepancies := holiday.Audit(a.table)
		if len(discrepancies) == 0 {
			first, last := a.table.Years()
			fmt.Fprintf(a.out, "Good Friday entries match for %d-%d\n", first, last)
			return nil
		}
		for _, d := range discrepancies {
			fmt.Fprintln(a.out, warn(d.String()))
		}
		return fmt.Errorf("%d holiday table discrepancies", len(discrepancies))

	case *month != "":
		t, err := time.Parse("2006-01", *month)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected YYYY-MM)", *month)
		}
		a.warnOutOfRange(civil.Date{Year: t.Year(), Month: t.Month(), Day: 1})
		holidays := a.table.ForMonth(t.Year(), t.Month())
		if len(holidays) == 0 {
			fmt.Fprintf(a.out, "No holidays in %s\n", t.Format("January 2006"))
			return nil
		}
		for _, h := range holidays {
			d := civil.Date{Year: t.Year(), Month: h.Month, Day: h.Day}
			fmt.Fprintf(a.out, "%s  %-9s  %s\n", d, weekdayOf(d), h.Name)
		}
		return nil

	default:
		for _, o := range a.table.Upcoming(a.today(), *upcoming) {
			fmt.Fprintf(a.out, "%s  %-9s  %s\n", o.Date, weekdayOf(o.Date), o.Name)
		}
		return nil
	}
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	fs := newFlagSet("add")
	number := fs.String("number", "", "Cheque number")
	bank := fs.String("bank", "", "Bank name")
	account := fs.String("account", "", "Account number")
	payee := fs.String("payee", "", "Payee name")
	amount := fs.String("amount", "", "Amount in LKR")
	issue := fs.String("issue", "", "Issue date (YYYY-MM-DD)")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	status := fs.String("status", "", "Status: pending, cleared or bounced (default pending)")
	branch := fs.String("branch", "", "Branch")
	notes := fs.String("notes", "", "Notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := cheque.Input{
		ChequeNumber:  *number,
		BankName:      *bank,
		AccountNumber: *account,
		PayeeName:     *payee,
		Branch:        *branch,
		Notes:         *notes,
	}
	var err error
	if in.Amount, err = decimal.NewFromString(strings.ReplaceAll(*amount, ",", "")); err != nil {
		return fmt.Errorf("invalid amount %q", *amount)
	}
	if in.DueDate, err = parseDate(*due); err != nil {
		return err
	}
	if *issue != "" {
		if in.IssueDate, err = parseDate(*issue); err != nil {
			return err
		}
	}
	if *status != "" {
		if in.Status, err = cheque.ParseStatus(*status); err != nil {
			return err
		}
	}
	a.warnOutOfRange(in.DueDate)

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	c, err := svc.Add(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added cheque %s (%s)\n", c.ChequeNumber, c.ID)
	a.printReminder(c)
	return nil
}

func (a *app) printReminder(c *cheque.Cheque) {
	if note := c.AdjustmentNote(); note != "" {
		fmt.Fprintln(a.out, note)
		return
	}
	fmt.Fprintf(a.out, "Reminder on %s\n", c.EffectiveDate())
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	fs := newFlagSet("list")
	status := fs.String("status", "", "Only show cheques with this status")
	branch := fs.String("branch", "", "Only show cheques from this branch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := cheque.Filter{Branch: *branch}
	if *status != "" {
		st, err := cheque.ParseStatus(*status)
		if err != nil {
			return err
		}
		filter.Status = st
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	cheques, err := svc.List(ctx, filter)
	if err != nil {
		return err
	}
	if len(cheques) == 0 {
		fmt.Fprintln(a.out, "No cheques found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tPAYEE\tAMOUNT\tDUE\tREMINDER\tSTATUS\tID")
	for _, c := range cheques {
		rem := c.EffectiveDate().String()
		if c.IsHolidayAdjusted {
			rem += "*"
		}
		st := string(c.Status)
		if col, ok := statusColors[c.Status]; ok {
			st = col.Sprint(st)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ChequeNumber, c.PayeeName, cheque.FormatAmount(c.Amount), c.DueDate, rem, st, c.ID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "* reminder moved to the next bank working day")
	return nil
}

func (a *app) cmdStatus(ctx context.Context, args []string) error {
	if err := expectArgs(args, 2, "status ID STATUS"); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	st, err := cheque.ParseStatus(args[1])
	if err != nil {
		return err
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	c, err := svc.SetStatus(ctx, id, st)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cheque %s is now %s\n", c.ChequeNumber, c.Status)
	return nil
}

func (a *app) cmdReschedule(ctx context.Context, args []string) error {
	if err := expectArgs(args, 2, "reschedule ID DATE"); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	due, err := parseDate(args[1])
	if err != nil {
		return err
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	c, err := svc.Reschedule(ctx, id, due)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cheque %s now due on %s. Reminder kept at %s; run recalc %s to update it.\n",
		c.ChequeNumber, c.DueDate, c.EffectiveDate(), c.ID)
	return nil
}

func (a *app) cmdRecalc(ctx context.Context, args []string) error {
	if err := expectArgs(args, 1, "recalc ID"); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	c, err := svc.Recalculate(ctx, id)
	if err != nil {
		return err
	}
	a.printReminder(c)
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	if err := expectArgs(args, 1, "delete ID"); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	if err := svc.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted cheque %s\n", id)
	return nil
}

func (a *app) cmdImport(ctx context.Context, args []string) error {
	if err := expectArgs(args, 1, "import FILE"); err != nil {
		return err
	}
	rows, err := importer.ReadFile(args[0])
	if err != nil {
		return err
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	res, err := importer.Import(ctx, svc, rows)
	if err != nil {
		return err
	}

	adjusted := 0
	for _, c := range res.Imported {
		if c.IsHolidayAdjusted {
			adjusted++
		}
	}
	fmt.Fprintf(a.out, "Imported %d of %d cheques (%d reminders moved for holidays or weekends)\n",
		len(res.Imported), len(rows), adjusted)
	for _, f := range res.Failed {
		fmt.Fprintln(a.out, warn(f.Error()))
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d row(s) failed", len(res.Failed))
	}
	return nil
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	fs := newFlagSet("export")
	idFlag := fs.String("id", "", "Export only this cheque")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.cfg.ExportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	var path string
	if *idFlag != "" {
		id, err := parseID(*idFlag)
		if err != nil {
			return err
		}
		c, err := svc.Get(ctx, id)
		if err != nil {
			return err
		}
		if path, err = ics.ExportCheque(a.cfg.ExportDir, c, a.now()); err != nil {
			return err
		}
	} else {
		pending, err := svc.Pending(ctx)
		if err != nil {
			return err
		}
		if path, err = ics.ExportPending(a.cfg.ExportDir, pending, a.now()); err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintln(a.out, "No pending cheques to export")
			return nil
		}
	}

	fmt.Fprintf(a.out, "Wrote %s\n", path)
	return nil
}

func (a *app) cmdSync(ctx context.Context, args []string) error {
	if err := expectArgs(args, 0, "sync"); err != nil {
		return err
	}
	if err := a.cfg.ValidateSync(); err != nil {
		return err
	}

	clientID, clientSecret, err := config.LoadGoogleCredentials(a.cfg.GoogleCredentialsPath)
	if err != nil {
		return fmt.Errorf("failed to load Google credentials: %w", err)
	}
	httpClient, err := auth.GetAuthenticatedClient(ctx, auth.NewGoogleConfig(clientID, clientSecret),
		auth.NewFileTokenStore(a.cfg.GoogleTokenPath))
	if err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	client, err := gcal.NewClient(ctx, httpClient)
	if err != nil {
		return err
	}

	if _, err := a.service(ctx); err != nil {
		return err
	}
	stats, err := sync.NewSyncer(client, a.store, a.cfg, a.verbose).Sync(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Sync finished: %s\n", stats)
	if stats.Errors > 0 {
		return errors.New("some cheques failed to sync, see log for details")
	}
	return nil
}
