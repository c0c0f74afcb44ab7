package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/beekhof/cheque-reminders/internal/config"
)

func printHelp() {
	fmt.Fprintf(os.Stderr, `ChequeFlow

Tracks post-dated cheques and reminds you about them on the next Sri Lankan
bank working day. Reminders that fall on a weekend, a public holiday or a
Full Moon Poya Day are moved forward and the skipped days are recorded.

USAGE:
    %s [OPTIONS] COMMAND [ARGS]

OPTIONS:
    -h, --help                     Show this help message and exit
    -v, --verbose                  Enable verbose output (show DEBUG logs)
    --config FILE                  Path to JSON config file (optional)
    --env-file FILE                Path to a .env file (default: .env, ignored if missing)
    --db PATH                      SQLite database path
                                   (overrides config file and CHEQUEFLOW_DB env var)
    --holidays FILE                JSON holiday table to use instead of the built-in one
                                   (overrides config file and HOLIDAY_TABLE_PATH env var)
    --export-dir DIR               Directory for exported .ics files
                                   (overrides config file and EXPORT_DIR env var)
    --google-credentials-path PATH Path to Google OAuth credentials JSON file
                                   (overrides config file and GOOGLE_CREDENTIALS_PATH env var)
    --google-token-path PATH       Path to store the Google OAuth token
                                   (overrides config file and GOOGLE_TOKEN_PATH env var)
    --sync-calendar-name NAME      Google calendar to sync into (default: Cheque Reminders)
                                   (overrides config file and SYNC_CALENDAR_NAME env var)
    --sync-calendar-color-id ID    Colour id for a newly created sync calendar (default: 7)
                                   (overrides config file and SYNC_CALENDAR_COLOR_ID env var)
    --upcoming-holidays N          Holidays listed by "holidays" without options (default: 5)
                                   (overrides config file and UPCOMING_HOLIDAYS env var)

COMMANDS:
    reminder DATE...               Show the reminder date for one or more due dates
    holidays [--month YYYY-MM] [--upcoming N] [--verify] [--dump]
                                   List holidays for a month, the next N holidays,
                                   check Good Friday dates, or print the table as JSON
    add --number N --bank B --payee P --amount A --due DATE --branch BR
        [--account AC] [--issue DATE] [--status S] [--notes TEXT]
                                   Record a cheque and compute its reminder
    list [--status S] [--branch BR] List cheques, newest first
    status ID STATUS               Mark a cheque pending, cleared or bounced
    reschedule ID DATE             Change the due date (the reminder is kept)
    recalc ID                      Recompute the reminder from the current due date
    delete ID                      Delete a cheque
    import FILE                    Import cheques from a CSV file
    export [--id ID]               Write pending cheques (or one cheque) to an .ics file
    sync                           Mirror pending cheques into Google Calendar

CONFIGURATION PRECEDENCE (highest to lowest):
    1. Command-line flags
    2. Environment variables (CHEQUEFLOW_DB, HOLIDAY_TABLE_PATH, EXPORT_DIR,
       GOOGLE_CREDENTIALS_PATH, GOOGLE_TOKEN_PATH, SYNC_CALENDAR_NAME,
       SYNC_CALENDAR_COLOR_ID, UPCOMING_HOLIDAYS)
    3. Config file (--config)
    4. Defaults

CONFIG FILE:
    {
      "database_path": "/path/to/chequeflow.db",
      "holiday_table_path": "",
      "export_dir": "/path/to/exports",
      "google_credentials_path": "/path/to/credentials.json",
      "google_token_path": "/path/to/token.json",
      "sync_calendar_name": "Cheque Reminders",
      "sync_calendar_color_id": "7",
      "upcoming_holidays": 5
    }

    The Google credentials JSON file should be in the format downloaded from
    Google Cloud Console. It should contain either an "installed" or "web"
    section with "client_id" and "client_secret" fields. Google settings are
    only needed for the sync command.

CSV IMPORT:
    The first row must be a header. Required columns: cheque_number, bank_name,
    payee_name, amount, due_date, branch. Optional: account_number, issue_date,
    status, notes. Dates use YYYY-MM-DD. Rows that fail are reported and skipped.

EXAMPLES:
    # When will I be reminded about a cheque due on 8 February 2025?
    %s reminder 2025-02-08

    # Record a cheque
    %s add --number 000123 --bank "Commercial Bank" --payee "Lanka Traders" \
        --amount 150000 --due 2025-02-08 --branch "Colombo 03"

    # Export pending cheques for Apple Calendar or Outlook
    %s --export-dir ~/Desktop export

    # Show help
    %s --help

`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

// globalFlags are the options accepted before the command name.
type globalFlags struct {
	help, helpShort       *bool
	verbose, verboseShort *bool
	configFile            *string
	envFile               *string
	dbPath                *string
	holidaysPath          *string
	exportDir             *string
	googleCredentialsPath *string
	googleTokenPath       *string
	calendarName          *string
	calendarColorID       *string
	upcomingHolidays      *int
}

func registerFlags(fs *flag.FlagSet) *globalFlags {
	return &globalFlags{
		help:                  fs.Bool("help", false, "Show help message"),
		helpShort:             fs.Bool("h", false, "Show help message (shorthand)"),
		verbose:               fs.Bool("verbose", false, "Enable verbose output (show DEBUG logs)"),
		verboseShort:          fs.Bool("v", false, "Enable verbose output (shorthand)"),
		configFile:            fs.String("config", "", "Path to JSON config file"),
		envFile:               fs.String("env-file", "", "Path to a .env file (default: .env, ignored if missing)"),
		dbPath:                fs.String("db", "", "SQLite database path (overrides config file and CHEQUEFLOW_DB env var)"),
		holidaysPath:          fs.String("holidays", "", "JSON holiday table (overrides config file and HOLIDAY_TABLE_PATH env var)"),
		exportDir:             fs.String("export-dir", "", "Directory for exported .ics files (overrides config file and EXPORT_DIR env var)"),
		googleCredentialsPath: fs.String("google-credentials-path", "", "Path to Google OAuth credentials JSON file (overrides config file and GOOGLE_CREDENTIALS_PATH env var)"),
		googleTokenPath:       fs.String("google-token-path", "", "Path to store the Google OAuth token (overrides config file and GOOGLE_TOKEN_PATH env var)"),
		calendarName:          fs.String("sync-calendar-name", "", "Google calendar to sync into (overrides config file and SYNC_CALENDAR_NAME env var)"),
		calendarColorID:       fs.String("sync-calendar-color-id", "", "Colour id for a newly created sync calendar (overrides config file and SYNC_CALENDAR_COLOR_ID env var)"),
		upcomingHolidays:      fs.Int("upcoming-holidays", 0, "Default number of holidays listed by the holidays command (overrides config file and UPCOMING_HOLIDAYS env var)"),
	}
}

func (g *globalFlags) overrides() config.Overrides {
	return config.Overrides{
		DatabasePath:          *g.dbPath,
		HolidayTablePath:      *g.holidaysPath,
		ExportDir:             *g.exportDir,
		GoogleCredentialsPath: *g.googleCredentialsPath,
		GoogleTokenPath:       *g.googleTokenPath,
		SyncCalendarName:      *g.calendarName,
		SyncCalendarColorID:   *g.calendarColorID,
		UpcomingHolidays:      *g.upcomingHolidays,
	}
}

func main() {
	flags := registerFlags(flag.CommandLine)
	flag.Usage = printHelp
	flag.Parse()

	verbose := *flags.verbose || *flags.verboseShort

	if *flags.help || *flags.helpShort || flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// An explicit --env-file must exist; the default .env is optional.
	if *flags.envFile != "" {
		if err := config.LoadEnvFile(*flags.envFile, true); err != nil {
			log.Fatalf("Failed to load env file: %v", err)
		}
	} else if err := config.LoadEnvFile(".env", false); err != nil {
		log.Fatalf("Failed to load env file: %v", err)
	}

	cfg, err := config.LoadConfig(*flags.configFile, flags.overrides())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, cfg, verbose)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	err = a.run(ctx, flag.Arg(0), flag.Args()[1:])
	if cerr := a.close(); cerr != nil {
		log.Printf("Warning: failed to close database: %v", cerr)
	}
	if err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}
