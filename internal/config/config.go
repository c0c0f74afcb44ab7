package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultDatabasePath     = "chequeflow.db"
	DefaultExportDir        = "."
	DefaultCalendarName     = "Cheque Reminders"
	DefaultCalendarColorID  = "7"
	DefaultUpcomingHolidays = 5
)

// GoogleCredentials represents the structure of Google OAuth credentials JSON file.
type GoogleCredentials struct {
	Installed struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	} `json:"installed"`
	Web struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	} `json:"web"`
}

// LoadGoogleCredentials loads Google OAuth credentials from a JSON file.
func LoadGoogleCredentials(path string) (clientID, clientSecret string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds GoogleCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", "", fmt.Errorf("failed to parse credentials file: %w", err)
	}

	// Desktop apps use "installed", web apps use "web".
	if creds.Installed.ClientID != "" {
		return creds.Installed.ClientID, creds.Installed.ClientSecret, nil
	}
	if creds.Web.ClientID != "" {
		return creds.Web.ClientID, creds.Web.ClientSecret, nil
	}

	return "", "", fmt.Errorf("no client_id found in credentials file (expected 'installed' or 'web' section)")
}

// Config holds the configuration for the cheque reminder tool.
type Config struct {
	DatabasePath     string `json:"database_path,omitempty"`
	HolidayTablePath string `json:"holiday_table_path,omitempty"` // empty means the built-in Sri Lankan table
	ExportDir        string `json:"export_dir,omitempty"`

	GoogleCredentialsPath string `json:"google_credentials_path,omitempty"`
	GoogleTokenPath       string `json:"google_token_path,omitempty"`
	SyncCalendarName      string `json:"sync_calendar_name,omitempty"`
	SyncCalendarColorID   string `json:"sync_calendar_color_id,omitempty"`

	UpcomingHolidays int `json:"upcoming_holidays,omitempty"`
}

// Overrides holds values given on the command line. Empty fields are ignored.
type Overrides struct {
	DatabasePath          string
	HolidayTablePath      string
	ExportDir             string
	GoogleCredentialsPath string
	GoogleTokenPath       string
	SyncCalendarName      string
	SyncCalendarColorID   string
	UpcomingHolidays      int
}

// LoadEnvFile loads variables from a dotenv file without overwriting ones
// already set. A missing file is not an error unless required is set.
func LoadEnvFile(path string, required bool) error {
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// LoadConfigFromFile loads configuration from a JSON file.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// LoadConfig loads configuration with the following precedence (highest to lowest):
// 1. Command-line flags
// 2. Environment variables
// 3. Config file
// 4. Defaults
func LoadConfig(configFile string, flags Overrides) (*Config, error) {
	var config Config

	// Step 1: Load from config file if provided
	if configFile != "" {
		fileConfig, err := LoadConfigFromFile(configFile)
		if err != nil {
			return nil, err
		}
		config = *fileConfig
	}

	// Step 2: Override with environment variables
	envStrings := []struct {
		name string
		dst  *string
	}{
		{"CHEQUEFLOW_DB", &config.DatabasePath},
		{"HOLIDAY_TABLE_PATH", &config.HolidayTablePath},
		{"EXPORT_DIR", &config.ExportDir},
		{"GOOGLE_CREDENTIALS_PATH", &config.GoogleCredentialsPath},
		{"GOOGLE_TOKEN_PATH", &config.GoogleTokenPath},
		{"SYNC_CALENDAR_NAME", &config.SyncCalendarName},
		{"SYNC_CALENDAR_COLOR_ID", &config.SyncCalendarColorID},
	}
	for _, env := range envStrings {
		if v := os.Getenv(env.name); v != "" {
			*env.dst = v
		}
	}
	if upcoming := os.Getenv("UPCOMING_HOLIDAYS"); upcoming != "" {
		n, err := strconv.Atoi(upcoming)
		if err != nil {
			return nil, fmt.Errorf("invalid UPCOMING_HOLIDAYS value: %w", err)
		}
		config.UpcomingHolidays = n
	}

	// Step 3: Override with command-line flags (highest priority)
	overrideString(&config.DatabasePath, flags.DatabasePath)
	overrideString(&config.HolidayTablePath, flags.HolidayTablePath)
	overrideString(&config.ExportDir, flags.ExportDir)
	overrideString(&config.GoogleCredentialsPath, flags.GoogleCredentialsPath)
	overrideString(&config.GoogleTokenPath, flags.GoogleTokenPath)
	overrideString(&config.SyncCalendarName, flags.SyncCalendarName)
	overrideString(&config.SyncCalendarColorID, flags.SyncCalendarColorID)
	if flags.UpcomingHolidays != 0 {
		config.UpcomingHolidays = flags.UpcomingHolidays
	}

	// Step 4: Apply defaults and validate
	if config.DatabasePath == "" {
		config.DatabasePath = DefaultDatabasePath
	}
	if config.ExportDir == "" {
		config.ExportDir = DefaultExportDir
	}
	if config.SyncCalendarName == "" {
		config.SyncCalendarName = DefaultCalendarName
	}
	if config.SyncCalendarColorID == "" {
		config.SyncCalendarColorID = DefaultCalendarColorID
	}
	if config.UpcomingHolidays == 0 {
		config.UpcomingHolidays = DefaultUpcomingHolidays
	}
	if config.UpcomingHolidays < 0 {
		return nil, fmt.Errorf("upcoming_holidays must be positive, got %d", config.UpcomingHolidays)
	}

	return &config, nil
}

// ValidateSync checks the settings only needed to sync with Google Calendar.
func (c *Config) ValidateSync() error {
	if c.GoogleCredentialsPath == "" {
		return fmt.Errorf("google_credentials_path must be provided via --google-credentials-path flag, GOOGLE_CREDENTIALS_PATH environment variable, or config file")
	}
	if c.GoogleTokenPath == "" {
		return fmt.Errorf("google_token_path must be provided via --google-token-path flag, GOOGLE_TOKEN_PATH environment variable, or config file")
	}
	return nil
}

func overrideString(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}
