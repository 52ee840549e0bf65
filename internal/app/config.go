package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"eudamed_scraper/internal/config"
	"eudamed_scraper/internal/eudamed"
	"eudamed_scraper/internal/notifications"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultOutputFile = "Eudamed_Manufacturers.xlsx"

// Settings holds everything the run reads from the environment.
type Settings struct {
	URL        string
	OutputPath string
	MaxPages   int
	Headless   bool
	Stealth    bool
	BrowserBin string

	SpreadsheetID   string
	SpreadsheetTab  string
	CredentialsFile string

	NtfyEnabled  bool
	NtfyURL      string
	NtfyTopic    string
	NtfyPriority string

	TuningFile string
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		// A scrape takes hours; progress lines are wanted even in production.
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return defaultValue, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}

// DefaultOutputPath is the workbook on the user's desktop.
func DefaultOutputPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultOutputFile
	}
	return filepath.Join(home, "Desktop", defaultOutputFile)
}

// LoadSettings reads the run settings from the environment.
func LoadSettings() (Settings, error) {
	s := Settings{
		URL:             GetEnvWithDefault("EUDAMED_URL", eudamed.DefaultURL),
		OutputPath:      GetEnvWithDefault("OUTPUT_PATH", DefaultOutputPath()),
		BrowserBin:      os.Getenv("BROWSER_BIN"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		SpreadsheetTab:  GetEnvWithDefault("SPREADSHEET_SHEET", eudamed.SheetName),
		CredentialsFile: GetEnvWithDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		NtfyURL:         GetEnvWithDefault("NTFY_URL", "https://ntfy.sh"),
		NtfyTopic:       GetEnvWithDefault("NTFY_TOPIC", "eudamed-scraper"),
		NtfyPriority:    os.Getenv("NTFY_PRIORITY"),
		TuningFile:      os.Getenv("TUNING_FILE"),
	}

	var err error
	if s.MaxPages, err = getEnvInt("MAX_PAGES", eudamed.DefaultMaxPages); err != nil {
		return s, err
	}
	if s.Headless, err = getEnvBool("HEADLESS", true); err != nil {
		return s, err
	}
	if s.Stealth, err = getEnvBool("STEALTH", false); err != nil {
		return s, err
	}
	if s.NtfyEnabled, err = getEnvBool("NTFY_ENABLED", false); err != nil {
		return s, err
	}

	log.Debug().
		Str("url", s.URL).
		Str("output", s.OutputPath).
		Int("max_pages", s.MaxPages).
		Bool("headless", s.Headless).
		Bool("stealth", s.Stealth).
		Bool("mirror", s.SpreadsheetID != "").
		Msg("Loaded settings")

	return s, nil
}

// InitializeNotificationClient creates and returns the notification client
func InitializeNotificationClient(s Settings, resilience config.ResilienceConfig) *notifications.Client {
	log.Debug().
		Bool("enabled", s.NtfyEnabled).
		Str("base_url", s.NtfyURL).
		Str("topic", s.NtfyTopic).
		Msg("Initializing notification client")

	client := notifications.NewClient(s.NtfyURL, s.NtfyTopic, s.NtfyEnabled, s.NtfyPriority, resilience.Notify)

	if s.NtfyEnabled {
		log.Info().Str("topic", s.NtfyTopic).Msg("Notifications enabled")
	} else {
		log.Debug().Msg("Notifications disabled")
	}

	return client
}
