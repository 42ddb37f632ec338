package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by ATOMSPACE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("ATOMSPACE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

// DatabaseURL is optional. When empty the snapshot archive is disabled.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// APIKey is the bearer token required on /v1 routes. Empty disables auth.
func APIKey() string {
	return os.Getenv("API_KEY")
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// MatchMaxSteps caps the unification steps spent on a single candidate.
// Defaults to 100000 if not set.
func MatchMaxSteps() int {
	steps, err := strconv.Atoi(os.Getenv("MATCH_MAX_STEPS"))
	if err != nil || steps <= 0 {
		return 100000
	}
	return steps
}

// MatchLiteralMode returns how literal nodes in patterns are checked.
// Valid values: existence (default), strict
func MatchLiteralMode() string {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("MATCH_LITERAL_MODE")))
	if mode == "strict" {
		return mode
	}
	return "existence"
}

// SnapshotInterval is the period of the scheduled snapshot archive.
// Zero or unset disables scheduled snapshots.
func SnapshotInterval() time.Duration {
	d, err := time.ParseDuration(os.Getenv("SNAPSHOT_INTERVAL"))
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}
