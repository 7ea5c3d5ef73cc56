package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses sweeper durations
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for the
// sweeper cadence and scheduling policy defaults.
type Config struct {
	Env                 string        // application environment (e.g. "dev", "prod")
	Port                string        // HTTP port to listen on
	DBUser              string        // database username
	DBPass              string        // database password (optional)
	DBHost              string        // database host address
	DBPort              string        // database port number
	DBName              string        // database name
	JWTSecret           string        // secret used to verify JWTs issued by the identity service
	SweepInterval       time.Duration // cadence of the auto-completion sweeper
	SweepRowTimeout     time.Duration // per-booking bound within one sweep pass
	CancelLeadTimeHours int           // default reason-required window for tenants without settings
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The sweeper cadence
// is a deployment knob, not a correctness requirement, so it has a default.
func Load() Config {
	return Config{
		Env:                 must("APP_ENV"),      // environment (dev/test/prod)
		Port:                must("APP_PORT"),     // port to bind the HTTP server
		DBUser:              must("DB_USER"),      // database user
		DBPass:              os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:              must("DB_HOST"),      // database host
		DBPort:              must("DB_PORT"),      // database port
		DBName:              must("DB_NAME"),      // database name
		JWTSecret:           must("JWT_SECRET"),   // secret used for verifying JWTs
		SweepInterval:       envDuration("SWEEP_INTERVAL", 5*time.Minute),
		SweepRowTimeout:     envDuration("SWEEP_ROW_TIMEOUT", 5*time.Second),
		CancelLeadTimeHours: envIntDefault("CANCEL_LEAD_TIME_HOURS", 24),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envDuration reads an optional duration variable ("5m", "30s"),
// returning the default when unset or unparseable.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, v)
	}
	return d
}

// envIntDefault reads an optional integer variable, returning the
// default when unset.
func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
