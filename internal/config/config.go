package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits the region list
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// expressed in minutes or seconds.
type Config struct {
	Env               string            // application environment (e.g. "dev", "prod")
	Port              string            // HTTP port to listen on
	DBUser            string            // database username
	DBPass            string            // database password (optional)
	DBHost            string            // database host address
	DBPort            string            // database port number
	Regions           []string          // closed set of region names, one schema each
	RegionDBNames     map[string]string // region name -> database/schema name
	JWTSecret         string            // secret used to verify JWTs
	ReservationTTLMin int               // minutes a pending reservation survives without payment
	SweepIntervalSec  int               // seconds between expiry sweeps
	ScheduleBufferMin int               // cleaning gap enforced between shows in a hall
	MaxRuntimeMin     int               // floor for the overlap prefilter window, widened to the longest stored runtime
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The region list is
// parsed from REGIONS; each region resolves its schema name from
// DB_NAME_<REGION>, falling back to "cinema_<region>".
func Load() Config {
	cfg := Config{
		Env:               must("APP_ENV"),      // environment (dev/test/prod)
		Port:              must("APP_PORT"),     // port to bind the HTTP server
		DBUser:            must("DB_USER"),      // database user
		DBPass:            os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:            must("DB_HOST"),      // database host
		DBPort:            must("DB_PORT"),      // database port
		JWTSecret:         must("JWT_SECRET"),   // secret used for verifying JWTs
		Regions:           ParseRegions(getenv("REGIONS", "krakow,warsaw")),
		ReservationTTLMin: intOr("RESERVATION_TTL_MIN", 15),
		SweepIntervalSec:  intOr("SWEEP_INTERVAL_SEC", 60),
		ScheduleBufferMin: intOr("SCHEDULE_BUFFER_MIN", 0),
		MaxRuntimeMin:     intOr("MAX_RUNTIME_MIN", 360),
	}
	if len(cfg.Regions) == 0 {
		log.Fatalf("REGIONS must name at least one region")
	}
	cfg.RegionDBNames = make(map[string]string, len(cfg.Regions))
	for _, r := range cfg.Regions {
		key := "DB_NAME_" + strings.ToUpper(r)
		cfg.RegionDBNames[r] = getenv(key, "cinema_"+r)
	}
	return cfg
}

// ParseRegions splits a comma separated region list, trimming whitespace
// and lowercasing each entry.  Empty entries are dropped.
func ParseRegions(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
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

// intOr retrieves an optional integer environment variable, returning the
// provided default when the variable is unset.  A malformed value is a
// configuration error and exits the program.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
