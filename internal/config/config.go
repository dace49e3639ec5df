package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strings" // strings splits list-valued variables
	"time"    // time parses duration-valued variables
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The admin gate is selected by AdminGate:
// "code" uses the shared admin code (plain or bcrypt-hashed), "token"
// verifies HS256 admin tokens signed with AdminTokenSecret.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port to listen on
	ServicesFile     string        // optional JSON file overriding the service catalog
	AdminGate        string        // "code" or "token"
	AdminCode        string        // shared admin code (gate=code)
	AdminCodeBcrypt  string        // bcrypt hash of the admin code; wins over AdminCode
	AdminAllowList   []string      // optional caller identities allowed through the code gate
	AdminTokenSecret string        // HMAC secret for the token gate (gate=token)
	StoreWaitTimeout time.Duration // bound on waiting for a service's transaction slot
	EventsEnabled    bool          // publish queue.updated events to RabbitMQ
	AuditConsumer    bool          // run the in-process audit log consumer
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:              must("APP_ENV"),                              // environment (dev/test/prod)
		Port:             must("APP_PORT"),                             // port to bind the HTTP server
		ServicesFile:     os.Getenv("SERVICES_FILE"),                   // catalog override (empty: built-in campus offices)
		AdminGate:        envStr("ADMIN_GATE", "code"),                 // admin gate selection
		AdminCode:        os.Getenv("ADMIN_CODE"),                      // shared admin code
		AdminCodeBcrypt:  os.Getenv("ADMIN_CODE_BCRYPT"),               // bcrypt hash of the admin code
		AdminAllowList:   envList("ADMIN_ALLOWLIST"),                   // comma-separated caller identities
		AdminTokenSecret: os.Getenv("ADMIN_TOKEN_SECRET"),              // token gate HMAC secret
		StoreWaitTimeout: envDur("STORE_WAIT_TIMEOUT", 2*time.Second),  // transaction slot wait bound
		EventsEnabled:    envBool("EVENTS_ENABLED", false),             // broker change feed
		AuditConsumer:    envBool("AUDIT_CONSUMER_ENABLED", false),     // audit log consumer
	}
	switch cfg.AdminGate {
	case "code":
		if cfg.AdminCode == "" && cfg.AdminCodeBcrypt == "" {
			log.Fatal("ADMIN_CODE or ADMIN_CODE_BCRYPT must be set when ADMIN_GATE=code")
		}
	case "token":
		if cfg.AdminTokenSecret == "" {
			log.Fatal("ADMIN_TOKEN_SECRET must be set when ADMIN_GATE=token")
		}
	default:
		log.Fatalf("unknown ADMIN_GATE value: %q (want \"code\" or \"token\")", cfg.AdminGate)
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envList splits a comma-separated environment variable into its
// non-empty trimmed entries.
func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
