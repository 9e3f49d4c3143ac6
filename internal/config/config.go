package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"crm-analytics/internal/crm"

	"github.com/joho/godotenv"
)

// FailurePolicy decides what an execution does when a module's upstream fetch fails.
type FailurePolicy string

const (
	FailureAbort   FailurePolicy = "abort"
	FailureDegrade FailurePolicy = "degrade"
)

// Upstream locates the service owning one module's records.
type Upstream struct {
	BaseURL   string
	Path      string
	OnFailure FailurePolicy
}

// URL joins the base URL and path with exactly one slash.
func (u Upstream) URL() string {
	return strings.TrimRight(u.BaseURL, "/") + "/" + strings.TrimLeft(u.Path, "/")
}

type Config struct {
	Port            string
	MongoURI        string
	DBName          string
	Environment     string
	AppId           string
	AllowOrigins    string
	RequestTimeout  time.Duration
	UpstreamTimeout time.Duration
	TileTimeout     time.Duration
	Upstreams       map[crm.Module]Upstream
}

// IsProduction reports whether the service runs with production logging.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Upstream returns the configured upstream for m, falling back to the built-in defaults.
func (c *Config) Upstream(m crm.Module) Upstream {
	if u, ok := c.Upstreams[m]; ok {
		return u
	}
	return defaultUpstreams[m]
}

var defaultUpstreams = map[crm.Module]Upstream{
	crm.ModuleLead:        {BaseURL: "http://localhost:4004", Path: "/api/leads", OnFailure: FailureAbort},
	crm.ModuleAccount:     {BaseURL: "http://localhost:4003", Path: "/api/account", OnFailure: FailureAbort},
	crm.ModuleContact:     {BaseURL: "http://localhost:4003", Path: "/api/contact", OnFailure: FailureDegrade},
	crm.ModuleOpportunity: {BaseURL: "http://localhost:4002", Path: "/api/opportunity", OnFailure: FailureDegrade},
	crm.ModuleSalesQuotes: {BaseURL: "http://localhost:4002", Path: "/api/sales-quote", OnFailure: FailureDegrade},
	crm.ModuleSalesOrder:  {BaseURL: "http://localhost:4002", Path: "/api/sales-order", OnFailure: FailureDegrade},
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:       getEnv("DB_NAME", "crm-analytics"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		AppId:        getEnv("APP_ID", "crm-analytics"),
		AllowOrigins: getEnv("ALLOW_ORIGINS", "http://localhost:3000, http://localhost:3001"),
		Upstreams:    make(map[crm.Module]Upstream, len(defaultUpstreams)),
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.UpstreamTimeout, err = getDuration("UPSTREAM_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.TileTimeout, err = getDuration("TILE_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	for _, m := range crm.Modules() {
		def := defaultUpstreams[m]
		prefix := string(m) + "_SERVICE_"
		u := Upstream{
			BaseURL:   getEnv(prefix+"URL", def.BaseURL),
			Path:      getEnv(prefix+"PATH", def.Path),
			OnFailure: FailurePolicy(strings.ToLower(getEnv(string(m)+"_ON_FAILURE", string(def.OnFailure)))),
		}
		if u.OnFailure != FailureAbort && u.OnFailure != FailureDegrade {
			return nil, fmt.Errorf("%s_ON_FAILURE must be abort or degrade, got %q", m, u.OnFailure)
		}
		cfg.Upstreams[m] = u
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
