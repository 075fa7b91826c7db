package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Settings *AppSettings

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SessionBackendSQL   = "sql"
	SessionBackendRedis = "redis"
)

type AppSettings struct {
	Title       string
	Environment string
	LogLevel    string
	Domain      string
	Port        string

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     int
	DBSSL      bool
	SQLitePath string

	SessionSecret  string
	SessionExpires time.Duration
	SessionBackend string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BcryptCost         int
	CrisisResourceName string
	SeedCatalog        bool

	CORSOrigins []string
	RateLimit   float64
	RateBurst   int
}

var envBindings = map[string]string{
	"environment":          "APP_ENV",
	"log_level":            "LOG_LEVEL",
	"domain":               "DOMAIN",
	"port":                 "PORT",
	"db.driver":            "DB_DRIVER",
	"db.host":              "RDS_HOSTNAME",
	"db.user":              "RDS_USERNAME",
	"db.password":          "RDS_PASSWORD",
	"db.name":              "RDS_DB_NAME",
	"db.port":              "RDS_PORT",
	"db.ssl":               "DB_SSL",
	"db.sqlite_path":       "SQLITE_PATH",
	"session.secret":       "SESSION_SECRET",
	"session.expires":      "SESSION_EXPIRES",
	"session.backend":      "SESSION_BACKEND",
	"redis.addr":           "REDIS_ADDR",
	"redis.password":       "REDIS_PASSWORD",
	"redis.db":             "REDIS_DB",
	"bcrypt_cost":          "BCRYPT_COST",
	"crisis_resource_name": "CRISIS_RESOURCE_NAME",
	"seed_catalog":         "SEED_CATALOG",
	"cors_origins":         "CORS_ORIGINS",
	"rate.limit":           "RATE_LIMIT",
	"rate.burst":           "RATE_BURST",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "debug")
	v.SetDefault("domain", "localhost")
	v.SetDefault("port", "3000")

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "admin")
	v.SetDefault("db.name", "project3")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.ssl", false)
	v.SetDefault("db.sqlite_path", "file:resourcehub.sqlite")

	v.SetDefault("session.secret", "fallback-secret-key")
	v.SetDefault("session.expires", "720h")
	v.SetDefault("session.backend", SessionBackendSQL)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("crisis_resource_name", "988 Suicide & Crisis Lifeline")
	v.SetDefault("seed_catalog", true)

	v.SetDefault("cors_origins", "")
	v.SetDefault("rate.limit", 20)
	v.SetDefault("rate.burst", 60)
}

func NewSettings() *AppSettings {
	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	settings := AppSettings{
		Title:              "Resource Hub",
		Environment:        v.GetString("environment"),
		LogLevel:           v.GetString("log_level"),
		Domain:             v.GetString("domain"),
		Port:               v.GetString("port"),
		DBDriver:           strings.ToLower(v.GetString("db.driver")),
		DBHost:             v.GetString("db.host"),
		DBUser:             v.GetString("db.user"),
		DBPassword:         v.GetString("db.password"),
		DBName:             v.GetString("db.name"),
		DBPort:             v.GetInt("db.port"),
		DBSSL:              v.GetBool("db.ssl"),
		SQLitePath:         v.GetString("db.sqlite_path"),
		SessionSecret:      v.GetString("session.secret"),
		SessionExpires:     v.GetDuration("session.expires"),
		SessionBackend:     strings.ToLower(v.GetString("session.backend")),
		RedisAddr:          v.GetString("redis.addr"),
		RedisPassword:      v.GetString("redis.password"),
		RedisDB:            v.GetInt("redis.db"),
		BcryptCost:         v.GetInt("bcrypt_cost"),
		CrisisResourceName: v.GetString("crisis_resource_name"),
		SeedCatalog:        v.GetBool("seed_catalog"),
		CORSOrigins:        splitList(v.GetString("cors_origins")),
		RateLimit:          v.GetFloat64("rate.limit"),
		RateBurst:          v.GetInt("rate.burst"),
	}
	if !strings.HasPrefix(settings.Port, ":") {
		settings.Port = ":" + settings.Port
	}
	if settings.SessionExpires <= 0 {
		settings.SessionExpires = 30 * 24 * time.Hour
	}
	return &settings
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (as *AppSettings) IsProduction() bool {
	return as.Environment == "production"
}

func (as *AppSettings) BaseURL() string {
	if as.Domain == "localhost" {
		return fmt.Sprintf("http://%s%s", as.Domain, as.Port)
	} else {
		return fmt.Sprintf("https://%s", as.Domain)
	}
}

// PostgresDSN builds a pgx connection string. DB_SSL mirrors the usual managed
// database setup: encrypted, without certificate verification.
func (as *AppSettings) PostgresDSN() string {
	sslmode := "disable"
	if as.DBSSL {
		sslmode = "require"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(as.DBUser, as.DBPassword),
		Host:     as.DBHost + ":" + strconv.Itoa(as.DBPort),
		Path:     "/" + as.DBName,
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	return u.String()
}

func (as *AppSettings) SQLiteDbString() string {
	params := make(url.Values)
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_txlock", "immediate")

	sep := "?"
	if strings.Contains(as.SQLitePath, "?") {
		sep = "&"
	}
	return as.SQLitePath + sep + params.Encode()
}

// ReadDotenv loads variables from path into the environment. A missing file is
// not an error; variables already set in the environment win.
func ReadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
