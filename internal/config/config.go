package config

import (
	"flag"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultRunAddress       = ":8080"
	DefaultDatabaseURI      = ""
	DefaultOrdersAPIAddress = "http://localhost:4000"
	DefaultSecretKey        = "secret"
	DefaultTokenLifetime    = 12 * time.Hour
	DefaultPassCost         = 3
	DefaultCacheTTL         = 30 * time.Second
	DefaultPingInterval     = 10 * time.Minute
	DefaultBulkWorkers      = 8
)

type Config struct {
	RunAddress       string        `env:"RUN_ADDRESS"`
	DatabaseURI      string        `env:"DATABASE_URI"`
	OrdersAPIAddress string        `env:"ORDERS_API_ADDRESS"`
	SecretKey        string        `env:"SECRET_KEY"`
	TokenLifetime    time.Duration `env:"TOKEN_LIFETIME"`
	PassCost         int           `env:"PASS_COST"`
	CacheTTL         time.Duration `env:"CACHE_TTL"`
	PingInterval     time.Duration `env:"HEALTH_PING_INTERVAL"`
	BulkWorkers      int           `env:"BULK_WORKERS"`

	// bcrypt hashes of the per-role access keys; empty hash disables the
	// role for token sessions (the X-User-Role header still works).
	GoRushKeyHash string `env:"GORUSH_ACCESS_KEY_HASH"`
	JPMCKeyHash   string `env:"JPMC_ACCESS_KEY_HASH"`
	MOHKeyHash    string `env:"MOH_ACCESS_KEY_HASH"`

	// HashAccessKey switches the binary to a one-shot mode: print the
	// bcrypt hash (at PassCost) for the given key and exit.
	HashAccessKey string `env:"-"`
}

func Read() (Config, error) {
	config := Config{}

	flag.StringVar(&config.RunAddress, "a", DefaultRunAddress, "Server run address")
	flag.StringVar(&config.DatabaseURI, "d", DefaultDatabaseURI, "Database connect string")
	flag.StringVar(&config.OrdersAPIAddress, "r", DefaultOrdersAPIAddress, "Orders API address protocol://hostname:port")

	flag.StringVar(&config.SecretKey, "s", DefaultSecretKey, "Secret key for role session tokens")
	flag.DurationVar(&config.TokenLifetime, "t", DefaultTokenLifetime, "Token lifetime (e.g. 1h, 30m, 2h30m)")
	flag.IntVar(&config.PassCost, "p", DefaultPassCost, "Bcrypt cost for access key hashing")
	flag.StringVar(&config.HashAccessKey, "k", "", "Print the bcrypt hash for this access key and exit")

	flag.DurationVar(&config.CacheTTL, "c", DefaultCacheTTL, "Orders cache TTL")
	flag.DurationVar(&config.PingInterval, "i", DefaultPingInterval, "Upstream health ping interval")
	flag.IntVar(&config.BulkWorkers, "w", DefaultBulkWorkers, "Workers for bulk order updates")

	flag.Parse()

	err := env.Parse(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
