package reflookup

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/reflookup/internal/usecase/autocomplete"
	"github.com/kailas-cloud/reflookup/internal/usecase/execution"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver    string // "redis", "badger" or "" for in-memory history
	addrs     []string
	path      string
	password  string
	keyPrefix string

	catalogURL     string
	catalogTimeout time.Duration
	httpClient     *http.Client

	tiers       []Tier
	poolSize    int
	minLength   int
	replayDelay time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		keyPrefix:      "reflookup:",
		catalogTimeout: 10 * time.Second,
		poolSize:       16,
		minLength:      autocomplete.DefaultMinLength,
		replayDelay:    execution.DefaultReplayDelay,
	}
}

// WithRedis stores search history in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithBadger stores search history in an embedded BadgerDB at dir.
func WithBadger(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "badger"
		c.path = dir
	})
}

// WithKeyPrefix sets the key prefix for history lists.
// Default: "reflookup:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithCatalog sets the catalog backend base URL. Required.
func WithCatalog(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogURL = baseURL
	})
}

// WithCatalogTimeout bounds each catalog request. Default: 10s.
func WithCatalogTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogTimeout = d
	})
}

// WithHTTPClient replaces the HTTP client used for catalog calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTiers defines the subscription tiers users can be on.
// Users on an unknown plan get no advanced search, history or suggestions.
func WithTiers(tiers ...Tier) Option {
	return optionFunc(func(c *clientConfig) {
		c.tiers = append(c.tiers, tiers...)
	})
}

// WithPoolSize sets the number of concurrent autocomplete fetches. Default: 16.
func WithPoolSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.poolSize = n
	})
}

// WithMinLength sets the reference length at which suggestions start. Default: 3.
func WithMinLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minLength = n
	})
}

// WithReplayDelay sets how long replayed results wait before the drawer opens.
// Zero opens it immediately. Default: 100ms.
func WithReplayDelay(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.replayDelay = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
