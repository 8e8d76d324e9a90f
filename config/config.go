/*
Copyright 2024 Fintrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fintrack/fintrack/model"
)

const (
	DEFAULT_PORT = "5002"

	defaultToleranceDays      = 3
	defaultToleranceAmount    = 0.01
	defaultToleranceHours     = 24
	defaultMinConfidence      = 70.0
	defaultTransactionLimit   = 1000
	defaultProjectionDays     = 90
	defaultHistoricalDays     = 90
	defaultProjectionScenario = "realistic"
	defaultCacheTTLSeconds    = 300
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL         bool     `json:"ssl" envconfig:"FINTRACK_SERVER_SSL"`
	Secure      bool     `json:"secure" envconfig:"FINTRACK_SERVER_SECURE"`
	SecretKey   string   `json:"secret_key" envconfig:"FINTRACK_SERVER_SECRET_KEY"`
	Domain      string   `json:"domain" envconfig:"FINTRACK_SERVER_SSL_DOMAIN"`
	Email       string   `json:"ssl_email" envconfig:"FINTRACK_SERVER_SSL_EMAIL"`
	Port        string   `json:"port" envconfig:"FINTRACK_SERVER_PORT"`
	CertStorage string   `json:"cert_storage" envconfig:"FINTRACK_SERVER_CERT_STORAGE"`
	CORSOrigins []string `json:"cors_origins" envconfig:"FINTRACK_SERVER_CORS_ORIGINS"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"FINTRACK_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"FINTRACK_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"FINTRACK_REDIS_SKIP_TLS_VERIFY"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"FINTRACK_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"FINTRACK_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"FINTRACK_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

// ReconciliationConfig holds the suggestion defaults used when a request leaves a knob unset.
// Pointers distinguish "not configured" from an explicit zero.
type ReconciliationConfig struct {
	ToleranceDays    *int     `json:"tolerance_days" envconfig:"FINTRACK_RECONCILIATION_TOLERANCE_DAYS"`
	ToleranceAmount  *float64 `json:"tolerance_amount" envconfig:"FINTRACK_RECONCILIATION_TOLERANCE_AMOUNT"`
	ToleranceHours   *int     `json:"tolerance_hours" envconfig:"FINTRACK_RECONCILIATION_TOLERANCE_HOURS"`
	MinConfidence    *float64 `json:"min_confidence" envconfig:"FINTRACK_RECONCILIATION_MIN_CONFIDENCE"`
	TransactionLimit int      `json:"transaction_limit" envconfig:"FINTRACK_RECONCILIATION_TRANSACTION_LIMIT"`
}

type ProjectionConfig struct {
	Days            int    `json:"days" envconfig:"FINTRACK_PROJECTION_DAYS"`
	Scenario        string `json:"scenario" envconfig:"FINTRACK_PROJECTION_SCENARIO"`
	HistoricalDays  int    `json:"historical_days" envconfig:"FINTRACK_PROJECTION_HISTORICAL_DAYS"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds" envconfig:"FINTRACK_PROJECTION_CACHE_TTL_SECONDS"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"FINTRACK_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type Configuration struct {
	ProjectName     string               `json:"project_name" envconfig:"FINTRACK_PROJECT_NAME"`
	EnableTelemetry bool                 `json:"enable_telemetry" envconfig:"FINTRACK_ENABLE_TELEMETRY"`
	Server          ServerConfig         `json:"server"`
	DataSource      DataSourceConfig     `json:"data_source"`
	Redis           RedisConfig          `json:"redis"`
	Reconciliation  ReconciliationConfig `json:"reconciliation"`
	Projection      ProjectionConfig     `json:"projection"`
	Notification    Notification         `json:"notification"`
	RateLimit       RateLimitConfig      `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("fintrack", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return nil
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called fintrack.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		cnf.ProjectName = "Fintrack"
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Warning: Redis DNS is empty. Projection caching is disabled.")
	}

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Server.Secure && cnf.Server.SecretKey == "" {
		return errors.New("server secret key is required when secure mode is enabled")
	}

	if cnf.Server.CertStorage == "" {
		cnf.Server.CertStorage = "./certmagic"
	}

	if err := cnf.Reconciliation.addDefaults(); err != nil {
		return err
	}
	if err := cnf.Projection.addDefaults(); err != nil {
		return err
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

func (r *ReconciliationConfig) addDefaults() error {
	if r.ToleranceDays == nil {
		days := defaultToleranceDays
		r.ToleranceDays = &days
	}
	if r.ToleranceAmount == nil {
		amount := defaultToleranceAmount
		r.ToleranceAmount = &amount
	}
	if r.ToleranceHours == nil {
		hours := defaultToleranceHours
		r.ToleranceHours = &hours
	}
	if r.MinConfidence == nil {
		confidence := defaultMinConfidence
		r.MinConfidence = &confidence
	}
	if r.TransactionLimit <= 0 {
		r.TransactionLimit = defaultTransactionLimit
	}

	if *r.ToleranceDays < 0 || *r.ToleranceAmount < 0 || *r.ToleranceHours < 0 {
		return errors.New("reconciliation tolerances must not be negative")
	}
	if *r.MinConfidence < 0 || *r.MinConfidence > 100 {
		return errors.New("reconciliation min confidence must be between 0 and 100")
	}
	return nil
}

func (p *ProjectionConfig) addDefaults() error {
	if p.Days <= 0 {
		p.Days = defaultProjectionDays
	}
	if p.HistoricalDays <= 0 {
		p.HistoricalDays = defaultHistoricalDays
	}
	if p.CacheTTLSeconds <= 0 {
		p.CacheTTLSeconds = defaultCacheTTLSeconds
	}
	p.Scenario = strings.ToLower(strings.TrimSpace(p.Scenario))
	switch p.Scenario {
	case "":
		p.Scenario = defaultProjectionScenario
	case "optimistic", "realistic", "pessimistic":
	default:
		return errors.New("projection scenario must be optimistic, realistic or pessimistic")
	}
	return nil
}

// SuggestionDefaults are the reconciliation options a request starts from.
func (r ReconciliationConfig) SuggestionDefaults() model.SuggestionOptions {
	opts := model.SuggestionOptions{
		ToleranceDays:   defaultToleranceDays,
		ToleranceAmount: decimal.NewFromFloat(defaultToleranceAmount),
		ToleranceHours:  defaultToleranceHours,
		MinConfidence:   defaultMinConfidence,
		Limit:           defaultTransactionLimit,
	}
	if r.ToleranceDays != nil {
		opts.ToleranceDays = *r.ToleranceDays
	}
	if r.ToleranceAmount != nil {
		opts.ToleranceAmount = decimal.NewFromFloat(*r.ToleranceAmount)
	}
	if r.ToleranceHours != nil {
		opts.ToleranceHours = *r.ToleranceHours
	}
	if r.MinConfidence != nil {
		opts.MinConfidence = *r.MinConfidence
	}
	if r.TransactionLimit > 0 {
		opts.Limit = r.TransactionLimit
	}
	return opts
}

// ProjectionDefaults are the projection options a request starts from.
func (p ProjectionConfig) ProjectionDefaults() model.ProjectionOptions {
	opts := model.ProjectionOptions{
		Days:           defaultProjectionDays,
		Scenario:       defaultProjectionScenario,
		HistoricalDays: defaultHistoricalDays,
	}
	if p.Days > 0 {
		opts.Days = p.Days
	}
	if p.Scenario != "" {
		opts.Scenario = p.Scenario
	}
	if p.HistoricalDays > 0 {
		opts.HistoricalDays = p.HistoricalDays
	}
	return opts
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(logger.Writer())
}
