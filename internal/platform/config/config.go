package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	envDatabasePassword   = "HR_DATABASE_PASSWORD"
	envEligibilityBaseURL = "HR_ELIGIBILITY_BASE_URL"

	defaultEligibilityTimeout = 5 * time.Second
	defaultMinimumRaise       = "100"
	defaultStartingSalary     = "2500"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Eligibility EligibilityConfig `yaml:"eligibility"`
	HR          HRConfig          `yaml:"hr"`
	Log         LogConfig         `yaml:"log"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// EligibilityConfig は昇進可否判定 API に関する設定です。
type EligibilityConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout"`
}

// HRConfig は昇給・初任給などの人事方針です。金額は文字列で指定します。
type HRConfig struct {
	MinimumRaise      decimal.Decimal `yaml:"-"`
	StartingSalary    decimal.Decimal `yaml:"-"`
	MinimumRaiseRaw   string          `yaml:"minimum_raise"`
	StartingSalaryRaw string          `yaml:"starting_salary"`
	RequireAgencyName bool            `yaml:"require_agency_name"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level    string `yaml:"level"`
	FilePath string `yaml:"file_path"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
// 環境変数 (HR_DATABASE_PASSWORD, HR_ELIGIBILITY_BASE_URL) はファイルの値より優先されます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDotEnv は .env ファイルを環境変数へ読み込みます。ファイルが無い場合は何もしません。
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("config: load dotenv: %w", err)
	}
	return nil
}

// EffectivePath は CONFIG_PATH を考慮した設定ファイルのパスを返します。
func EffectivePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envDatabasePassword); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv(envEligibilityBaseURL); v != "" {
		c.Eligibility.BaseURL = v
	}
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Eligibility.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.HR.validateAndNormalize(); err != nil {
		return err
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (e *EligibilityConfig) validateAndNormalize() error {
	if e.BaseURL == "" {
		return fmt.Errorf("config: eligibility.base_url must be set")
	}
	u, err := url.Parse(e.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: eligibility.base_url %q is not an absolute url", e.BaseURL)
	}
	e.BaseURL = strings.TrimRight(e.BaseURL, "/")

	timeout, err := parseDurationAllowEmpty(e.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: eligibility.timeout: %w", err)
	}
	if timeout == 0 {
		timeout = defaultEligibilityTimeout
	}
	e.Timeout = timeout

	return nil
}

func (h *HRConfig) validateAndNormalize() error {
	minimum, err := parseDecimalDefault(h.MinimumRaiseRaw, defaultMinimumRaise)
	if err != nil {
		return fmt.Errorf("config: hr.minimum_raise: %w", err)
	}
	if !minimum.IsPositive() {
		return fmt.Errorf("config: hr.minimum_raise must be positive")
	}
	h.MinimumRaise = minimum

	salary, err := parseDecimalDefault(h.StartingSalaryRaw, defaultStartingSalary)
	if err != nil {
		return fmt.Errorf("config: hr.starting_salary: %w", err)
	}
	if salary.LessThan(decimal.NewFromInt(2500)) || salary.GreaterThan(decimal.NewFromInt(3500)) {
		return fmt.Errorf("config: hr.starting_salary must be between 2500 and 3500")
	}
	h.StartingSalary = salary

	return nil
}

func parseDecimalDefault(raw, fallback string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		raw = fallback
	}
	return decimal.NewFromString(strings.TrimSpace(raw))
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。認証情報は URL エスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
