package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "QUOTES_"

const (
	StorageDynamoDB = "dynamodb"
	StoragePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Environment string          `koanf:"environment"`
	HTTP        HTTPConfig      `koanf:"http"`
	Auth        AuthConfig      `koanf:"auth"`
	Storage     StorageConfig   `koanf:"storage"`
	AWS         AWSConfig       `koanf:"aws"`
	DynamoDB    DynamoDBConfig  `koanf:"dynamodb"`
	Postgres    PostgresConfig  `koanf:"postgres"`
	S3          S3Config        `koanf:"s3"`
	SMTP        SMTPConfig      `koanf:"smtp"`
	Telegram    TelegramConfig  `koanf:"telegram"`
	Notify      NotifyConfig    `koanf:"notify"`
	Quotes      QuotesConfig    `koanf:"quotes"`
	Payments    PaymentsConfig  `koanf:"payments"`
	Reminders   RemindersConfig `koanf:"reminders"`
}

type HTTPConfig struct {
	Port            int           `koanf:"port"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AuthConfig verifies identity tokens issued elsewhere. Tokens are HS256.
type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
	Issuer    string `koanf:"issuer"`
}

type StorageConfig struct {
	Driver string `koanf:"driver"` // dynamodb | postgres
}

type AWSConfig struct {
	Region          string `koanf:"region"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
}

type DynamoDBConfig struct {
	Endpoint    string `koanf:"endpoint"`
	QuotesTable string `koanf:"quotes_table"`
}

// PostgresConfig holds database connection configuration
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`
	SSLMode  string `koanf:"sslmode"`
}

// DSN returns the PostgreSQL connection string
func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}

type S3Config struct {
	Bucket        string `koanf:"bucket"`
	Endpoint      string `koanf:"endpoint"`
	PublicBaseURL string `koanf:"public_base_url"`
	KeyPrefix     string `koanf:"key_prefix"`
	UsePathStyle  bool   `koanf:"use_path_style"`
}

type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

func (c SMTPConfig) Enabled() bool { return c.Host != "" }

type TelegramConfig struct {
	Token        string  `koanf:"token"`
	AdminChatIDs []int64 `koanf:"admin_chat_ids"`
}

func (c TelegramConfig) Enabled() bool { return c.Token != "" && len(c.AdminChatIDs) > 0 }

// NotifyConfig controls who hears about quote activity.
type NotifyConfig struct {
	AdminEmails []string      `koanf:"admin_emails"`
	QueueSize   int           `koanf:"queue_size"`
	SendTimeout time.Duration `koanf:"send_timeout"`
}

type QuotesConfig struct {
	UploadTimeout   time.Duration `koanf:"upload_timeout"`
	ConflictRetries int           `koanf:"conflict_retries"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes"`
}

type PaymentsConfig struct {
	AccessToken  string        `koanf:"access_token"`
	Mock         bool          `koanf:"mock"`
	// CheckoutHold is how long an unfinished checkout blocks another one.
	CheckoutHold time.Duration `koanf:"checkout_hold"`
}

type RemindersConfig struct {
	Schedule  string        `koanf:"schedule"`
	OlderThan time.Duration `koanf:"older_than"`
}

// Load loads configuration from defaults, config/<environment>.yaml and QUOTES_ env vars.
// Nested keys use a double underscore: QUOTES_SMTP__HOST.
func Load(environment string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	configFile := fmt.Sprintf("config/%s.yaml", environment)
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		log.Printf("[config] optional file not loaded path=%s err=%v", configFile, err)
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, "__", func(key string, value string) (string, interface{}) {
		finalKey := strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))

		// The provider unflattens on "__"; koanf itself is keyed on ".".
		switch k.Get(strings.ReplaceAll(finalKey, "__", ".")).(type) {
		case []interface{}, []string, []int64:
			parts := strings.Split(value, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return finalKey, out
		}

		return finalKey, value
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Environment = environment
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDynamoDB, StoragePostgres:
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Quotes.ConflictRetries < 0 {
		return fmt.Errorf("quotes.conflict_retries must be >= 0")
	}
	if c.Quotes.UploadTimeout <= 0 {
		return fmt.Errorf("quotes.upload_timeout must be positive")
	}
	return nil
}

// defaultConfig returns the default configuration values
func defaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:            8080,
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{Driver: StorageDynamoDB},
		AWS: AWSConfig{
			Region:          "us-east-1",
			AccessKeyID:     "local",
			SecretAccessKey: "local",
		},
		DynamoDB: DynamoDBConfig{QuotesTable: "quotes"},
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		S3:   S3Config{KeyPrefix: "quotes/"},
		SMTP: SMTPConfig{Port: 587},
		Notify: NotifyConfig{
			AdminEmails: []string{},
			QueueSize:   100,
			SendTimeout: 15 * time.Second,
		},
		Telegram: TelegramConfig{AdminChatIDs: []int64{}},
		Quotes: QuotesConfig{
			UploadTimeout:   60 * time.Second,
			ConflictRetries: 0,
			MaxUploadBytes:  25 << 20,
		},
		Payments: PaymentsConfig{CheckoutHold: 10 * time.Minute},
		Reminders: RemindersConfig{
			Schedule:  "0 9 * * *",
			OlderThan: 72 * time.Hour,
		},
	}
}
