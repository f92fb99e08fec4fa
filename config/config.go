package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"twitch-stream-lookup/secrets"
)

const (
	DefaultAuthURL     = "https://id.twitch.tv/oauth2/token"
	DefaultAPIURL      = "https://api.twitch.tv/helix"
	DefaultHTTPTimeout = 10 * time.Second
	// DefaultPageLimit даёт первую страницу и не больше одной следующей.
	DefaultPageLimit = 2
)

// Config агрегирует значения конфигурации, полученные из источника секретов.
type Config struct {
	Twitch   TwitchConfig
	Postgres PostgresConfig
}

// TwitchConfig содержит учётные данные приложения и параметры Helix API.
type TwitchConfig struct {
	ClientID     string        `env:"CLIENT_ID" validate:"required"`
	ClientSecret string        `env:"CLIENT_SECRET" validate:"required"`
	AuthURL      string        `env:"TWITCH_AUTH_URL" validate:"required,url"`
	APIURL       string        `env:"TWITCH_API_URL" validate:"required,url"`
	Login        string        `env:"TWITCH_LOGIN"`
	HTTPTimeout  time.Duration `env:"HTTP_TIMEOUT" validate:"gt=0"`
	PageLimit    int           `env:"PAGE_LIMIT" validate:"gte=1"`
	TraceFile    string        `env:"AUTH_TRACE_FILE"`
}

// PostgresConfig хранит параметры подключения для записи снимков.
// Запись включается только если заданы все поля.
type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	User     string
	Password string
}

// DSN собирает строку подключения для pgx/pgxpool.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

// Enabled сообщает, заданы ли все параметры подключения.
func (p PostgresConfig) Enabled() bool {
	return p.Host != "" && p.Port != "" && p.DB != "" && p.User != "" && p.Password != ""
}

func (p PostgresConfig) partial() bool {
	anySet := p.Host != "" || p.Port != "" || p.DB != "" || p.User != "" || p.Password != ""
	return anySet && !p.Enabled()
}

// Load читает значения из provider и возвращает валидированную Config.
func Load(ctx context.Context, provider secrets.Provider) (Config, error) {
	r := reader{ctx: ctx, provider: provider}

	cfg := Config{
		Twitch: TwitchConfig{
			ClientID:     r.optional("CLIENT_ID", ""),
			ClientSecret: r.optional("CLIENT_SECRET", ""),
			AuthURL:      r.optional("TWITCH_AUTH_URL", DefaultAuthURL),
			APIURL:       strings.TrimRight(r.optional("TWITCH_API_URL", DefaultAPIURL), "/"),
			Login:        r.optional("TWITCH_LOGIN", ""),
			HTTPTimeout:  r.duration("HTTP_TIMEOUT", DefaultHTTPTimeout),
			PageLimit:    r.integer("PAGE_LIMIT", DefaultPageLimit),
			TraceFile:    r.optional("AUTH_TRACE_FILE", ""),
		},
		Postgres: PostgresConfig{
			Host:     r.optional("POSTGRES_HOST", ""),
			Port:     r.optional("POSTGRES_PORT", ""),
			DB:       r.optional("POSTGRES_DB", ""),
			User:     r.optional("POSTGRES_USER", ""),
			Password: r.optional("POSTGRES_PASSWORD", ""),
		},
	}

	if r.err != nil {
		return Config{}, r.err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("env"); name != "" {
			return name
		}
		return field.Name
	})
	return v
}

func (c Config) validate() error {
	if err := validate.Struct(c.Twitch); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return fmt.Errorf("config: validate: %w", err)
		}
		return describe(fieldErrs[0])
	}

	if c.Postgres.partial() {
		return fmt.Errorf("требуются все переменные POSTGRES_HOST, POSTGRES_PORT, POSTGRES_DB, POSTGRES_USER, POSTGRES_PASSWORD")
	}

	return nil
}

func describe(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("требуется %s", fe.Field())
	case "url":
		return fmt.Errorf("%s должен быть корректным URL", fe.Field())
	case "gt", "gte":
		return fmt.Errorf("%s должен быть больше нуля", fe.Field())
	default:
		return fmt.Errorf("%s: не прошло проверку %s", fe.Field(), fe.Tag())
	}
}

// reader запоминает первую ошибку источника, чтобы Load оставался линейным.
type reader struct {
	ctx      context.Context
	provider secrets.Provider
	err      error
}

func (r *reader) optional(name, def string) string {
	if r.err != nil {
		return def
	}

	value, err := r.provider.GetSecret(r.ctx, name)
	if err != nil {
		if !errors.Is(err, secrets.ErrNotFound) {
			r.err = fmt.Errorf("config: %s: %w", name, err)
		}
		return def
	}
	return value
}

func (r *reader) duration(name string, def time.Duration) time.Duration {
	raw := r.optional(name, "")
	if raw == "" {
		return def
	}

	d, err := time.ParseDuration(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("config: %s: %w", name, err)
	}
	return d
}

func (r *reader) integer(name string, def int) int {
	raw := r.optional(name, "")
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("config: %s: %w", name, err)
	}
	return n
}
