package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// DefaultFile — dotenv файл, который читается, если путь не задан.
const DefaultFile = ".env"

// ErrNotFound возвращается, когда ключ отсутствует во всех источниках.
var ErrNotFound = errors.New("secret not found")

// Provider выдаёт секреты по имени.
type Provider interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// EnvProvider читает секреты из переменных окружения и необязательного dotenv файла.
// Переменные окружения имеют приоритет над файлом.
type EnvProvider struct {
	vip *viper.Viper
}

// NewEnvProvider загружает dotenv файл по пути path; отсутствие файла не считается ошибкой.
func NewEnvProvider(path string) (*EnvProvider, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultFile
	}

	vip := viper.New()
	vip.SetConfigFile(path)
	vip.SetConfigType("env")
	vip.AutomaticEnv()

	if err := vip.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("secrets: read %s: %w", path, err)
		}
	}

	return &EnvProvider{vip: vip}, nil
}

// GetSecret возвращает значение ключа name или ErrNotFound.
func (p *EnvProvider) GetSecret(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value := strings.TrimSpace(p.vip.GetString(name))
	if value == "" {
		return "", fmt.Errorf("secrets: %s: %w", name, ErrNotFound)
	}
	return value, nil
}

// Static — Provider поверх фиксированного набора значений.
type Static map[string]string

// GetSecret возвращает значение ключа name или ErrNotFound.
func (s Static) GetSecret(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value := strings.TrimSpace(s[name])
	if value == "" {
		return "", fmt.Errorf("secrets: %s: %w", name, ErrNotFound)
	}
	return value, nil
}
