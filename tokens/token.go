package tokens

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

const visibleSuffix = 3

// Token описывает OAuth токен приложения. После создания не изменяется.
type Token struct {
	access    string
	expiresIn time.Duration
	kind      string
	issuedAt  time.Time
}

// New создаёт Token; expiresIn задаётся в секундах, как в ответе Twitch.
func New(access string, expiresIn int64, kind string, issuedAt time.Time) Token {
	return Token{
		access:    access,
		expiresIn: time.Duration(expiresIn) * time.Second,
		kind:      kind,
		issuedAt:  issuedAt,
	}
}

// Access возвращает значение токена для заголовка Authorization.
func (t Token) Access() string { return t.access }

// Kind возвращает тип токена, например "bearer".
func (t Token) Kind() string { return t.kind }

// ExpiresIn возвращает заявленное время жизни.
func (t Token) ExpiresIn() time.Duration { return t.expiresIn }

// ExpiresAt возвращает момент, после которого токен устаревает.
func (t Token) ExpiresAt() time.Time { return t.issuedAt.Add(t.expiresIn) }

// Redacted возвращает последние символы токена.
func (t Token) Redacted() string { return Redact(t.access) }

func (t Token) String() string {
	return fmt.Sprintf("Token (%s): %s", t.kind, t.Redacted())
}

func (t Token) GoString() string {
	return fmt.Sprintf("tokens.Token{access:%q, kind:%q, expiresIn:%s}", t.Redacted(), t.kind, t.expiresIn)
}

// Format выводит только замаскированное представление при любом глаголе.
func (t Token) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('#') {
		_, _ = io.WriteString(f, t.GoString())
		return
	}
	_, _ = io.WriteString(f, t.String())
}

// LogValue не даёт slog вывести токен целиком.
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("access", t.Redacted()),
		slog.String("kind", t.kind),
		slog.Duration("expires_in", t.expiresIn),
	)
}

// Redact оставляет видимыми только три последних символа секрета.
// Короткие значения маскируются целиком.
func Redact(secret string) string {
	runes := []rune(secret)
	if len(runes) <= visibleSuffix {
		return strings.Repeat("*", len(runes))
	}
	return "..." + string(runes[len(runes)-visibleSuffix:])
}
