package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"twitch-stream-lookup/apierror"
	"twitch-stream-lookup/config"
	"twitch-stream-lookup/tokens"
)

const maxErrorBody = 512

// Tracer получает сырой ответ OAuth эндпоинта до его разбора.
type Tracer interface {
	TraceAuthResponse(status int, body []byte) error
}

// Provider обменивает учётные данные приложения на OAuth токен.
type Provider struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
	tracer       Tracer
	now          func() time.Time
}

// Option настраивает Provider.
type Option func(*Provider)

// WithHTTPClient задаёт HTTP клиент вместо клиента с таймаутом из конфигурации.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.httpClient = client }
}

// WithTracer включает отладочную запись ответа OAuth эндпоинта.
func WithTracer(tracer Tracer) Option {
	return func(p *Provider) { p.tracer = tracer }
}

// NewProvider создаёт Provider из конфигурации Twitch.
func NewProvider(cfg config.TwitchConfig, opts ...Option) *Provider {
	p := &Provider{
		clientID:     strings.TrimSpace(cfg.ClientID),
		clientSecret: strings.TrimSpace(cfg.ClientSecret),
		tokenURL:     cfg.AuthURL,
		httpClient:   &http.Client{Timeout: cfg.HTTPTimeout},
		now:          time.Now,
	}
	if p.tokenURL == "" {
		p.tokenURL = config.DefaultAuthURL
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

type tokenResponse struct {
	AccessToken *string `json:"access_token"`
	ExpiresIn   *int64  `json:"expires_in"`
	TokenType   *string `json:"token_type"`
}

type tokenError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Token выполняет один client_credentials обмен и возвращает токен приложения.
func (p *Provider) Token(ctx context.Context) (tokens.Token, error) {
	form := url.Values{}
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return tokens.Token{}, &apierror.AuthenticationError{Message: "create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return tokens.Token{}, apierror.NewTransportError("twitch oauth", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tokens.Token{}, apierror.NewTransportError("twitch oauth: read body", err)
	}

	if p.tracer != nil {
		if err := p.tracer.TraceAuthResponse(resp.StatusCode, body); err != nil {
			slog.Warn("twitch oauth: trace failed", slog.Any("error", err))
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return tokens.Token{}, apierror.NewAuthenticationError(resp.StatusCode, errorMessage(body))
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return tokens.Token{}, &apierror.AuthenticationError{Message: "decode response", Cause: err}
	}

	switch {
	case payload.AccessToken == nil || *payload.AccessToken == "":
		return tokens.Token{}, &apierror.AuthenticationError{Message: "response missing access_token"}
	case payload.ExpiresIn == nil || *payload.ExpiresIn <= 0:
		return tokens.Token{}, &apierror.AuthenticationError{Message: "response missing expires_in"}
	case payload.TokenType == nil || *payload.TokenType == "":
		return tokens.Token{}, &apierror.AuthenticationError{Message: "response missing token_type"}
	}

	token := tokens.New(*payload.AccessToken, *payload.ExpiresIn, *payload.TokenType, p.now())
	slog.Debug("twitch oauth: token issued", slog.Any("token", token))

	return token, nil
}

func errorMessage(body []byte) string {
	var e tokenError
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	return msg
}
