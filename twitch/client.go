package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"twitch-stream-lookup/apierror"
	"twitch-stream-lookup/config"
	"twitch-stream-lookup/model"
	"twitch-stream-lookup/tokens"
)

const maxErrorBody = 512

// Client выполняет запросы к Helix API с токеном приложения.
type Client struct {
	baseURL    string
	clientID   string
	token      tokens.Token
	pageLimit  int
	httpClient *http.Client
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient задаёт HTTP клиент вместо клиента с таймаутом из конфигурации.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// NewClient собирает клиент; token используется без проверки срока годности.
func NewClient(cfg config.TwitchConfig, token tokens.Token, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		clientID:   strings.TrimSpace(cfg.ClientID),
		token:      token,
		pageLimit:  cfg.PageLimit,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
	if c.baseURL == "" {
		c.baseURL = config.DefaultAPIURL
	}
	if c.pageLimit <= 0 {
		c.pageLimit = config.DefaultPageLimit
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LookupUser ищет пользователя по логину и возвращает первый элемент data.
func (c *Client) LookupUser(ctx context.Context, login string) (model.User, error) {
	login = normalizeLogin(login)
	if login == "" {
		return model.User{}, errors.New("twitch: empty login")
	}

	doc, err := c.get(ctx, "users", url.Values{"login": {login}})
	if err != nil {
		return model.User{}, err
	}

	data, ok := doc["data"].([]any)
	if !ok || len(data) == 0 {
		return model.User{}, apierror.NewNotFoundError("users", login, "data")
	}
	first, ok := data[0].(map[string]any)
	if !ok {
		return model.User{}, apierror.NewNotFoundError("users", login, "data[0]")
	}
	id, ok := first["id"].(string)
	if !ok || id == "" {
		return model.User{}, apierror.NewNotFoundError("users", login, "data[0].id")
	}

	return model.User{ID: id, Login: login, Document: doc}, nil
}

// Channel возвращает документ канала без разбора.
func (c *Client) Channel(ctx context.Context, broadcasterID string) (model.Document, error) {
	broadcasterID = strings.TrimSpace(broadcasterID)
	if broadcasterID == "" {
		return nil, errors.New("twitch: empty broadcaster id")
	}

	return c.get(ctx, "channels", url.Values{"broadcaster_id": {broadcasterID}})
}

// Streams запрашивает трансляцию пользователя и идёт по курсору pagination.cursor,
// пока он не пуст и не достигнут лимит страниц. Каждая страница обязана содержать
// список data; отсутствие pagination означает последнюю страницу.
func (c *Client) Streams(ctx context.Context, login string) ([]model.Document, error) {
	login = normalizeLogin(login)
	if login == "" {
		return nil, errors.New("twitch: empty login")
	}

	query := url.Values{"user_login": {login}}
	pages := make([]model.Document, 0, 1)

	for {
		doc, err := c.get(ctx, "streams", query)
		if err != nil {
			return nil, err
		}
		if _, ok := doc["data"].([]any); !ok {
			return nil, apierror.NewNotFoundError("streams", login, "data")
		}
		cursor, ok := doc.Cursor()
		if !ok {
			return nil, apierror.NewNotFoundError("streams", login, "pagination.cursor")
		}
		pages = append(pages, doc)

		if cursor == "" {
			return pages, nil
		}
		if len(pages) >= c.pageLimit {
			slog.Debug("twitch: page limit reached",
				slog.String("login", login),
				slog.Int("pages", len(pages)),
			)
			return pages, nil
		}

		query = url.Values{"user_login": {login}, "after": {cursor}}
	}
}

func (c *Client) get(ctx context.Context, resource string, query url.Values) (model.Document, error) {
	operation := "get " + resource
	endpoint := c.baseURL + "/" + resource + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("twitch: %s: create request: %w", operation, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token.Access())
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierror.NewTransportError(operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierror.NewTransportError(operation, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apierror.NewStatusError(operation, resp.StatusCode, errorMessage(body))
	}

	var doc model.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("twitch: %s: decode response: %w", operation, err)
	}
	if doc == nil {
		return nil, apierror.NewNotFoundError(resource, query.Encode(), "body")
	}

	return doc, nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	return msg
}

func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(login), "#"))
}
