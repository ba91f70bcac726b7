// Package api implements the REST client for the reservation backend.
// Every operation takes a context, never retries, and returns errors as
// values; bearer-auth operations fail locally when no token is held.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"restaurante/internal/config"
	"restaurante/internal/metrics"
	"restaurante/internal/models"
	"restaurante/internal/tokenstore"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client is the surface the services consume. One method per remote
// operation.
type Client interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password, phone string) (string, error)
	UpdateProfile(ctx context.Context, name, password, phone string) (string, error)
	Logout(ctx context.Context) (bool, error)
	DeleteAccount(ctx context.Context) error

	GetRestaurants(ctx context.Context) ([]models.Restaurant, error)

	GetReservations(ctx context.Context) ([]models.Reservation, error)
	CreateReservation(ctx context.Context, restaurantID int64, noPeople int, date string) (int64, error)
	CancelReservation(ctx context.Context, id int64) (string, error)
}

// HTTPClient implements Client against a fixed base URL.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger

	mu           sync.RWMutex
	accountToken *string
	pushToken    *string
}

// NewHTTPClient builds a client from configuration.
func NewHTTPClient(cfg config.APIConfig, logger *zerolog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		logger:     logger.With().Str("component", "api").Logger(),
	}
}

// WatchTokens keeps the client's current tokens in sync with the stores.
func (c *HTTPClient) WatchTokens(account, push *tokenstore.Store) {
	account.Subscribe(c.SetAccountToken)
	push.Subscribe(c.SetPushToken)
}

// SetAccountToken replaces the bearer token attached to auth operations.
func (c *HTTPClient) SetAccountToken(token *string) {
	c.mu.Lock()
	c.accountToken = token
	c.mu.Unlock()
}

// SetPushToken replaces the push token sent with login/register.
func (c *HTTPClient) SetPushToken(token *string) {
	c.mu.Lock()
	c.pushToken = token
	c.mu.Unlock()
}

func (c *HTTPClient) currentAccountToken() *string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accountToken
}

func (c *HTTPClient) currentPushToken() *string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pushToken
}

// call performs one request. token is attached as a bearer header when
// non-nil; body is JSON-encoded when non-nil; out is decoded from a 2xx
// response body when non-nil.
func (c *HTTPClient) call(ctx context.Context, op, method, path string, token *string, body, out any) error {
	err := c.doCall(ctx, method, path, token, body, out)
	if err != nil {
		metrics.IncAPIRequest(op, "error")
		c.logger.Error().Err(err).Str("operation", op).Msg("api call failed")
		return err
	}
	metrics.IncAPIRequest(op, "ok")
	return nil
}

func (c *HTTPClient) doCall(ctx context.Context, method, path string, token *string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeRequest, err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != nil {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

type tokenResponse struct {
	Token *string `json:"token"`
}

type messageResponse struct {
	Message *string `json:"message"`
}

type logoutResponse struct {
	Success *bool `json:"success"`
}

type createReservationResponse struct {
	Message *string `json:"message"`
	ID      *int64  `json:"id"`
}

// Login exchanges credentials for an account token. The current push
// token (or null) and the device discriminator ride along in the body.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]any{
		"email":              email,
		"password":           password,
		"device_type":        models.DeviceTypeIOS,
		"token_notification": c.currentPushToken(),
	}

	var resp tokenResponse
	if err := c.call(ctx, "login", http.MethodPost, "/login", nil, body, &resp); err != nil {
		return "", err
	}
	if resp.Token == nil {
		return "", fmt.Errorf("%w: login response missing token", ErrMalformedResponse)
	}
	return *resp.Token, nil
}

// Register creates an account and returns its token.
func (c *HTTPClient) Register(ctx context.Context, name, email, password, phone string) (string, error) {
	body := map[string]any{
		"name":               name,
		"email":              email,
		"password":           password,
		"phone":              phone,
		"role":               models.DefaultRole,
		"device_type":        models.DeviceTypeIOS,
		"token_notification": c.currentPushToken(),
	}

	var resp tokenResponse
	if err := c.call(ctx, "register", http.MethodPost, "/register", nil, body, &resp); err != nil {
		return "", err
	}
	if resp.Token == nil {
		return "", fmt.Errorf("%w: register response missing token", ErrMalformedResponse)
	}
	return *resp.Token, nil
}

// UpdateProfile changes the logged-in user's details and returns the
// backend's confirmation message.
func (c *HTTPClient) UpdateProfile(ctx context.Context, name, password, phone string) (string, error) {
	token := c.currentAccountToken()
	if token == nil {
		metrics.IncAPIRequest("update_profile", "error")
		return "", ErrAuthRequired
	}

	body := map[string]any{
		"name":     name,
		"password": password,
		"phone":    phone,
	}

	var resp messageResponse
	if err := c.call(ctx, "update_profile", http.MethodPut, "/update_user", token, body, &resp); err != nil {
		return "", err
	}
	if resp.Message == nil {
		return "", fmt.Errorf("%w: update response missing message", ErrMalformedResponse)
	}
	return *resp.Message, nil
}

// Logout invalidates the session server-side. The token travels in the
// body (or null): the backend contract, not a choice made here.
func (c *HTTPClient) Logout(ctx context.Context) (bool, error) {
	body := map[string]any{
		"token": c.currentAccountToken(),
	}

	var resp logoutResponse
	if err := c.call(ctx, "logout", http.MethodPost, "/logout", nil, body, &resp); err != nil {
		return false, err
	}
	if resp.Success == nil {
		return false, fmt.Errorf("%w: logout response missing success", ErrMalformedResponse)
	}
	return *resp.Success, nil
}

// DeleteAccount removes the logged-in account. Any 2xx with a message is
// treated as confirmed deletion.
func (c *HTTPClient) DeleteAccount(ctx context.Context) error {
	token := c.currentAccountToken()
	if token == nil {
		metrics.IncAPIRequest("delete_account", "error")
		return ErrAuthRequired
	}

	var resp messageResponse
	if err := c.call(ctx, "delete_account", http.MethodDelete, "/delete_user", token, nil, &resp); err != nil {
		return err
	}
	if resp.Message == nil {
		return fmt.Errorf("%w: delete response missing message", ErrMalformedResponse)
	}
	return nil
}

// GetRestaurants fetches the full catalog.
func (c *HTTPClient) GetRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	token := c.currentAccountToken()
	if token == nil {
		metrics.IncAPIRequest("get_restaurants", "error")
		return nil, ErrAuthRequired
	}

	var restaurants []models.Restaurant
	if err := c.call(ctx, "get_restaurants", http.MethodGet, "/get_all_restaurants", token, nil, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// GetReservations fetches the current user's reservations in server order.
func (c *HTTPClient) GetReservations(ctx context.Context) ([]models.Reservation, error) {
	token := c.currentAccountToken()
	if token == nil {
		metrics.IncAPIRequest("get_reservations", "error")
		return nil, ErrAuthRequired
	}

	var reservations []models.Reservation
	if err := c.call(ctx, "get_reservations", http.MethodGet, "/reservations_user", token, nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// CreateReservation books a table and returns the new reservation's id.
// date must already be in the backend's "2006-01-02 15:04:05" format.
func (c *HTTPClient) CreateReservation(ctx context.Context, restaurantID int64, noPeople int, date string) (int64, error) {
	token := c.currentAccountToken()
	if token == nil {
		metrics.IncAPIRequest("create_reservation", "error")
		return 0, ErrAuthRequired
	}

	body := map[string]any{
		"restaurant_id":    restaurantID,
		"num_people":       noPeople,
		"date_reservation": date,
	}

	var resp createReservationResponse
	if err := c.call(ctx, "create_reservation", http.MethodPost, "/reservation", token, body, &resp); err != nil {
		return 0, err
	}
	if resp.Message == nil || resp.ID == nil {
		return 0, fmt.Errorf("%w: reservation response missing message or id", ErrMalformedResponse)
	}
	return *resp.ID, nil
}

// CancelReservation withdraws a reservation and returns the backend's
// confirmation message.
func (c *HTTPClient) CancelReservation(ctx context.Context, id int64) (string, error) {
	token := c.currentAccountToken()
	if token == nil {
		metrics.IncAPIRequest("cancel_reservation", "error")
		return "", ErrAuthRequired
	}

	var resp messageResponse
	path := fmt.Sprintf("/delete_reservation/%d", id)
	if err := c.call(ctx, "cancel_reservation", http.MethodDelete, path, token, nil, &resp); err != nil {
		return "", err
	}
	if resp.Message == nil {
		return "", fmt.Errorf("%w: cancel response missing message", ErrMalformedResponse)
	}
	return *resp.Message, nil
}
