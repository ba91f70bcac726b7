// Package session derives the logged-in state from the account token
// store and drives the account operations against the API.
package session

import (
	"context"

	"restaurante/internal/api"
	"restaurante/internal/events"
	"restaurante/internal/tokenstore"

	"github.com/rs/zerolog"
)

// Service owns the account lifecycle. Logged-in is never set directly: it
// follows token presence, so a token published by any path (login,
// register, a cleared token elsewhere) moves the state.
type Service struct {
	client api.Client
	tokens *tokenstore.Store
	logger zerolog.Logger

	logged  *events.Value[bool]
	lastErr *events.Value[error]
}

// New wires a session service to the account token store.
func New(client api.Client, tokens *tokenstore.Store, logger *zerolog.Logger) *Service {
	s := &Service{
		client:  client,
		tokens:  tokens,
		logger:  logger.With().Str("component", "session").Logger(),
		logged:  events.NewValue[bool](),
		lastErr: events.NewValue[error](),
	}

	s.tokens.Subscribe(func(token *string) {
		s.logged.Publish(token != nil)
	})

	return s
}

// Logged reports the current state; false before the initial token load.
func (s *Service) Logged() bool {
	logged, _ := s.logged.Current()
	return logged
}

// SubscribeLogged registers fn for state transitions, replaying the
// current state.
func (s *Service) SubscribeLogged(fn func(bool)) (cancel func()) {
	return s.logged.Subscribe(fn)
}

// LastError returns the most recent operation failure, nil when the last
// operation succeeded.
func (s *Service) LastError() error {
	err, _ := s.lastErr.Current()
	return err
}

// SubscribeErrors registers fn for error slot updates.
func (s *Service) SubscribeErrors(fn func(error)) (cancel func()) {
	return s.lastErr.Subscribe(fn)
}

func (s *Service) record(op string, err error) {
	if err != nil {
		s.logger.Error().Err(err).Str("operation", op).Msg("account operation failed")
	}
	s.lastErr.Publish(err)
}

// Login exchanges credentials for a token; the token store publish flips
// the state to logged-in.
func (s *Service) Login(ctx context.Context, email, password string) error {
	token, err := s.client.Login(ctx, email, password)
	s.record("login", err)
	if err != nil {
		return err
	}

	s.tokens.Set(token)
	return nil
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, name, email, password, phone string) error {
	token, err := s.client.Register(ctx, name, email, password, phone)
	s.record("register", err)
	if err != nil {
		return err
	}

	s.tokens.Set(token)
	return nil
}

// UpdateProfile changes account details without touching the session
// state.
func (s *Service) UpdateProfile(ctx context.Context, name, password, phone string) error {
	message, err := s.client.UpdateProfile(ctx, name, password, phone)
	s.record("update_profile", err)
	if err != nil {
		return err
	}

	s.logger.Info().Str("message", message).Msg("profile updated")
	return nil
}

// Logout asks the backend to end the session and clears the local token
// only once the backend confirms.
func (s *Service) Logout(ctx context.Context) error {
	success, err := s.client.Logout(ctx)
	s.record("logout", err)
	if err != nil {
		return err
	}

	if success {
		s.tokens.Remove()
	}
	return nil
}

// DeleteAccount removes the account; confirmed deletion clears the token.
func (s *Service) DeleteAccount(ctx context.Context) error {
	err := s.client.DeleteAccount(ctx)
	s.record("delete_account", err)
	if err != nil {
		return err
	}

	s.tokens.Remove()
	return nil
}
