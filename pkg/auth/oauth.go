package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/harrisonrobin/todochat/pkg/config"
	"golang.org/x/oauth2"
)

// ErrTokenNotFound is returned when no API token has been configured.
var ErrTokenNotFound = errors.New("todoist API token not found, please set up your API token first")

// SettingsTokenSource is an oauth2.TokenSource that reads the Todoist
// personal API token from the settings on every call, so a token changed
// with "token set" is picked up without restarting.
type SettingsTokenSource struct {
	settings config.Settings
}

// NewTokenSource returns a token source backed by settings.
func NewTokenSource(settings config.Settings) *SettingsTokenSource {
	return &SettingsTokenSource{settings: settings}
}

// Token implements oauth2.TokenSource.
func (s *SettingsTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.settings.Get(config.KeyAPIToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read API token: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenNotFound
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// GetClient returns an *http.Client that sends the configured token as a
// bearer credential. A zero timeout leaves the client without one.
func GetClient(ctx context.Context, settings config.Settings, timeout time.Duration) *http.Client {
	base := http.DefaultTransport
	if c, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && c != nil && c.Transport != nil {
		base = c.Transport
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: NewTokenSource(settings),
			Base:   base,
		},
		Timeout: timeout,
	}
}

// MaskToken hides all but the last four characters of token.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
