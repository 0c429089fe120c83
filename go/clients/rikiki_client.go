package clients

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mcdev12/rikiki/go/internal/poll"
)

const (
	// PlayerPathMarker precedes the player secret in dashboard URLs.
	PlayerPathMarker = "/player/"
	// SecretLength is the length of a player secret.
	SecretLength = 32

	FieldSecretID = "secret_id"
)

var ErrNoSecret = errors.New("no player secret in status URL")

// RikikiClient talks to the rikiki game server on behalf of one player.
type RikikiClient struct {
	*BaseClient
	secretID string
}

// NewRikikiClient builds a client from the player's status (or dashboard)
// URL, e.g. https://host/player/<secret>/api/status/.
func NewRikikiClient(statusURL string) (*RikikiClient, error) {
	secret, err := SecretFromStatusURL(statusURL)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(statusURL)
	if err != nil {
		return nil, fmt.Errorf("parse status URL: %w", err)
	}
	prefix := u.Path[:strings.Index(u.Path, PlayerPathMarker)]
	base := url.URL{Scheme: u.Scheme, Host: u.Host, Path: prefix}

	return &RikikiClient{
		BaseClient: NewBaseClient(base.String()),
		secretID:   secret,
	}, nil
}

// SecretFromStatusURL returns the fixed-length path segment that follows
// the /player/ marker.
func SecretFromStatusURL(statusURL string) (string, error) {
	u, err := url.Parse(statusURL)
	if err != nil {
		return "", fmt.Errorf("parse status URL: %w", err)
	}
	idx := strings.Index(u.Path, PlayerPathMarker)
	if idx < 0 {
		return "", fmt.Errorf("%w: missing %q", ErrNoSecret, PlayerPathMarker)
	}
	rest := u.Path[idx+len(PlayerPathMarker):]
	secret, _, _ := strings.Cut(rest, "/")
	if len(secret) != SecretLength || !isToken(secret) {
		return "", fmt.Errorf("%w: %q is not a %d character token", ErrNoSecret, secret, SecretLength)
	}
	return secret, nil
}

func isToken(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// SecretID is the player secret sent with every action.
func (c *RikikiClient) SecretID() string { return c.secretID }

// StatusPath is the status endpoint. With a token the server may answer
// with the summary alone when nothing changed.
func (c *RikikiClient) StatusPath(token string) string {
	p := PlayerPathMarker + c.secretID + "/api/status/"
	if token != "" {
		p += url.PathEscape(token) + "/"
	}
	return p
}

// Fetch implements poll.Fetcher.
func (c *RikikiClient) Fetch(ctx context.Context, token string) poll.Result {
	return c.Attempt(ctx, c.StatusPath(token))
}

// Submit posts an action form, adding the player secret.
func (c *RikikiClient) Submit(ctx context.Context, endpoint string, form url.Values) poll.Result {
	fields := url.Values{}
	for k, v := range form {
		fields[k] = append([]string(nil), v...)
	}
	fields.Set(FieldSecretID, c.secretID)
	return c.PostForm(ctx, endpoint, fields)
}
