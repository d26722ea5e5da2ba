package client

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type authPayload struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// Register creates an account and starts a session for it.
func (c *Client) Register(ctx context.Context, name, email, password string) (Identity, error) {
	body := map[string]string{
		"name":     strings.TrimSpace(name),
		"email":    strings.TrimSpace(email),
		"password": password,
	}
	return c.authenticate(ctx, "/auth/register", body)
}

// Login starts a session with the given credentials.
func (c *Client) Login(ctx context.Context, email, password string) (Identity, error) {
	body := map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}
	return c.authenticate(ctx, "/auth/login", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (Identity, error) {
	var payload authPayload
	if err := c.do(ctx, http.MethodPost, path, body, &payload); err != nil {
		return Identity{}, err
	}
	if err := c.session.set(payload.Token, payload.User); err != nil {
		return Identity{}, err
	}
	return payload.User, nil
}

// Restore loads the stored token and validates it against the API. It
// reports false when there is no usable session. A rejected token is
// cleared. Other failures keep it so a later attempt can succeed.
func (c *Client) Restore(ctx context.Context) (Identity, bool, error) {
	token, err := c.session.load()
	if err != nil {
		return Identity{}, false, err
	}
	if token == "" {
		return Identity{}, false, nil
	}

	identity, err := c.Me(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			return Identity{}, false, c.session.clear()
		}
		return Identity{}, false, err
	}
	return identity, true, nil
}

// Me fetches the identity behind the current token and refreshes the session.
func (c *Client) Me(ctx context.Context) (Identity, error) {
	if c.session.Token() == "" {
		return Identity{}, ErrNotAuthenticated
	}
	var identity Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &identity); err != nil {
		return Identity{}, err
	}
	c.session.setIdentity(identity)
	return identity, nil
}

// Logout revokes the token on the server and always clears the local session.
func (c *Client) Logout(ctx context.Context) error {
	if c.session.Token() != "" {
		if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
			slog.Warn("Server logout failed, clearing local session", "error", err)
		}
	}
	return c.session.clear()
}
