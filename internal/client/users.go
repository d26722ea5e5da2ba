package client

import (
	"context"
	"net/http"
)

// ProfileUpdate holds the profile fields to change. Nil fields are kept.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UpdateProfile changes the session user's profile.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (Identity, error) {
	var identity Identity
	if err := c.do(ctx, http.MethodPut, "/users/me", update, &identity); err != nil {
		return Identity{}, err
	}
	c.session.setIdentity(identity)
	return identity, nil
}

// DeleteAccount removes the session user and their goals, then clears the session.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	body := map[string]string{"password": password}
	if err := c.do(ctx, http.MethodDelete, "/users/me", body, nil); err != nil {
		return err
	}
	return c.session.clear()
}
