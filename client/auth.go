package client

import (
	"context"
	"net/http"
)

// AdminLogin exchanges credentials for a bearer token. Storing the token is
// the caller's business (see session.Manager); this client attaches whatever
// its TokenStore holds.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var result struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", body, &result); err != nil {
		return "", err
	}
	return result.Token, nil
}
