package client

import (
	"context"
)

// User is the authenticated profile returned by the auth endpoints.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	TenantID string `json:"tenantId,omitempty"`
}

// LoginResult is the successful response of the login endpoint.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var result LoginResult
	if err := c.post("/api/auth/login").JSON(body).Do(ctx, &result); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

// Profile fetches the current user for the configured token.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var user User
	if err := c.get("/api/auth/me").Do(ctx, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// GenerateAgentToken issues a long-lived token for headless agents acting
// on behalf of the current user.
func (c *Client) GenerateAgentToken(ctx context.Context) (string, error) {
	var response struct {
		Token string `json:"token"`
	}
	if err := c.post("/api/auth/generate-agent-token").Do(ctx, &response); err != nil {
		return "", err
	}
	return response.Token, nil
}

// CheckTenant reports whether a tenant subdomain exists on the backend.
func (c *Client) CheckTenant(ctx context.Context, subdomain string) (bool, error) {
	var response struct {
		Exists bool `json:"exists"`
	}
	err := c.get("/api/tenants/check/" + subdomain).Do(ctx, &response)
	if err != nil {
		if IsStatus(err, 404) {
			return false, nil
		}
		return false, err
	}
	return response.Exists, nil
}
