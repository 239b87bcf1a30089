package backend

import (
	"context"
	"net/http"

	"toko-storefront/internal/models"
)

// Login exchanges a phone number and password for tokens.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	var tokens models.TokenPair
	if err := c.do(ctx, "auth.Login", http.MethodPost, "/auth/login", nil, req, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.Registration, error) {
	var reg models.Registration
	if err := c.do(ctx, "auth.Register", http.MethodPost, "/auth/register", nil, req, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, "user.Profile", http.MethodGet, "/user/profile", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateProfile changes the signed-in user's name and phone number.
func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	return c.do(ctx, "user.UpdateProfile", http.MethodPut, "/user/profile", nil, update, nil)
}

// Role returns the signed-in user's role.
func (c *Client) Role(ctx context.Context) (models.Role, error) {
	var resp struct {
		Role models.Role `json:"role"`
	}
	if err := c.do(ctx, "user.Role", http.MethodGet, "/user/role", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Role, nil
}

// Addresses returns the signed-in user's saved addresses.
func (c *Client) Addresses(ctx context.Context) ([]models.Address, error) {
	var resp struct {
		Addresses []models.Address `json:"address_list"`
	}
	if err := c.do(ctx, "user.Addresses", http.MethodGet, "/user/address", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}
