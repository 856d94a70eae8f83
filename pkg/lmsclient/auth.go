package lmsclient

import (
	"context"
	"fmt"
	"net/http"
)

type RegisterRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Bio            string `json:"bio,omitempty"`
	Qualifications string `json:"qualifications,omitempty"`
}

type AuthResult struct {
	AccessToken string `json:"access_token"`
	UserID      uint   `json:"user_id"`
	Role        string `json:"role"`
}

type User struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Bio            string `json:"bio"`
	Qualifications string `json:"qualifications"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/register", req)
}

func (c *Client) RegisterTeacher(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/teacher/register", req)
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/login", map[string]string{"email": email, "password": password})
}

func (c *Client) LoginTeacher(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/teacher/login", map[string]string{"email": email, "password": password})
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, path, body, &res); err != nil {
		return nil, err
	}
	c.session.Set(res.AccessToken, res.UserID, res.Role)
	return &res, nil
}

// Logout 通知服务端吊销令牌，无论结果如何本地会话都会清空
func (c *Client) Logout(ctx context.Context) error {
	if !c.session.Authenticated() {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.session.Clear()
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ChangePassword(ctx context.Context, email, current, next string) error {
	if len(next) < 6 {
		return &ValidationError{Field: "new_password", Message: ErrPasswordTooShort.Error()}
	}
	userID, err := c.requireUser()
	if err != nil {
		return err
	}
	body := map[string]string{
		"email":            email,
		"current_password": current,
		"new_password":     next,
	}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/change-password/%d", userID), body, nil)
}
