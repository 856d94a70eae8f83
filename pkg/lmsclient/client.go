// Package lmsclient 是 LMS 后端的类型化客户端，同时承载前端的本地规则：
// 成绩录入校验与乐观更新、作业提交方式校验、进度步进和分页状态。
package lmsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New 创建客户端，session 为 nil 时新建一个空会话
func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = NewSession()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	token := c.session.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if decodeErr == io.EOF {
		decodeErr = nil
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message}
		if resp.StatusCode == http.StatusUnprocessableEntity && len(env.Data) > 0 {
			var payload struct {
				Details map[string]string `json:"details"`
			}
			if json.Unmarshal(env.Data, &payload) == nil {
				apiErr.Details = payload.Details
			}
		}
		// 带令牌的请求被拒绝视为登录态失效
		if apiErr.IsUnauthorized() || apiErr.IsForbidden() {
			c.session.invalidate(token)
		}
		return apiErr
	}
	if decodeErr != nil {
		return errors.Wrapf(decodeErr, "decoding %s %s", req.Method, req.URL.Path)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	return errors.Wrap(json.Unmarshal(env.Data, out), "decoding response data")
}

func (c *Client) requireUser() (uint, error) {
	id := c.session.UserID()
	if id == 0 || !c.session.Authenticated() {
		return 0, ErrNotLoggedIn
	}
	return id, nil
}
