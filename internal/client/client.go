package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dyike/mentorchat/models"
)

const clientCookie = "mentor_client"

// APIError is a non-2xx answer from the chat server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client talks to a running mentor server over its JSON API. The server keys
// conversations by client cookie, which resty keeps in its cookie jar.
type Client struct {
	client  *resty.Client
	baseURL string
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	return &Client{client: client, baseURL: baseURL}
}

// SetClientID continues the conversation of an earlier client.
func (c *Client) SetClientID(id string) {
	if id == "" {
		return
	}
	c.client.SetCookie(&http.Cookie{Name: clientCookie, Value: id, Path: "/"})
}

// ClientID returns the id the server assigned, once a request has been made.
func (c *Client) ClientID() string {
	if jar := c.client.GetClient().Jar; jar != nil {
		if u, err := url.Parse(c.baseURL); err == nil {
			for _, ck := range jar.Cookies(u) {
				if ck.Name == clientCookie {
					return ck.Value
				}
			}
		}
	}
	for _, ck := range c.client.Cookies {
		if ck.Name == clientCookie {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) Ask(ctx context.Context, question string) (*models.ChatResult, error) {
	var result models.ChatResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(models.ChatParams{Question: question}).
		SetResult(&result).
		SetError(&models.ErrorResult{}).
		Post("/api/chat")
	if err := checkResponse(resp, err, "ask"); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) History(ctx context.Context) (*models.HistoryResult, error) {
	var result models.HistoryResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&models.ErrorResult{}).
		Get("/api/history")
	if err := checkResponse(resp, err, "history"); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Reset(ctx context.Context) (*models.SessionResult, error) {
	var result models.SessionResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&models.ErrorResult{}).
		Post("/api/session/reset")
	if err := checkResponse(resp, err, "reset"); err != nil {
		return nil, err
	}
	return &result, nil
}

func checkResponse(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if e, ok := resp.Error().(*models.ErrorResult); ok && e.Error != "" {
			msg = e.Error
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}
