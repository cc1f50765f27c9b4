// Package remote implements the subscription backend API client.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/quantonganh/prefcenter"
)

const defaultTimeout = 10 * time.Second

// Client talks to the subscription backend over HTTP. All request bodies are
// form-encoded and all responses carry a JSON status envelope.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type Option func(*Client)

// NewClient returns a client for the backend at baseURL.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

type envelope struct {
	Status string `json:"status"`
	Code   int    `json:"code"`
	Desc   string `json:"desc"`
}

// do performs one backend call and decodes the status envelope into out,
// which must embed or be an *envelope. Transport failures become
// *prefcenter.NetworkError; status codes >= 400 become *prefcenter.RemoteError.
// No call is ever retried.
func (c *Client) do(ctx context.Context, op, method, path string, form url.Values, out interface{}) error {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrapf(err, "%s: build request", op)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &prefcenter.NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var env envelope
		code := resp.StatusCode
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Code != 0 {
			code = env.Code
		}
		return &prefcenter.RemoteError{Op: op, StatusCode: code}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &prefcenter.Error{Code: prefcenter.ErrInternal, Op: op, Err: errors.Wrap(err, "decode response")}
		}
	}

	return nil
}

// checkOK enforces the envelope contract on a transport-level success: a
// non-"ok" status from a 2xx response means the backend broke its contract.
func checkOK(op, status string) error {
	if status == "ok" {
		return nil
	}
	return &prefcenter.Error{
		Code:    prefcenter.ErrInternal,
		Op:      op,
		Message: fmt.Sprintf("unexpected backend status %q", status),
	}
}

// Confirm marks a pending signup confirmed. The raw status string is
// returned so callers can apply their own contract check.
func (c *Client) Confirm(ctx context.Context, token string) (string, error) {
	var env envelope
	if err := c.do(ctx, "remote.Confirm", http.MethodPost, "/news/confirm/"+token+"/", nil, &env); err != nil {
		return "", err
	}
	return env.Status, nil
}

// User fetches the subscriber record for a management token.
func (c *Client) User(ctx context.Context, token string) (*prefcenter.Subscriber, error) {
	var out struct {
		envelope
		prefcenter.Subscriber
	}
	if err := c.do(ctx, "remote.User", http.MethodGet, "/news/user/"+token+"/", nil, &out); err != nil {
		return nil, err
	}
	if err := checkOK("remote.User", out.Status); err != nil {
		return nil, err
	}

	user := out.Subscriber
	user.Token = token
	return &user, nil
}

// UpdateUser applies a partial update. Only the fields set on update are
// sent; Newsletters, when non-nil, is sent as the comma-joined full
// membership list the backend substitutes for the old one.
func (c *Client) UpdateUser(ctx context.Context, token string, update prefcenter.UserUpdate) error {
	form := url.Values{}
	if update.Lang != "" {
		form.Set("lang", update.Lang)
	}
	if update.Format != "" {
		form.Set("format", update.Format)
	}
	if update.Country != "" {
		form.Set("country", update.Country)
	}
	if update.Newsletters != nil {
		form.Set("newsletters", strings.Join(update.Newsletters, ","))
	}

	var env envelope
	if err := c.do(ctx, "remote.UpdateUser", http.MethodPost, "/news/user/"+token+"/", form, &env); err != nil {
		return err
	}
	return checkOK("remote.UpdateUser", env.Status)
}

// Unsubscribe removes all subscriptions for the user. optout marks the
// removal as a global opt-out on the backend.
func (c *Client) Unsubscribe(ctx context.Context, token, email string, optout bool) error {
	form := url.Values{}
	form.Set("email", email)
	if optout {
		form.Set("optout", "Y")
	}

	var env envelope
	if err := c.do(ctx, "remote.Unsubscribe", http.MethodPost, "/news/unsubscribe/"+token+"/", form, &env); err != nil {
		return err
	}
	return checkOK("remote.Unsubscribe", env.Status)
}

// Subscribe signs an email address up for one newsletter.
func (c *Client) Subscribe(ctx context.Context, email, newsletterID string, opts prefcenter.SubscribeOptions) error {
	form := url.Values{}
	form.Set("email", email)
	form.Set("newsletters", newsletterID)
	if opts.Format != "" {
		form.Set("format", opts.Format)
	}
	if opts.Country != "" {
		form.Set("country", opts.Country)
	}
	if opts.Lang != "" {
		form.Set("lang", opts.Lang)
	}
	if opts.SourceURL != "" {
		form.Set("source_url", opts.SourceURL)
	}

	var env envelope
	if err := c.do(ctx, "remote.Subscribe", http.MethodPost, "/news/subscribe/", form, &env); err != nil {
		return err
	}
	return checkOK("remote.Subscribe", env.Status)
}

// SendRecoveryMessage asks the backend to mail the user their preference
// center link. Unknown addresses come back as a 404-coded *RemoteError.
func (c *Client) SendRecoveryMessage(ctx context.Context, email string) error {
	form := url.Values{}
	form.Set("email", email)

	var env envelope
	if err := c.do(ctx, "remote.SendRecoveryMessage", http.MethodPost, "/news/recover/", form, &env); err != nil {
		return err
	}
	return checkOK("remote.SendRecoveryMessage", env.Status)
}

// CustomUnsubReason records the user's reason for opting out of everything.
func (c *Client) CustomUnsubReason(ctx context.Context, token, reason string) error {
	form := url.Values{}
	form.Set("token", token)
	form.Set("reason", reason)

	var env envelope
	if err := c.do(ctx, "remote.CustomUnsubReason", http.MethodPost, "/news/custom_unsub_reason/", form, &env); err != nil {
		return err
	}
	return checkOK("remote.CustomUnsubReason", env.Status)
}

// Newsletters fetches the newsletter catalog from the backend.
func (c *Client) Newsletters(ctx context.Context) (map[string]prefcenter.Newsletter, error) {
	var out struct {
		envelope
		Newsletters map[string]prefcenter.Newsletter `json:"newsletters"`
	}
	if err := c.do(ctx, "remote.Newsletters", http.MethodGet, "/news/newsletters/", nil, &out); err != nil {
		return nil, err
	}
	if err := checkOK("remote.Newsletters", out.Status); err != nil {
		return nil, err
	}

	catalog := make(map[string]prefcenter.Newsletter, len(out.Newsletters))
	for id, n := range out.Newsletters {
		n.ID = id
		catalog[id] = n
	}
	return catalog, nil
}
