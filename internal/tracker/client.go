package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/zetronik/tv-movies-parser/internal/config"
	"github.com/zetronik/tv-movies-parser/internal/logging"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

const sessionCookie = "bb_session"

// ErrLoginFailed reports rejected tracker credentials.
var ErrLoginFailed = errors.New("tracker login failed")

// Client talks to the tracker forum. The forum serves windows-1251 pages
// and keeps its session in cookies, so the client owns a cookie jar and
// decodes every response through the declared charset.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	logger     *slog.Logger
	loggedIn   bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The replacement keeps
// the client's cookie jar unless it brings its own.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client == nil {
			return
		}
		if client.Jar == nil {
			client.Jar = c.httpClient.Jar
		}
		c.httpClient = client
	}
}

// NewClient builds a tracker client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.Tracker.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("tracker base url required")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &Client{
		httpClient: &http.Client{Jar: jar, Timeout: 30 * time.Second},
		baseURL:    baseURL,
		username:   cfg.Tracker.Username,
		password:   cfg.Tracker.Password,
		logger:     logging.NewComponentLogger(logger, "tracker"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Login authenticates against the forum's login form. Success is detected
// by the session cookie or by the profile link the logged-in page carries;
// the form returns 200 either way.
func (c *Client) Login(ctx context.Context) error {
	if c.loggedIn {
		return nil
	}
	form := url.Values{}
	form.Set("login_username", c.username)
	form.Set("login_password", c.password)
	form.Set("login", "Вход")

	doc, err := c.postForm(ctx, "/login.php", form)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if c.hasSessionCookie() || doc.Find(`a[href*="profile.php?mode=viewprofile"]`).Length() > 0 {
		c.loggedIn = true
		c.logger.Info("tracker login succeeded", logging.String("username", c.username))
		return nil
	}
	return ErrLoginFailed
}

func (c *Client) hasSessionCookie() bool {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	for _, cookie := range c.httpClient.Jar.Cookies(base) {
		if cookie.Name == sessionCookie && cookie.Value != "" {
			return true
		}
	}
	return false
}

// get fetches a forum page and parses it through the declared charset.
func (c *Client) get(ctx context.Context, path string, params url.Values) (*goquery.Document, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	return c.do(req)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*goquery.Document, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", req.URL.Path, resp.Status)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode response charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse response html: %w", err)
	}
	return doc, nil
}
