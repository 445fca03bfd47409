// Package fetch retrieves and parses HTML pages.
package fetch

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"PeriodicalScanner/internal/ports"
	"PeriodicalScanner/pkg/logger"
)

const defaultUserAgent = "PeriodicalScanner/1.0"

// StatusError reports a non-success HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// Options configures a Client. The retry policy is applied uniformly to every
// request the client makes.
type Options struct {
	Timeout     time.Duration
	UserAgent   string
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
	InsecureTLS bool
	// HTTPClient replaces the underlying transport client, mostly for tests.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client fetches pages with retries and parses them with goquery.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

var _ ports.Fetcher = (*Client)(nil)

// New builds a Client from opts.
func New(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}

	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}

	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	rc.SetHeader("User-Agent", ua)

	if opts.InsecureTLS {
		rc.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	retries := opts.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	rc.SetRetryCount(retries)
	if opts.WaitTime > 0 {
		rc.SetRetryWaitTime(opts.WaitTime)
	}
	if opts.MaxWaitTime > 0 {
		rc.SetRetryMaxWaitTime(opts.MaxWaitTime)
	}
	rc.AddRetryCondition(retryable)
	rc.AddRetryHook(func(resp *resty.Response, err error) {
		attrs := []any{"url", requestURL(resp)}
		if err != nil {
			attrs = append(attrs, "error", err)
		} else if resp != nil {
			attrs = append(attrs, "status", resp.StatusCode())
		}
		log.Warn("retrying request", attrs...)
	})

	return &Client{http: rc, logger: log}
}

// Document GETs pageURL and parses the body as HTML. Relative links in the
// document can be resolved against doc.Url.
func (c *Client) Document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := c.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("request document %s: %w", pageURL, err)
	}

	if !resp.IsSuccess() {
		return nil, &StatusError{URL: pageURL, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", pageURL, err)
	}

	doc.Url, _ = url.Parse(pageURL)
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		doc.Url = raw.Request.URL
	}

	c.logger.Debug("fetched document", "url", pageURL, "status", resp.StatusCode(), "bytes", len(resp.Body()))
	return doc, nil
}

// Resolve turns href into an absolute URL relative to base. Empty or
// unparsable hrefs yield "".
func Resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// retryable retries transport errors, throttling and server errors. Other
// statuses are final.
func retryable(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func requestURL(resp *resty.Response) string {
	if resp == nil || resp.Request == nil {
		return ""
	}
	return resp.Request.URL
}
