package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultMaxBody   = 5 << 20
	maxRedirects     = 5
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 a11yrank/1.0"
)

type Config struct {
	Timeout   time.Duration
	MaxBody   int64
	UserAgent string
}

// Fetcher retrieves page markup over HTTP. Errors are classified:
// timeouts, connection failures and 5xx responses are temporary and
// retried by the caller; 4xx responses and non-HTML payloads are
// terminal for the URL.
type Fetcher struct {
	client    *http.Client
	maxBody   int64
	userAgent string
}

func NewFetcher(cfg Config) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBody := cfg.MaxBody
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		maxBody:   maxBody,
		userAgent: userAgent,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "fetch", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if isTemporary(err) {
			return "", domain.WrapError(domain.ErrTemporary, "fetch", err)
		}
		return "", domain.WrapError(domain.ErrFetch, "fetch", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return "", domain.WrapError(domain.ErrTemporary, "fetch",
			fmt.Errorf("upstream returned %s", resp.Status))
	case resp.StatusCode >= 400:
		return "", domain.WrapError(domain.ErrFetch, "fetch",
			fmt.Errorf("upstream returned %s", resp.Status))
	case resp.StatusCode >= 300:
		return "", domain.WrapError(domain.ErrFetch, "fetch",
			fmt.Errorf("unfollowed redirect %s", resp.Status))
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !isHTMLContentType(ct) {
		return "", domain.WrapError(domain.ErrFetch, "fetch",
			fmt.Errorf("unsupported content type %q", ct))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		if isTemporary(err) {
			return "", domain.WrapError(domain.ErrTemporary, "fetch", err)
		}
		return "", domain.WrapError(domain.ErrFetch, "fetch", err)
	}
	if int64(len(body)) > f.maxBody {
		return "", domain.WrapError(domain.ErrFetch, "fetch",
			fmt.Errorf("response exceeds %d bytes", f.maxBody))
	}
	return string(body), nil
}

func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]))
	switch ct {
	case "text/html", "application/xhtml+xml", "text/plain", "":
		return true
	}
	return false
}

func isTemporary(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		// Connection refused or reset usually means a transient outage.
		return true
	}
	return false
}
