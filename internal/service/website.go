package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/html"
)

const (
	// MaxExcerptLength bounds the excerpt handed to the prompt, in characters.
	MaxExcerptLength = 5000

	defaultFetchTimeout = 10 * time.Second
	maxFetchBodyBytes   = 2 << 20
	maxFetchRedirects   = 5
	fetchUserAgent      = "smartbiz-qualifier/1.0 (+lead qualification)"
)

// skippedElements hold no visible text.
var skippedElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
	"svg":      {},
	"head":     {},
	"iframe":   {},
}

// HTTPClient abstracts outbound HTTP requests to simplify testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebsiteExcerpt is bounded plain text extracted from a lead's website.
type WebsiteExcerpt struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// WebsiteExtractor fetches a page and reduces it to visible text.
type WebsiteExtractor struct {
	client HTTPClient
}

// WebsiteExtractorOption configures optional dependencies.
type WebsiteExtractorOption func(*WebsiteExtractor)

// WithWebsiteHTTPClient overrides the default HTTP client.
func WithWebsiteHTTPClient(client HTTPClient) WebsiteExtractorOption {
	return func(e *WebsiteExtractor) {
		if client != nil {
			e.client = client
		}
	}
}

// NewWebsiteExtractor builds an extractor whose default client times out after
// timeout and follows at most five redirects.
func NewWebsiteExtractor(timeout time.Duration, opts ...WebsiteExtractorOption) *WebsiteExtractor {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	dialer := &net.Dialer{Timeout: timeout, Control: publicDialControl}
	e := &WebsiteExtractor{
		client: &http.Client{
			Timeout: timeout,
			// Direct dials only, each one checked by publicDialControl.
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: timeout,
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxFetchRedirects {
					return fmt.Errorf("stopped after %d redirects", maxFetchRedirects)
				}
				if _, err := sanitizeURL(req.URL.String()); err != nil {
					return fmt.Errorf("redirect to %s: %w", req.URL.Redacted(), err)
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract performs a single GET of rawURL and returns its visible text, truncated
// to MaxExcerptLength characters. Every failure is a *WebsiteFetchError.
func (e *WebsiteExtractor) Extract(ctx context.Context, rawURL string) (WebsiteExcerpt, error) {
	u, err := sanitizeURL(rawURL)
	if err != nil {
		return WebsiteExcerpt{}, &WebsiteFetchError{URL: rawURL, Reason: "invalid url", Err: err}
	}
	target := u.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return WebsiteExcerpt{}, &WebsiteFetchError{URL: target, Reason: "build request", Err: err}
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return WebsiteExcerpt{}, &WebsiteFetchError{URL: target, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return WebsiteExcerpt{}, &WebsiteFetchError{URL: target, Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	mediaType := responseMediaType(resp.Header.Get("Content-Type"))
	if !isTextMediaType(mediaType) {
		return WebsiteExcerpt{}, &WebsiteFetchError{URL: target, Reason: fmt.Sprintf("unsupported content type %q", mediaType)}
	}

	body := io.LimitReader(resp.Body, maxFetchBodyBytes)
	var text string
	if mediaType == "text/plain" {
		raw, err := io.ReadAll(body)
		if err != nil {
			return WebsiteExcerpt{}, &WebsiteFetchError{URL: target, Reason: "read body", Err: err}
		}
		text = collapseWhitespace(string(raw))
	} else {
		text, err = ExtractVisibleText(body)
		if err != nil {
			return WebsiteExcerpt{}, &WebsiteFetchError{URL: target, Reason: "parse html", Err: err}
		}
	}

	return WebsiteExcerpt{URL: target, Content: truncateRunes(text, MaxExcerptLength)}, nil
}

// publicDialControl refuses connections to loopback, private and link-local
// addresses, including hostnames that resolve to them.
func publicDialControl(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublicIP(ip) {
		return fmt.Errorf("dial %s: %w", address, errNonPublicAddress)
	}
	return nil
}

// ExtractVisibleText parses HTML and returns its visible text with whitespace collapsed.
func ExtractVisibleText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if _, skip := skippedElements[n.Data]; skip {
				return
			}
		case html.CommentNode:
			return
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return collapseWhitespace(sb.String()), nil
}

func responseMediaType(header string) string {
	if strings.TrimSpace(header) == "" {
		// Servers that omit the header are treated as serving HTML.
		return "text/html"
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(header))
	}
	return strings.ToLower(mediaType)
}

func isTextMediaType(mediaType string) bool {
	switch mediaType {
	case "text/html", "application/xhtml+xml", "text/plain":
		return true
	default:
		return false
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for idx := range s {
		if count == limit {
			return s[:idx]
		}
		count++
	}
	return s
}
