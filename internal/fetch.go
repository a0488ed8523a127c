package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
)

const (
	defaultUserAgent = "looneygrep/1.0"
	maxFetchBytes    = 32 << 20
)

// Fetcher retrieves a remote document.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (*Document, error)
}

// HTTPFetcher fetches documents over HTTP(S).
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	htmlText  bool
}

// NewHTTPFetcher returns a fetcher. With htmlText set, HTML bodies are
// converted to markdown text before searching.
func NewHTTPFetcher(timeout time.Duration, htmlText bool) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		htmlText:  htmlText,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRetrieval, locator, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRetrieval, locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", ErrRetrieval, locator, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := charset.NewReader(io.LimitReader(resp.Body, maxFetchBytes), contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: decode body: %v", ErrRetrieval, locator, err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRetrieval, locator, err)
	}

	text := string(data)
	label := locator
	mt, _, _ := mime.ParseMediaType(contentType)
	if mt == "text/html" {
		if title := htmlTitle(data); title != "" {
			label = fmt.Sprintf("%s (%s)", locator, title)
		}
		if f.htmlText {
			converted, err := md.NewConverter("", true, nil).ConvertString(text)
			if err != nil {
				logrus.WithError(err).WithField("url", locator).Warn("html to text failed, searching raw body")
			} else {
				text = converted
				mt = "text/markdown"
			}
		}
	}

	doc := NewDocument(label, KindURL, text)
	doc.TypeHint = mt
	logrus.WithFields(logrus.Fields{"url": locator, "bytes": len(data), "lines": len(doc.Lines)}).Debug("fetched")
	return doc, nil
}

func htmlTitle(data []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
