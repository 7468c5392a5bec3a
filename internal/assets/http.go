package assets

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tphakala/birdwheel/internal/errors"
	"github.com/tphakala/birdwheel/internal/httpclient"
	"github.com/tphakala/birdwheel/internal/logger"
)

// HTTPSource fetches assets below a base URL.
type HTTPSource struct {
	BaseURL *url.URL
	client  *httpclient.Client
}

// NewHTTPSource parses baseURL and returns a source fetching through client.
// A nil client gets the default configuration.
func NewHTTPSource(baseURL string, client *httpclient.Client) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if err == nil {
			err = errors.NewStd("missing scheme or host")
		}
		return nil, errors.New(err).
			Component(componentName).
			Category(errors.CategoryConfiguration).
			Context("base_url", baseURL).
			Build()
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = httpclient.New(nil)
	}

	s := &HTTPSource{BaseURL: u, client: client}
	client.SetAfterResponseHook(s.logResponse)
	return s, nil
}

// Client returns the HTTP client used by s.
func (s *HTTPSource) Client() *httpclient.Client {
	return s.client
}

// Locate returns the absolute URL of ref.
func (s *HTTPSource) Locate(ref string) string {
	return s.BaseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(ref, "/")}).String()
}

// Fetch GETs ref below the base URL.
func (s *HTTPSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}

	target := s.Locate(ref)
	start := time.Now()
	data, err := s.client.Fetch(ctx, target)
	if err != nil {
		builder := errors.New(err).
			Component(componentName).
			Category(errors.CategoryNetwork).
			NetworkContext(target, 0).
			Timing("fetch", time.Since(start)).
			Context("ref", ref)

		var statusErr *httpclient.StatusError
		switch {
		case errors.As(err, &statusErr):
			builder = builder.Context("status_code", statusErr.StatusCode)
		case errors.Is(err, context.DeadlineExceeded):
			builder = builder.Category(errors.CategoryTimeout)
		case ctx.Err() != nil:
			builder = builder.Category(errors.CategoryCancellation)
		}
		return nil, builder.Build()
	}

	return data, nil
}

func (s *HTTPSource) logResponse(req *http.Request, resp *http.Response, err error) {
	log := GetLogger()
	if err != nil {
		log.Debug("Asset request failed", logger.String("url", req.URL.String()), logger.Error(err))
		return
	}
	log.Debug("Asset request completed",
		logger.String("url", req.URL.String()),
		logger.Int("status", resp.StatusCode))
}
