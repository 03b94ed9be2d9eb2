// Package twitterapi provides a client for the twitterapi.io advanced
// tweet search API.
package twitterapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/agilemorph/firewatch/internal/model"
)

const (
	defaultBaseURL     = "https://api.twitterapi.io"
	defaultWindowHours = 72
	defaultCooldown    = 60 * time.Second
)

// Client defines the tweet search operations used by the pipeline.
type Client interface {
	// Search runs one advanced-search query, most recent first, truncated
	// to maxResults.
	Search(ctx context.Context, query string, maxResults int) ([]model.Candidate, error)
	// SearchByAuthor fetches the latest posts from a single account.
	SearchByAuthor(ctx context.Context, handle string, maxResults int) ([]model.Candidate, error)
}

// searchResponse is the provider's advanced_search response body.
type searchResponse struct {
	Tweets []model.Candidate `json:"tweets"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithWindowHours sets the recency window applied to every query.
func WithWindowHours(hours int) Option {
	return func(c *httpClient) {
		if hours > 0 {
			c.windowHours = hours
		}
	}
}

// WithCooldown sets the fixed sleep applied after a rate-limit response.
func WithCooldown(d time.Duration) Option {
	return func(c *httpClient) {
		c.cooldown = d
	}
}

// WithRateLimit sets the sustained outbound request rate.
func WithRateLimit(perSec float64) Option {
	return func(c *httpClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey      string
	baseURL     string
	windowHours int
	cooldown    time.Duration
	limiter     *rate.Limiter
	http        *http.Client
}

// NewClient creates a tweet search client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:      apiKey,
		baseURL:     defaultBaseURL,
		windowHours: defaultWindowHours,
		cooldown:    defaultCooldown,
		limiter:     rate.NewLimiter(rate.Limit(10), 1),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string, maxResults int) ([]model.Candidate, error) {
	return c.search(ctx, query, maxResults)
}

func (c *httpClient) SearchByAuthor(ctx context.Context, handle string, maxResults int) ([]model.Candidate, error) {
	return c.search(ctx, "from:"+handle, maxResults)
}

// search issues one advanced-search request. A 429 triggers the fixed
// cooldown and exactly one retry of the same request; a second 429 fails
// the query. Failed queries are never fatal to the run, callers log and
// move on.
func (c *httpClient) search(ctx context.Context, query string, maxResults int) ([]model.Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "twitterapi: rate limiter")
	}

	body, status, err := c.doSearch(ctx, query)
	if err != nil {
		return nil, err
	}

	if status == http.StatusTooManyRequests {
		zap.L().Warn("twitterapi: rate limited, cooling down",
			zap.String("query", query),
			zap.Duration("cooldown", c.cooldown),
		)
		timer := time.NewTimer(c.cooldown)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, eris.Wrap(ctx.Err(), "twitterapi: cooldown interrupted")
		case <-timer.C:
		}

		body, status, err = c.doSearch(ctx, query)
		if err != nil {
			return nil, err
		}
	}

	if status != http.StatusOK {
		return nil, eris.Errorf("twitterapi: unexpected status %d: %s", status, string(body))
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "twitterapi: unmarshal response")
	}

	tweets := result.Tweets
	if maxResults > 0 && len(tweets) > maxResults {
		tweets = tweets[:maxResults]
	}
	return tweets, nil
}

func (c *httpClient) doSearch(ctx context.Context, query string) ([]byte, int, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s within_time:%dh", query, c.windowHours))
	params.Set("queryType", "Latest")

	reqURL := c.baseURL + "/twitter/tweet/advanced_search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, eris.Wrap(err, "twitterapi: create request")
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, eris.Wrap(err, "twitterapi: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, eris.Wrap(err, "twitterapi: read response")
	}

	return body, resp.StatusCode, nil
}
