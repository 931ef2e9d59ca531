// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex adapts the OpenAlex Works API to the matcher's
// repository interface. All queries go through a shared rate limiter and
// the retry helper; results can be cached in a local SQLite file so
// re-running a review does not repeat identical lookups.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/refmatch/internal/authorquery"
	"github.com/pdiddy/refmatch/internal/httputil"
	"github.com/pdiddy/refmatch/internal/textnorm"
	"github.com/pdiddy/refmatch/pkg/types"
)

// openAlexWorksBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

// searchPageSize is the per_page value for title-based searches. OpenAlex
// sorts by relevance, so the first page is all the matcher ever needs.
const searchPageSize = 25

// Client queries the OpenAlex Works API. It implements the matcher's
// PublicationRepository. A Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	cfg        types.OpenAlexConfig
	limiter    *rate.Limiter
	cache      *Cache
	log        zerolog.Logger
}

// NewClient builds a client from the adapter configuration. When
// cfg.CachePath is set the SQLite lookup cache is opened (and created)
// at that path.
func NewClient(cfg types.OpenAlexConfig, log zerolog.Logger) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 10
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		log:        log,
	}

	if cfg.CachePath != "" {
		cache, err := OpenCache(cfg.CachePath, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("opening lookup cache: %w", err)
		}
		c.cache = cache
		log.Info().Str("path", cfg.CachePath).Msg("lookup cache enabled")
	}

	return c, nil
}

// Close releases the lookup cache, if one is open.
func (c *Client) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}

// GetByDOI returns the work registered under the DOI, or nil when OpenAlex
// has no record for it.
func (c *Client) GetByDOI(ctx context.Context, doi string) (*types.Publication, error) {
	return c.getOne(ctx, "doi", "doi:"+doi)
}

// GetByPMID returns the work registered under the PubMed ID, or nil when
// OpenAlex has no record for it.
func (c *Client) GetByPMID(ctx context.Context, pmid string) (*types.Publication, error) {
	return c.getOne(ctx, "pmid", "pmid:"+pmid)
}

// SearchByTitleAuthorsYear searches works by title and author names,
// restricted to an exact publication year.
func (c *Client) SearchByTitleAuthorsYear(ctx context.Context, title string, authors []string, year int) ([]types.Publication, error) {
	filter := strings.Join([]string{
		"title.search:" + textnorm.Normalize(title),
		"raw_author_name.search:" + authorquery.Query(authors),
		"publication_year:" + strconv.Itoa(year),
	}, ",")
	return c.search(ctx, "title_authors_year", filter)
}

// SearchByTitleAuthors searches works by title and author names.
func (c *Client) SearchByTitleAuthors(ctx context.Context, title string, authors []string) ([]types.Publication, error) {
	filter := strings.Join([]string{
		"title.search:" + textnorm.Normalize(title),
		"raw_author_name.search:" + authorquery.Query(authors),
	}, ",")
	return c.search(ctx, "title_authors", filter)
}

// SearchByTitleYear searches works by title, restricted to an exact
// publication year.
func (c *Client) SearchByTitleYear(ctx context.Context, title string, year int) ([]types.Publication, error) {
	filter := strings.Join([]string{
		"title.search:" + textnorm.Normalize(title),
		"publication_year:" + strconv.Itoa(year),
	}, ",")
	return c.search(ctx, "title_year", filter)
}

// SearchByTitle searches works by title alone. The title is normalized
// before embedding: a filter expression separates clauses with commas, and
// normalization leaves only letters, digits and spaces.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]types.Publication, error) {
	return c.search(ctx, "title", "title.search:"+textnorm.Normalize(title))
}

// worksResponse is the Works endpoint envelope.
type worksResponse struct {
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
	Results []types.Publication `json:"results"`
}

func (c *Client) getOne(ctx context.Context, op, filter string) (*types.Publication, error) {
	results, err := c.query(ctx, op, filter, 1, false)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

func (c *Client) search(ctx context.Context, op, filter string) ([]types.Publication, error) {
	results, err := c.query(ctx, op, filter, searchPageSize, true)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []types.Publication{}
	}
	return results, nil
}

func (c *Client) query(ctx context.Context, op, filter string, perPage int, relevanceSort bool) ([]types.Publication, error) {
	if c.cache != nil {
		if payload, ok, err := c.cache.Get(op, filter); err != nil {
			c.log.Warn().Err(err).Msg("cache read failed")
		} else if ok {
			var results []types.Publication
			if err := json.Unmarshal(payload, &results); err == nil {
				c.log.Debug().Str("op", op).Str("filter", filter).Msg("cache hit")
				return results, nil
			}
			c.log.Warn().Str("op", op).Msg("discarding undecodable cache entry")
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"filter":   {filter},
		"per_page": {strconv.Itoa(perPage)},
	}
	if relevanceSort {
		params.Set("sort", "relevance_score:desc")
	}
	if c.cfg.Email != "" {
		params.Set("mailto", c.cfg.Email)
	}

	reqURL := openAlexWorksBase + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	policy := httputil.RetryPolicy{
		MaxRetries: c.cfg.MaxRetries,
		BaseDelay:  c.cfg.RetryBackoff,
		Statuses:   c.cfg.RetryStatusCodes,
	}
	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, policy)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	// A filter that resolves no entity (unknown DOI, unknown PMID) comes
	// back as 404; treat it as an empty result set, not a failure.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var works worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&works); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	c.log.Debug().Str("op", op).Str("filter", filter).Int("results", len(works.Results)).Msg("works query")

	if c.cache != nil {
		if payload, err := json.Marshal(works.Results); err == nil {
			if err := c.cache.Put(op, filter, payload); err != nil {
				c.log.Warn().Err(err).Msg("cache write failed")
			}
		}
	}

	return works.Results, nil
}
