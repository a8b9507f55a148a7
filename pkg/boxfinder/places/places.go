// Package places looks up gyms through the Google Places web service and
// turns them into candidate records used to pre-fill new boxes.
package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"golang.org/x/sync/errgroup"
	"googlemaps.github.io/maps"
)

const (
	DefaultCacheTTL = time.Hour

	enrichConcurrency = 4
)

var ErrNotConfigured = errors.New("google maps api key is not configured")

// Config holds client settings. BaseURL overrides the Google host and is
// only set in tests.
type Config struct {
	APIKey     string
	BaseURL    string
	CacheTTL   time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type details struct {
	Phone   string
	Website string
}

type address struct {
	City        string
	State       string
	Country     string
	CountryCode string
}

// Client queries text search, place details and geocoding, caching results
type Client struct {
	maps    *maps.Client
	ttl     time.Duration
	results *ristretto.Cache[string, []models.Candidate]
	details *ristretto.Cache[string, details]
	logger  *slog.Logger
}

// New creates a client. A missing API key is not an error here; Lookup
// reports ErrNotConfigured instead.
func New(cfg Config) (*Client, error) {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var mc *maps.Client
	if cfg.APIKey != "" {
		opts := []maps.ClientOption{maps.WithAPIKey(cfg.APIKey), maps.WithHTTPClient(cfg.HTTPClient)}
		if cfg.BaseURL != "" {
			opts = append(opts, maps.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
		}
		var err error
		mc, err = maps.NewClient(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create maps client: %w", err)
		}
	}

	results, err := ristretto.NewCache(&ristretto.Config[string, []models.Candidate]{
		NumCounters: 1e4,
		MaxCost:     1e3,
		BufferItems: 64,

		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	det, err := ristretto.NewCache(&ristretto.Config[string, details]{
		NumCounters: 1e5,
		MaxCost:     1e4,
		BufferItems: 64,

		IgnoreInternalCost: true,
	})
	if err != nil {
		results.Close()
		return nil, fmt.Errorf("failed to create details cache: %w", err)
	}

	return &Client{
		maps:    mc,
		ttl:     cfg.CacheTTL,
		results: results,
		details: det,
		logger:  logger.With("component", "places"),
	}, nil
}

// Close releases the caches
func (c *Client) Close() {
	c.results.Close()
	c.details.Close()
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.maps != nil
}

// Lookup returns gyms matching text, enriched with address components and
// contact details. An empty result is not an error.
func (c *Client) Lookup(ctx context.Context, text string) ([]models.Candidate, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	query := strings.ToLower(strings.TrimSpace(text))
	if query == "" {
		return []models.Candidate{}, nil
	}

	cacheKey := "places:" + query
	if cached, ok := c.results.Get(cacheKey); ok {
		c.logger.Debug("returning cached place results", "query", query)
		return cached, nil
	}

	resp, err := c.maps.TextSearch(ctx, &maps.TextSearchRequest{Query: query, Type: maps.PlaceTypeGym})
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch Google Places results: %w", err)
	}

	candidates := make([]models.Candidate, len(resp.Results))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, place := range resp.Results {
		candidates[i] = models.Candidate{
			PlaceID:      place.PlaceID,
			Name:         place.Name,
			Address:      place.FormattedAddress,
			Rating:       float64(place.Rating),
			TotalRatings: place.UserRatingsTotal,
		}
		if loc := place.Geometry.Location; loc.Lat != 0 || loc.Lng != 0 {
			lat, lng := loc.Lat, loc.Lng
			candidates[i].Latitude = &lat
			candidates[i].Longitude = &lng
		}

		g.Go(func() error {
			c.enrich(gctx, &candidates[i])
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(candidates) > 0 {
		c.results.SetWithTTL(cacheKey, candidates, 1, c.ttl)
	}
	return candidates, nil
}

// enrich fills address components and contact details. Failures leave the
// fields empty rather than dropping the candidate.
func (c *Client) enrich(ctx context.Context, cand *models.Candidate) {
	if cand.Address != "" {
		addr, err := c.geocode(ctx, cand.Address)
		if err != nil {
			c.logger.Warn("address lookup failed", "place_id", cand.PlaceID, "error", err)
		} else {
			cand.City = addr.City
			cand.State = addr.State
			cand.Country = addr.Country
			cand.CountryCode = addr.CountryCode
		}
	}

	det, err := c.placeDetails(ctx, cand.PlaceID)
	if err != nil {
		c.logger.Warn("place details lookup failed", "place_id", cand.PlaceID, "error", err)
		return
	}
	cand.Phone = det.Phone
	cand.Website = det.Website
}

func (c *Client) placeDetails(ctx context.Context, placeID string) (details, error) {
	cacheKey := "placeDetails:" + placeID
	if cached, ok := c.details.Get(cacheKey); ok {
		return cached, nil
	}

	res, err := c.maps.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskFormattedPhoneNumber,
			maps.PlaceDetailsFieldMaskWebsite,
		},
	})
	if err != nil {
		return details{}, fmt.Errorf("Failed to fetch place details: %w", err)
	}

	det := details{Phone: res.FormattedPhoneNumber, Website: res.Website}
	c.details.SetWithTTL(cacheKey, det, 1, c.ttl)
	return det, nil
}

func (c *Client) geocode(ctx context.Context, addr string) (address, error) {
	results, err := c.maps.Geocode(ctx, &maps.GeocodingRequest{Address: addr})
	if err != nil {
		return address{}, fmt.Errorf("Address lookup failed: %w", err)
	}
	if len(results) == 0 {
		return address{}, errors.New("Address lookup failed: ZERO_RESULTS")
	}

	var out address
	for _, comp := range results[0].AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "locality":
				out.City = comp.LongName
			case "administrative_area_level_1":
				out.State = comp.LongName
			case "country":
				out.Country = comp.LongName
				out.CountryCode = strings.ToUpper(comp.ShortName)
			}
		}
	}
	return out, nil
}
