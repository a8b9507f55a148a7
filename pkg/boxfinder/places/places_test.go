package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoogle struct {
	searches atomic.Int32
	details  atomic.Int32
	status   string
}

func (f *fakeGoogle) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/maps/api/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		f.searches.Add(1)
		assert.Equal(t, "gym", r.URL.Query().Get("type"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		switch f.status {
		case "", "OK":
		default:
			json.NewEncoder(w).Encode(map[string]any{"status": f.status, "results": []any{}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"results": []map[string]any{{
				"place_id":           "p1",
				"name":               "Iron Yard CrossFit",
				"formatted_address":  "1 Main St, Austin, TX, USA",
				"rating":             4.8,
				"user_ratings_total": 120,
				"geometry":           map[string]any{"location": map[string]any{"lat": 30.27, "lng": -97.74}},
			}},
		})
	})
	mux.HandleFunc("/maps/api/place/details/json", func(w http.ResponseWriter, r *http.Request) {
		f.details.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"result": map[string]any{"formatted_phone_number": "(512) 555-0100", "website": "https://ironyard.example"},
		})
	})
	mux.HandleFunc("/maps/api/geocode/json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"results": []map[string]any{{
				"address_components": []map[string]any{
					{"long_name": "Austin", "short_name": "Austin", "types": []string{"locality", "political"}},
					{"long_name": "Texas", "short_name": "TX", "types": []string{"administrative_area_level_1"}},
					{"long_name": "United States", "short_name": "US", "types": []string{"country", "political"}},
				},
			}},
		})
	})
	return mux
}

func setupClient(t *testing.T, f *fakeGoogle) *Client {
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	c, err := New(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestLookupEnrichesCandidates(t *testing.T) {
	c := setupClient(t, &fakeGoogle{})

	got, err := c.Lookup(context.Background(), "Iron Yard")
	require.NoError(t, err)
	require.Len(t, got, 1)

	cand := got[0]
	assert.Equal(t, "p1", cand.PlaceID)
	assert.Equal(t, "Iron Yard CrossFit", cand.Name)
	assert.Equal(t, "Austin", cand.City)
	assert.Equal(t, "Texas", cand.State)
	assert.Equal(t, "United States", cand.Country)
	assert.Equal(t, "US", cand.CountryCode)
	assert.Equal(t, "(512) 555-0100", cand.Phone)
	assert.Equal(t, "https://ironyard.example", cand.Website)
	require.NotNil(t, cand.Latitude)
	assert.InDelta(t, 30.27, *cand.Latitude, 0.001)
	assert.Equal(t, 120, cand.TotalRatings)
}

func TestLookupCachesResults(t *testing.T) {
	f := &fakeGoogle{}
	c := setupClient(t, f)
	ctx := context.Background()

	_, err := c.Lookup(ctx, "Iron Yard")
	require.NoError(t, err)
	c.results.Wait()

	_, err = c.Lookup(ctx, "  iron yard ")
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.searches.Load())
}

func TestLookupZeroResults(t *testing.T) {
	c := setupClient(t, &fakeGoogle{status: "ZERO_RESULTS"})

	got, err := c.Lookup(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLookupAPIError(t *testing.T) {
	c := setupClient(t, &fakeGoogle{status: "REQUEST_DENIED"})

	_, err := c.Lookup(context.Background(), "iron")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "REQUEST_DENIED"))
}

func TestLookupNotConfigured(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	defer c.Close()
	assert.False(t, c.Configured())

	_, err = c.Lookup(context.Background(), "iron")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLookupHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Lookup(context.Background(), "iron")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to fetch Google Places results")
}
