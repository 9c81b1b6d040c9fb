package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"adriastay/internal/dates"
	"adriastay/internal/models"
)

// HTTPSource fetches a JSON calendar feed per apartment from a channel
// manager endpoint.
type HTTPSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	redis    *redis.Client
	cacheTTL time.Duration
}

// feedEvent is one event in the feed payload, dates as YYYY-MM-DD strings.
type feedEvent struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type feedResponse struct {
	Events []feedEvent `json:"events"`
}

// NewHTTPSource constructs a source with baseURL and optional API key.
func NewHTTPSource(baseURL, apiKey string) *HTTPSource {
	return &HTTPSource{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// UseRedisCache configures optional Redis caching of feed responses.
func (s *HTTPSource) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	s.redis = redisClient
	s.cacheTTL = ttl
}

// Events fetches the feed for one apartment and maps it to half-open
// calendar-date intervals.
func (s *HTTPSource) Events(ctx context.Context, apartmentID int64) ([]models.ExternalCalendarEvent, error) {
	endpoint := fmt.Sprintf("%s/feeds/%d", s.baseURL, apartmentID)
	cacheKey := fmt.Sprintf("feed:%d", apartmentID)

	var resp feedResponse
	if !s.readCache(ctx, cacheKey, &resp) {
		if err := s.doGet(ctx, endpoint, &resp); err != nil {
			return nil, fmt.Errorf("fetch feed for apartment %d: %w", apartmentID, err)
		}
		s.writeCache(ctx, cacheKey, resp)
	}

	events := make([]models.ExternalCalendarEvent, 0, len(resp.Events))
	for _, e := range resp.Events {
		start, err := time.Parse("2006-01-02", e.StartDate)
		if err != nil {
			return nil, fmt.Errorf("feed event start date %q: %w", e.StartDate, err)
		}
		end, err := time.Parse("2006-01-02", e.EndDate)
		if err != nil {
			return nil, fmt.Errorf("feed event end date %q: %w", e.EndDate, err)
		}
		events = append(events, models.ExternalCalendarEvent{
			ApartmentID: apartmentID,
			StartDate:   dates.Normalize(start),
			EndDate:     dates.Normalize(end),
			Source:      "http",
		})
	}
	return events, nil
}

func (s *HTTPSource) readCache(ctx context.Context, key string, out any) bool {
	if s.redis == nil || s.cacheTTL <= 0 {
		return false
	}
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (s *HTTPSource) writeCache(ctx context.Context, key string, val any) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = s.redis.Set(ctx, key, data, s.cacheTTL).Err()
}

func (s *HTTPSource) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}
