// Package geocode resolves street addresses to coordinates through the
// Kakao Local API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/eunsilJANG/EasyGo/internal/domain"
)

const kakaoAddressURL = "https://dapi.kakao.com/v2/local/search/address.json"

// Geocoder resolves a free-form address to a coordinate.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (domain.Coordinate, error)
}

// ErrNoMatch is returned when the provider recognizes the request but finds
// no document for the address.
var ErrNoMatch = errors.New("geocode: no match for address")

// KakaoClient calls the Kakao Local address search endpoint.
type KakaoClient struct {
	apiKey     string
	httpClient *http.Client
}

var _ Geocoder = (*KakaoClient)(nil)

// NewKakaoClient constructs a client authenticated with a Kakao REST API key.
func NewKakaoClient(apiKey string, client *http.Client) *KakaoClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &KakaoClient{apiKey: apiKey, httpClient: client}
}

// Resolve looks up the first matching document for the address. Kakao
// returns coordinates as strings ("x" longitude, "y" latitude).
func (c *KakaoClient) Resolve(ctx context.Context, address string) (domain.Coordinate, error) {
	endpoint := kakaoAddressURL + "?query=" + url.QueryEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("read geocode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return domain.Coordinate{}, fmt.Errorf("geocode failed: status=%d", resp.StatusCode)
	}

	var payload struct {
		Documents []struct {
			X string `json:"x"`
			Y string `json:"y"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Coordinate{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(payload.Documents) == 0 {
		return domain.Coordinate{}, ErrNoMatch
	}

	lng, err := strconv.ParseFloat(payload.Documents[0].X, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse longitude: %w", err)
	}
	lat, err := strconv.ParseFloat(payload.Documents[0].Y, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse latitude: %w", err)
	}

	return domain.Coordinate{
		Latitude:  lat,
		Longitude: lng,
		FetchedAt: time.Now().UTC(),
	}, nil
}
