package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"routing/internal/core/domain/model/kernel"
	"routing/internal/pkg/errs"
)

// defaultMatrixTimeout bounds a single matrix request so sequencing can
// degrade to the haversine fallback instead of hanging.
const defaultMatrixTimeout = 5 * time.Second

// MatrixOracle fetches pairwise travel durations from an OpenRouteService
// compatible matrix endpoint. Any failure is returned as an error; callers
// are expected to fall back to straight-line estimates.
type MatrixOracle struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewMatrixOracle creates a MatrixOracle for the given endpoint base URL.
// The API key may be empty for self-hosted instances without auth.
func NewMatrixOracle(baseURL string, apiKey string, timeout time.Duration) (*MatrixOracle, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if timeout <= 0 {
		timeout = defaultMatrixTimeout
	}

	return &MatrixOracle{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// matrixRequest is the wire format of the matrix endpoint request body.
// Locations are [longitude, latitude] pairs.
type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

// matrixResponse is the wire format of the matrix endpoint response body.
type matrixResponse struct {
	Durations [][]float64 `json:"durations"`
}

// Matrix returns an NxN matrix of travel durations in seconds between the
// given points, where element [i][j] is the time from points[i] to points[j].
func (o *MatrixOracle) Matrix(ctx context.Context, points []kernel.GeoPoint) ([][]float64, error) {
	locations := make([][]float64, 0, len(points))
	for _, point := range points {
		locations = append(locations, []float64{point.Longitude(), point.Latitude()})
	}

	body, err := json.Marshal(matrixRequest{
		Locations: locations,
		Metrics:   []string{"duration"},
	})
	if err != nil {
		return nil, err
	}

	url := o.baseURL + "/v2/matrix/driving-car"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("matrix request failed with status %d: %s", resp.StatusCode, payload)
	}

	var parsed matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	if len(parsed.Durations) != len(points) {
		return nil, fmt.Errorf("matrix response has %d rows for %d points", len(parsed.Durations), len(points))
	}

	return parsed.Durations, nil
}
