package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shiftride/internal/domain"
)

// OSRMClient performs travel duration lookups against an OSRM HTTP server.
type OSRMClient struct {
	endpoint string
	client   *http.Client
}

// NewOSRMClient creates an OSRM client for the given endpoint.
func NewOSRMClient(endpoint string, timeout time.Duration) *OSRMClient {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &OSRMClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// TravelDuration queries the OSRM /route endpoint between two points.
func (o *OSRMClient) TravelDuration(ctx context.Context, from, to domain.Coordinate) (time.Duration, error) {
	// OSRM route query: /route/v1/driving/{lng1},{lat1};{lng2},{lat2}?overview=false
	url := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=false",
		o.endpoint, from.Lng, from.Lat, to.Lng, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: osrm status %d", ErrUnavailable, resp.StatusCode)
	}

	var out struct {
		Routes []struct {
			Duration float64 `json:"duration"`
		} `json:"routes"`
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if out.Code != "Ok" || len(out.Routes) == 0 {
		return 0, fmt.Errorf("%w: osrm code %q", ErrUnavailable, out.Code)
	}

	return time.Duration(out.Routes[0].Duration * float64(time.Second)), nil
}

// Ensure the client satisfies the Provider interface.
var _ Provider = (*OSRMClient)(nil)
