package directions

import (
	"context"
	"math"
	"time"

	"shiftride/internal/domain"
)

// defaultSpeedMps is roughly 28.8 km/h, a typical city average.
const defaultSpeedMps = 8.0

// HaversineEstimator estimates travel duration as great-circle distance over
// a constant average speed. It is used when no routing backend is configured
// and as a deterministic provider in local development.
type HaversineEstimator struct {
	speedMps float64
}

// NewHaversineEstimator creates an estimator with the given average speed in
// meters per second. Non-positive values fall back to the default city speed.
func NewHaversineEstimator(speedMps float64) *HaversineEstimator {
	if speedMps <= 0 {
		speedMps = defaultSpeedMps
	}
	return &HaversineEstimator{speedMps: speedMps}
}

// TravelDuration returns haversine distance divided by the average speed.
func (e *HaversineEstimator) TravelDuration(_ context.Context, from, to domain.Coordinate) (time.Duration, error) {
	meters := haversineMeters(from.Lat, from.Lng, to.Lat, to.Lng)
	return time.Duration(meters / e.speedMps * float64(time.Second)), nil
}

func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusM = 6371000.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180.0 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

var _ Provider = (*HaversineEstimator)(nil)
