package location

import "context"

// StaticSource reports fixed coordinates from configuration. It stands in
// for a live positioning device on platforms without one; both coordinates
// unset behaves like a denied permission.
type StaticSource struct {
	latitude  *float64
	longitude *float64
}

// NewStaticSource returns a [PositionSource] fixed at the given coordinates.
func NewStaticSource(latitude, longitude *float64) *StaticSource {
	return &StaticSource{latitude: latitude, longitude: longitude}
}

func (s *StaticSource) Current(_ context.Context) (Position, error) {
	if s.latitude == nil || s.longitude == nil {
		return Position{}, ErrPermissionDenied
	}

	return Position{Latitude: *s.latitude, Longitude: *s.longitude}, nil
}
