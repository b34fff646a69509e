package location

import (
	"context"
	"errors"
	"time"

	"github.com/ewalker114/lifelog/internal/config"
	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/models"
)

// ErrPermissionDenied is reported by a [PositionSource] when the user has
// refused location access. The provider treats it as "no location", not as
// a failure.
var ErrPermissionDenied = errors.New("location permission denied")

// Position is a raw coordinate fix from the device.
type Position struct {
	Latitude  float64
	Longitude float64
}

// PositionSource acquires the current device coordinates. The provider
// bounds every call with a deadline and abandons implementations that do not
// honour ctx cancellation, so a stuck source cannot stall entry creation.
type PositionSource interface {
	Current(ctx context.Context) (Position, error)
}

// ReverseGeocoder resolves coordinates into a human-readable place name.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// Provider acquires the optional location unit attached to new entries.
//
// Location capture never blocks entry creation beyond its configured
// timeouts and never fails it: an expired wait, a denied permission, or a
// geocoder error all degrade the result instead of producing an error.
type Provider struct {
	source   PositionSource
	geocoder ReverseGeocoder

	positionTimeout time.Duration
	reverseTimeout  time.Duration
}

// NewProvider constructs a [Provider]. geocoder may be nil, in which case
// entries carry bare coordinates without a place name.
func NewProvider(source PositionSource, geocoder ReverseGeocoder, cfg config.ClientLocation, log *logger.Logger) *Provider {
	log.Debug().Msg("creating location provider")
	return &Provider{
		source:          source,
		geocoder:        geocoder,
		positionTimeout: cfg.PositionTimeout,
		reverseTimeout:  cfg.ReverseTimeout,
	}
}

// Current returns the location unit for a new entry, or nil when none could
// be acquired. nil is a valid outcome, not an error: the only way Current
// fails is a ctx cancellation propagated from the caller.
//
// The position wait is bounded by the configured position timeout and the
// reverse lookup by the reverse timeout. Each call runs in its own goroutine
// and is raced against its window, so even a source or geocoder that ignores
// ctx cannot hold up the caller past the bound; the straggler finishes into
// a buffered channel nobody reads. A reverse lookup failure keeps the
// coordinates and drops only the name.
func (p *Provider) Current(ctx context.Context) (*models.Location, error) {
	log := logger.FromContext(ctx)

	posCtx, cancel := context.WithTimeout(ctx, p.positionTimeout)
	defer cancel()

	posCh := make(chan positionResult, 1)
	go func() {
		pos, err := p.source.Current(posCtx)
		posCh <- positionResult{pos: pos, err: err}
	}()

	var pos Position
	select {
	case res := <-posCh:
		if res.err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(res.err, ErrPermissionDenied) {
				log.Debug().Str("func", "Provider.Current").Msg("location permission denied")
			} else {
				log.Warn().Err(res.err).Str("func", "Provider.Current").Msg("failed to acquire position")
			}
			return nil, nil
		}
		pos = res.pos
	case <-posCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Str("func", "Provider.Current").Msg("position wait expired, saving entry without location")
		return nil, nil
	}

	loc := &models.Location{Latitude: pos.Latitude, Longitude: pos.Longitude}
	if p.geocoder == nil {
		return loc, nil
	}

	revCtx, cancel := context.WithTimeout(ctx, p.reverseTimeout)
	defer cancel()

	revCh := make(chan reverseResult, 1)
	go func() {
		name, err := p.geocoder.ReverseGeocode(revCtx, pos.Latitude, pos.Longitude)
		revCh <- reverseResult{name: name, err: err}
	}()

	select {
	case res := <-revCh:
		if res.err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(res.err).Str("func", "Provider.Current").Msg("reverse geocoding failed, keeping coordinates")
			return loc, nil
		}
		if res.name != "" {
			loc.Name = &res.name
		}
	case <-revCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Str("func", "Provider.Current").Msg("reverse lookup expired, keeping coordinates")
	}

	return loc, nil
}

type positionResult struct {
	pos Position
	err error
}

type reverseResult struct {
	name string
	err  error
}
