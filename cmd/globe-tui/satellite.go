package main

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/globe-renderer/model"
)

// ISS TLE used when the host does not supply one. Stale elements still
// produce a plausible moving marker for the demo.
const (
	defaultTLE1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	defaultTLE2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

// satTracker propagates a two-line element set and reports the ground
// coordinate directly beneath the satellite.
type satTracker struct {
	sat satellite.Satellite
}

func newSatTracker(line1, line2 string) *satTracker {
	if line1 == "" || line2 == "" {
		line1, line2 = defaultTLE1, defaultTLE2
	}
	return &satTracker{sat: satellite.TLEToSat(line1, line2, satellite.GravityWGS72)}
}

// groundPoint returns the subsatellite coordinate at time t.
func (s *satTracker) groundPoint(t time.Time) model.GeoCoordinate {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(s.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	_, _, ll := satellite.ECIToLLA(posECI, gmst)

	const rad2deg = 180 / math.Pi
	return model.GeoCoordinate{
		Lat: ll.Latitude * rad2deg,
		Lon: model.NormalizeLon(ll.Longitude * rad2deg),
	}.Clamped()
}
