package main

import (
	"fmt"
	"image/color"

	shp "github.com/jonas-p/go-shp"

	"github.com/signalsfoundry/globe-renderer/model"
	"github.com/signalsfoundry/globe-renderer/scene"
)

// maxRingVertices caps each coastline ring so a detailed shapefile does
// not swamp the per-frame clip; vertices are decimated evenly.
const maxRingVertices = 180

// loadCoastlines reads polygon shapes from a shapefile and registers
// each ring as a region highlight. Returns the number of regions added.
func loadCoastlines(sc *scene.Scene, path string, fill color.RGBA) (int, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open shapefile %q: %w", path, err)
	}
	defer shape.Close()

	added := 0
	for shape.Next() {
		_, p := shape.Shape()
		poly, ok := p.(*shp.Polygon)
		if !ok {
			continue
		}
		for _, ring := range splitParts(poly) {
			if len(ring) < 3 {
				continue
			}
			if _, err := sc.AddRegion(model.Region{
				Kind:  model.RegionPolygon,
				Ring:  ring,
				Color: fill,
			}); err != nil {
				return added, err
			}
			added++
		}
	}
	return added, nil
}

// splitParts slices a polygon's flat point list into its rings,
// decimated to the vertex cap. Shapefile points are lon/lat.
func splitParts(poly *shp.Polygon) [][]model.GeoCoordinate {
	var rings [][]model.GeoCoordinate
	for i, start := range poly.Parts {
		end := len(poly.Points)
		if i+1 < len(poly.Parts) {
			end = int(poly.Parts[i+1])
		}
		pts := poly.Points[int(start):end]

		step := 1
		if len(pts) > maxRingVertices {
			step = len(pts) / maxRingVertices
		}
		ring := make([]model.GeoCoordinate, 0, maxRingVertices+1)
		for j := 0; j < len(pts); j += step {
			ring = append(ring, model.GeoCoordinate{Lat: pts[j].Y, Lon: pts[j].X})
		}
		rings = append(rings, ring)
	}
	return rings
}
