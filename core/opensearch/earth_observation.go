package opensearch

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// EarthObservation is the eop metadata block of an entry, filled from
// dataset extras.
type EarthObservation struct {
	ID              string
	BeginPosition   string
	EndPosition     string
	Platform        string
	Instrument      string
	SensorType      string
	OrbitDirection  string
	OrbitNumber     string
	ProductType     string
	AcquisitionType string
	Status          string
}

func newEarthObservation(id string, doc Document) *EarthObservation {
	extra := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := doc.Extras[k]; ok {
				return v
			}
		}
		return ""
	}
	return &EarthObservation{
		ID:              id,
		BeginPosition:   extra("startposition"),
		EndPosition:     extra("endposition"),
		Platform:        extra("platformname", "PlatformName"),
		Instrument:      extra("instrumentshortname"),
		SensorType:      extra("SensorType"),
		OrbitDirection:  extra("orbitdirection", "OrbitDirection"),
		OrbitNumber:     extra("orbitnumber", "OrbitNumber"),
		ProductType:     extra("producttype", "productType"),
		AcquisitionType: extra("acquisitiontype"),
		Status:          extra("status"),
	}
}

// spatialShape reads a GeoJSON geometry and returns the coordinates of its
// outer ring, or of the point, as space separated numbers. Anything it
// cannot read yields empty strings.
func spatialShape(raw string) (polygon string, point string) {
	if strings.TrimSpace(raw) == "" {
		return "", ""
	}
	g, err := geojson.UnmarshalGeometry([]byte(raw))
	if err != nil || g == nil {
		return "", ""
	}
	switch geom := g.Geometry().(type) {
	case orb.Polygon:
		if len(geom) > 0 {
			return joinPoints(geom[0]), ""
		}
	case orb.MultiPolygon:
		if len(geom) > 0 && len(geom[0]) > 0 {
			return joinPoints(geom[0][0]), ""
		}
	case orb.Point:
		return "", joinPoints([]orb.Point{geom})
	}
	return "", ""
}

func joinPoints(points []orb.Point) string {
	parts := make([]string, 0, len(points)*2)
	for _, p := range points {
		parts = append(parts, strconv.FormatFloat(p[0], 'f', -1, 64), strconv.FormatFloat(p[1], 'f', -1, 64))
	}
	return strings.Join(parts, " ")
}
