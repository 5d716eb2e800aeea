package opensearch

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

var (
	datetimePattern  = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}(T[0-9]{2}:[0-9]{2}:[0-9]{2}(\.[0-9]+)?(Z|[+\-][0-9]{2}:[0-9]{2})?)?$`)
	dateRangePattern = regexp.MustCompile(`^\[([^,\]]+),([^,\]]+)\]$`)

	errBBoxParts = errors.New("expected four comma separated numbers")
)

// BBox is a geographic bounding box in degrees.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// ParseBBox parses "minX,minY,maxX,maxY" and checks the box is well formed.
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, errBBoxParts
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, errBBoxParts
		}
		vals[i] = v
	}
	b := BBox{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}

	switch {
	case b.MinX < -180 || b.MinX > 180:
		return b, errors.New("minX must be between -180 and 180")
	case b.MaxX < -180 || b.MaxX > 180:
		return b, errors.New("maxX must be between -180 and 180")
	case b.MinY < -90 || b.MinY > 90:
		return b, errors.New("minY must be between -90 and 90")
	case b.MaxY < -90 || b.MaxY > 90:
		return b, errors.New("maxY must be between -90 and 90")
	case b.MinX >= b.MaxX:
		return b, errors.New("minX must be less than maxX")
	case b.MinY >= b.MaxY:
		return b, errors.New("minY must be less than maxY")
	}
	return b, nil
}

// Envelope renders the box in the ENVELOPE(minX, maxX, maxY, minY) form
// understood by Lucene spatial fields.
func (b BBox) Envelope() string {
	return fmt.Sprintf("ENVELOPE(%s, %s, %s, %s)",
		formatCoord(b.MinX), formatCoord(b.MaxX), formatCoord(b.MaxY), formatCoord(b.MinY))
}

func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseGeometry parses a WKT geometry of one of the supported types.
func ParseGeometry(s string) (orb.Geometry, error) {
	g, err := wkt.Unmarshal(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	switch g.(type) {
	case orb.Point, orb.LineString, orb.Polygon, orb.MultiPoint, orb.MultiLineString, orb.MultiPolygon:
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %s", g.GeoJSONType())
	}
}

func IsDatetime(s string) bool {
	return datetimePattern.MatchString(s)
}

// SplitDateRange splits "[T1,T2]" into its bounds.
func SplitDateRange(s string) (string, string, bool) {
	m := dateRangePattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

func IsDateRange(s string) bool {
	from, to, ok := SplitDateRange(s)
	return ok && IsDatetime(from) && IsDatetime(to)
}
