package opensearch

import (
	"fmt"
	"regexp"
	"strings"
)

// Converter transforms a raw parameter value before it becomes a filter.
type Converter func(value string) string

const (
	ConverterRangeArray     = "range_array"
	ConverterTimezone       = "timezone"
	ConverterTimerangeStart = "timerange_start"
	ConverterTimerangeStop  = "timerange_stop"
	ConverterIntersects     = "intersects"
)

var (
	rangeArrayPattern = regexp.MustCompile(`^\[\s*([^,\]]*?)\s*,\s*([^,\]]*?)\s*\]$`)
	enginePattern     = regexp.MustCompile(`^\[(\S+) TO (\S+)\]$`)
	zonePattern       = regexp.MustCompile(`(Z|[+\-][0-9]{2}:[0-9]{2})$`)
	intersectsPattern = regexp.MustCompile(`^"Intersects\((.*)\)"$`)
)

var converters = map[string]Converter{
	ConverterRangeArray:     rangeArrayToEngineRange,
	ConverterTimezone:       addTimezone,
	ConverterTimerangeStart: timerangeStart,
	ConverterTimerangeStop:  timerangeStop,
	ConverterIntersects:     intersects,
}

// ConverterNames lists the registered converters.
func ConverterNames() []string {
	return []string{
		ConverterRangeArray, ConverterTimezone, ConverterTimerangeStart,
		ConverterTimerangeStop, ConverterIntersects,
	}
}

// Convert applies the named converters in order.
func Convert(value string, names []string) (string, error) {
	for _, name := range names {
		fn, ok := converters[name]
		if !ok {
			return "", fmt.Errorf("unknown converter %q", name)
		}
		value = fn(value)
	}
	return value, nil
}

// [a,b] -> [a TO b]
func rangeArrayToEngineRange(value string) string {
	m := rangeArrayPattern.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	return engineRange(m[1], m[2])
}

func addTimezone(value string) string {
	if m := enginePattern.FindStringSubmatch(value); m != nil {
		return engineRange(withZone(m[1]), withZone(m[2]))
	}
	return withZone(value)
}

func withZone(ts string) string {
	if !strings.Contains(ts, ":") || zonePattern.MatchString(ts) {
		return ts
	}
	return ts + "Z"
}

func timerangeStart(value string) string {
	return engineRange(value, "NOW")
}

func timerangeStop(value string) string {
	return engineRange("*", value)
}

func intersects(value string) string {
	return `"Intersects(` + value + `)"`
}

func engineRange(from, to string) string {
	if from == "" {
		from = "*"
	}
	if to == "" {
		to = "NOW"
	}
	return "[" + from + " TO " + to + "]"
}
