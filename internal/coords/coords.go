// Package coords converts degree-minute-second coordinate strings into signed decimal degrees.
package coords

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Hemisphere is one of N, S, E or W.
type Hemisphere byte

const (
	North Hemisphere = 'N'
	South Hemisphere = 'S'
	East  Hemisphere = 'E'
	West  Hemisphere = 'W'
)

// Defaults holds the hemisphere applied to a component that carries no letter.
type Defaults struct {
	Lat Hemisphere
	Lng Hemisphere
}

// DefaultHemispheres matches the field data, which is all collected in the
// northern and western hemispheres.
var DefaultHemispheres = Defaults{Lat: North, Lng: West}

// Coordinate is a validated decimal latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point returns the coordinate as an orb.Point (lng, lat order).
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// dms is one degrees/minutes/seconds component with an optional hemisphere letter.
// Numbers must be separated by a degree/minute glyph or by whitespace.
const dms = `(\d+)(?:\s*[°º˚]\s*|\s+)` +
	`(\d+(?:\.\d+)?)(?:\s*['′’]\s*|\s+)` +
	`(\d+(?:\.\d+)?)\s*(?:["″”]|''|′′|’’)?` +
	`(?:\s*([NSEW]))?`

var (
	// componentRe matches a single latitude or longitude component.
	componentRe = regexp.MustCompile(`(?i)^\s*` + dms + `\s*$`)

	// pairRe finds the boundary between the latitude and longitude components.
	pairRe = regexp.MustCompile(`(?i)^\s*(` + dms + `)\s*[,;]?\s*(` + dms + `)\s*$`)
)

// Parse converts a raw "lat lng" DMS string using DefaultHemispheres.
// It reports false when the string is malformed or out of range.
func Parse(raw string) (Coordinate, bool) {
	return ParseWith(raw, DefaultHemispheres)
}

// ParseWith converts a raw "lat lng" DMS string, applying def to any
// component without a hemisphere letter. Both components must parse and
// the result must fall within [-90,90] x [-180,180].
func ParseWith(raw string, def Defaults) (Coordinate, bool) {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return Coordinate{}, false
	}

	latRaw, lngRaw, ok := split(strings.Join(fields, " "))
	if !ok {
		return Coordinate{}, false
	}

	lat, ok := parseComponent(latRaw, def.Lat)
	if !ok {
		return Coordinate{}, false
	}
	lng, ok := parseComponent(lngRaw, def.Lng)
	if !ok {
		return Coordinate{}, false
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coordinate{}, false
	}
	return Coordinate{Lat: lat, Lng: lng}, true
}

// split separates the latitude component from the rest of the string.
func split(s string) (string, string, bool) {
	m := pairRe.FindStringSubmatchIndex(s)
	if m == nil {
		return "", "", false
	}
	// Group 1 is the whole latitude component, group 6 the longitude.
	return s[m[2]:m[3]], s[m[12]:m[13]], true
}

func parseComponent(s string, def Hemisphere) (float64, bool) {
	m := componentRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	deg, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	mins, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, false
	}
	secs, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, false
	}

	hemi := def
	if m[4] != "" {
		hemi = Hemisphere(strings.ToUpper(m[4])[0])
	}

	value := float64(deg) + mins/60 + secs/3600
	if hemi == South || hemi == West {
		value = -value
	}
	return value, true
}

// ParseHemisphere validates a configured hemisphere letter.
func ParseHemisphere(s string, allowed ...Hemisphere) (Hemisphere, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 {
		return 0, fmt.Errorf("coords: invalid hemisphere %q", s)
	}
	h := Hemisphere(s[0])
	for _, a := range allowed {
		if h == a {
			return h, nil
		}
	}
	return 0, fmt.Errorf("coords: hemisphere %q not allowed here", s)
}
