// Package stations adapts upstream station listings into a uniform catalog.
package stations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/02loveslollipop/asos-explorer/services/api/payload"
	"github.com/02loveslollipop/asos-explorer/services/api/series"
)

// Station is one validated catalog entry.
type Station struct {
	ID   string         `json:"station_id"`
	Name string         `json:"name"`
	Lat  float64        `json:"lat"`
	Lon  float64        `json:"lon"`
	ICAO string         `json:"icao,omitempty"`
	Raw  map[string]any `json:"raw"`
}

// Alternate field names, tried in order.
var (
	idKeys   = []string{"station_id"}
	nameKeys = []string{"station_name", "name", "desc"}
	latKeys  = []string{"latitude", "lat", "LAT", "y"}
	lonKeys  = []string{"longitude", "lon", "lng", "LON", "x"}
	icaoKeys = []string{"icao"}
)

var listShapes = []payload.Strategy{
	payload.Array(),
	payload.Key("stations"),
	payload.Key("results"),
	payload.Key("data"),
}

// BuildCatalog converts a raw station listing into stations, in input order.
// Entries without an id or with coordinates that are not finite numbers are
// dropped; duplicates are kept.
func BuildCatalog(raw any) []Station {
	rows := payload.Rows(raw, listShapes...)
	out := make([]Station, 0, len(rows))
	for _, r := range rows {
		entry, ok := r.(map[string]any)
		if !ok {
			continue
		}
		if st, ok := adapt(entry); ok {
			out = append(out, st)
		}
	}
	return out
}

func adapt(entry map[string]any) (Station, bool) {
	id := stringify(pick(entry, idKeys))
	if id == "" {
		return Station{}, false
	}
	lat, ok := series.ToFloat(pick(entry, latKeys))
	if !ok {
		return Station{}, false
	}
	lon, ok := series.ToFloat(pick(entry, lonKeys))
	if !ok {
		return Station{}, false
	}

	return Station{
		ID:   id,
		Name: displayName(entry, id),
		Lat:  lat,
		Lon:  lon,
		ICAO: stringify(pick(entry, icaoKeys)),
		Raw:  entry,
	}, true
}

// displayName falls back from the name fields to the id, then to "Unknown".
func displayName(entry map[string]any, id string) string {
	if name := stringify(pick(entry, nameKeys)); name != "" {
		return name
	}
	if id != "" {
		return id
	}
	return "Unknown"
}

// pick returns the first non-null value among keys.
func pick(entry map[string]any, keys []string) any {
	for _, k := range keys {
		if v := entry[k]; v != nil {
			return v
		}
	}
	return nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// Search returns the stations whose name, id or ICAO code contains query,
// ignoring case. An empty query matches everything. limit <= 0 means no limit.
func Search(catalog []Station, query string, limit int) []Station {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Station, 0, len(catalog))
	for _, st := range catalog {
		if limit > 0 && len(out) == limit {
			break
		}
		if q == "" || strings.Contains(st.searchText(), q) {
			out = append(out, st)
		}
	}
	return out
}

func (s Station) searchText() string {
	return strings.ToLower(s.Name + " " + s.ID + " " + s.ICAO)
}

// Find returns the first station with the given id.
func Find(catalog []Station, id string) (Station, bool) {
	for _, st := range catalog {
		if st.ID == id {
			return st, true
		}
	}
	return Station{}, false
}
