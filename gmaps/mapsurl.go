package gmaps

import (
	"fmt"
	"net/url"
	"strings"
)

// RouteURL builds a shareable google maps link for a walking route between
// origin and destination, optionally through waypoints.
func RouteURL(origin, destination string, waypoints ...string) string {
	query := url.Values{}
	query.Set("api", "1")
	query.Set("origin", origin)
	query.Set("destination", destination)
	query.Set("travelmode", "walking")
	if len(waypoints) > 0 {
		query.Set("waypoints", strings.Join(waypoints, "|"))
	}
	return "https://www.google.com/maps/dir/?" + query.Encode()
}

// RouteURLFromPath builds a walking route link through coordinates. The
// first and last points become origin and destination; the rest become
// waypoints. A route needs at least two points.
func RouteURLFromPath(path []LatLng) (string, error) {
	if len(path) < 2 {
		return "", fmt.Errorf("gmaps: a route link needs at least 2 points, got %d", len(path))
	}

	waypoints := make([]string, 0, len(path)-2)
	for _, p := range path[1 : len(path)-1] {
		waypoints = append(waypoints, p.String())
	}
	return RouteURL(path[0].String(), path[len(path)-1].String(), waypoints...), nil
}

// MarkerURL builds a maps link that drops a pin on the coordinate.
func MarkerURL(point LatLng) string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%f%%2C%f", point.Lat, point.Lng)
}
