package gmaps

import (
	"context"
	"net/url"
)

// GeocodeResult is the resolved location for a free-form address.
type GeocodeResult struct {
	FormattedAddress string `json:"formatted_address"`
	Location         LatLng `json:"location"`
	PlaceID          string `json:"place_id"`
}

type geocodeEnvelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		PlaceID          string `json:"place_id"`
		Geometry         struct {
			Location LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address or landmark name to coordinates. The first
// candidate wins, which matches how people describe trailheads.
func (c *Client) Geocode(ctx context.Context, address string) (GeocodeResult, error) {
	query := url.Values{}
	query.Set("address", address)

	var envelope geocodeEnvelope
	if err := c.get(ctx, "geocode/json", query, &envelope); err != nil {
		return GeocodeResult{}, err
	}
	if err := checkStatus(envelope.Status, envelope.ErrorMessage); err != nil {
		return GeocodeResult{}, err
	}
	if len(envelope.Results) == 0 {
		return GeocodeResult{}, ErrNoResults
	}

	first := envelope.Results[0]
	return GeocodeResult{
		FormattedAddress: first.FormattedAddress,
		Location:         first.Geometry.Location,
		PlaceID:          first.PlaceID,
	}, nil
}
