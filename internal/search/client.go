package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://serpapi.com/search"

// ErrMissingAPIKey indicates the provider credential was never configured.
var ErrMissingAPIKey = errors.New("search provider API key is not configured")

// Client calls the SerpAPI search endpoint (google_flights / google_hotels
// engines). It is stateless; every method issues exactly one upstream call
// and nothing is retried.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type Config struct {
	APIKey  string
	BaseURL string // override for tests; defaults to the SerpAPI endpoint
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FlightQuery holds the kind-specific parameters of a flight search
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
}

// HotelQuery holds the kind-specific parameters of a hotel search
type HotelQuery struct {
	Location string
	CheckIn  string
	CheckOut string
	Adults   int
}

// AirportTime is the upstream airport code plus local timestamp pair
type AirportTime struct {
	ID   string `json:"id"`
	Time string `json:"time"`
}

// FlightLeg is a single segment of an upstream flight option
type FlightLeg struct {
	Airline          string      `json:"airline"`
	AirlineLogo      string      `json:"airline_logo"`
	FlightNumber     string      `json:"flight_number"`
	DepartureAirport AirportTime `json:"departure_airport"`
	ArrivalAirport   AirportTime `json:"arrival_airport"`
}

// FlightOption is one upstream result from either the best or other bucket.
// Price stays raw because the upstream field is occasionally a string or
// missing entirely.
type FlightOption struct {
	BookingToken string          `json:"booking_token"`
	Price        json.RawMessage `json:"price"`
	Flights      []FlightLeg     `json:"flights"`
}

// FlightsPayload is the subset of the google_flights response we consume
type FlightsPayload struct {
	BestFlights  []FlightOption `json:"best_flights"`
	OtherFlights []FlightOption `json:"other_flights"`
}

// HotelsPayload carries the property list through untouched
type HotelsPayload struct {
	Properties []json.RawMessage `json:"properties"`
}

// SearchFlights performs a one-way or round-trip flight search
func (c *Client) SearchFlights(ctx context.Context, q FlightQuery) (*FlightsPayload, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("engine", "google_flights")
	params.Set("api_key", c.apiKey)
	params.Set("departure_id", q.Origin)
	params.Set("arrival_id", q.Destination)
	params.Set("outbound_date", q.DepartureDate)
	params.Set("currency", "BRL")
	params.Set("hl", "pt")
	params.Set("gl", "br")
	if q.ReturnDate != "" {
		params.Set("return_date", q.ReturnDate)
		params.Set("type", "1") // round trip
	} else {
		params.Set("type", "2") // one way
	}
	if q.Adults > 0 {
		params.Set("adults", fmt.Sprintf("%d", q.Adults))
	}

	var payload FlightsPayload
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SearchHotels performs a hotel search for a location and stay window
func (c *Client) SearchHotels(ctx context.Context, q HotelQuery) (*HotelsPayload, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("engine", "google_hotels")
	params.Set("api_key", c.apiKey)
	params.Set("q", q.Location)
	params.Set("check_in_date", q.CheckIn)
	params.Set("check_out_date", q.CheckOut)
	params.Set("currency", "BRL")
	params.Set("hl", "pt")
	params.Set("gl", "br")
	if q.Adults > 0 {
		params.Set("adults", fmt.Sprintf("%d", q.Adults))
	}

	var payload HotelsPayload
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("search provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode search response: %w", err)
	}
	return nil
}
