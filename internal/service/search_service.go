package service

import (
	"context"
	"encoding/json"

	"github.com/solucomercial/vola-solucoes/internal/apperr"
	"github.com/solucomercial/vola-solucoes/internal/search"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FlightResult is the flat, normalized shape the workflow engine consumes.
// Upstream best and other buckets are merged into one ordered sequence,
// best-ranked first.
type FlightResult struct {
	ID            string          `json:"id"`
	Airline       string          `json:"airline"`
	AirlineLogo   string          `json:"airline_logo,omitempty"`
	FlightNumber  string          `json:"flight_number"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	DepartureTime string          `json:"departure_time"`
	ArrivalTime   string          `json:"arrival_time"`
	Price         decimal.Decimal `json:"price"`
}

type FlightSearchParams struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
}

type HotelSearchParams struct {
	Location string
	CheckIn  string
	CheckOut string
	Adults   int
}

// SearchService is a pure translation layer over the upstream provider.
// No state, no side effects beyond the outbound call.
type SearchService interface {
	SearchFlights(ctx context.Context, params FlightSearchParams) ([]FlightResult, error)
	SearchHotels(ctx context.Context, params HotelSearchParams) ([]json.RawMessage, error)
}

type searchService struct {
	client *search.Client
}

func NewSearchService(client *search.Client) SearchService {
	return &searchService{client: client}
}

func (s *searchService) SearchFlights(ctx context.Context, params FlightSearchParams) ([]FlightResult, error) {
	payload, err := s.client.SearchFlights(ctx, search.FlightQuery{
		Origin:        params.Origin,
		Destination:   params.Destination,
		DepartureDate: params.DepartureDate,
		ReturnDate:    params.ReturnDate,
		Adults:        params.Adults,
	})
	if err != nil {
		return nil, wrapSearchError(err)
	}

	return NormalizeFlights(payload), nil
}

func (s *searchService) SearchHotels(ctx context.Context, params HotelSearchParams) ([]json.RawMessage, error) {
	payload, err := s.client.SearchHotels(ctx, search.HotelQuery{
		Location: params.Location,
		CheckIn:  params.CheckIn,
		CheckOut: params.CheckOut,
		Adults:   params.Adults,
	})
	if err != nil {
		return nil, wrapSearchError(err)
	}

	// Passthrough of the upstream property list; no reshaping
	props := payload.Properties
	if props == nil {
		props = []json.RawMessage{}
	}
	return props, nil
}

// NormalizeFlights merges the best and other buckets, preserving upstream
// order, and maps every option to the flat result shape.
func NormalizeFlights(payload *search.FlightsPayload) []FlightResult {
	raw := make([]search.FlightOption, 0, len(payload.BestFlights)+len(payload.OtherFlights))
	raw = append(raw, payload.BestFlights...)
	raw = append(raw, payload.OtherFlights...)

	results := make([]FlightResult, 0, len(raw))
	for _, opt := range raw {
		result := FlightResult{
			ID:           opt.BookingToken,
			Airline:      "Cia Aérea",
			FlightNumber: "N/A",
			Price:        parsePrice(opt.Price),
		}
		if result.ID == "" {
			// Upstream options without a booking token still need a stable
			// identifier for the selection round trip
			result.ID = uuid.NewString()
		}
		if len(opt.Flights) > 0 {
			leg := opt.Flights[0]
			if leg.Airline != "" {
				result.Airline = leg.Airline
			}
			if leg.FlightNumber != "" {
				result.FlightNumber = leg.FlightNumber
			}
			result.AirlineLogo = leg.AirlineLogo
			result.Origin = leg.DepartureAirport.ID
			result.Destination = leg.ArrivalAirport.ID
			result.DepartureTime = leg.DepartureAirport.Time
			result.ArrivalTime = leg.ArrivalAirport.Time
		}
		results = append(results, result)
	}

	return results
}

// parsePrice accepts only numeric upstream prices, everything else is zero
func parsePrice(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func wrapSearchError(err error) error {
	if err == search.ErrMissingAPIKey {
		return apperr.UpstreamError{Msg: "search provider is not configured", Err: err}
	}
	return apperr.UpstreamError{Msg: "search failed", Err: err}
}
