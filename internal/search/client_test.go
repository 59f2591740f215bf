package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestSearchFlightsQueryParams(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"best_flights":[{"booking_token":"tok","price":450,"flights":[{"airline":"LATAM","flight_number":"LA3456","departure_airport":{"id":"GRU","time":"2026-10-01 08:00"},"arrival_airport":{"id":"GIG","time":"2026-10-01 09:05"}}]}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	payload, err := client.SearchFlights(context.Background(), FlightQuery{
		Origin:        "GRU",
		Destination:   "GIG",
		DepartureDate: "2026-10-01",
		Adults:        2,
	})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}

	checks := map[string]string{
		"engine":        "google_flights",
		"departure_id":  "GRU",
		"arrival_id":    "GIG",
		"outbound_date": "2026-10-01",
		"currency":      "BRL",
		"hl":            "pt",
		"gl":            "br",
		"type":          "2",
		"adults":        "2",
		"api_key":       "test-key",
	}
	for key, want := range checks {
		if got.Get(key) != want {
			t.Fatalf("param %s = %q, want %q", key, got.Get(key), want)
		}
	}

	if len(payload.BestFlights) != 1 || payload.BestFlights[0].BookingToken != "tok" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestSearchFlightsRoundTripType(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if _, err := client.SearchFlights(context.Background(), FlightQuery{
		Origin:        "GRU",
		Destination:   "GIG",
		DepartureDate: "2026-10-01",
		ReturnDate:    "2026-10-05",
	}); err != nil {
		t.Fatalf("search error: %v", err)
	}

	if got.Get("type") != "1" {
		t.Fatalf("type = %q, want 1 for round trip", got.Get("type"))
	}
	if got.Get("return_date") != "2026-10-05" {
		t.Fatalf("return_date = %q", got.Get("return_date"))
	}
}

func TestSearchHotelsQueryParams(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"properties":[{"name":"Hotel Gloria"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	payload, err := client.SearchHotels(context.Background(), HotelQuery{
		Location: "Rio de Janeiro",
		CheckIn:  "2026-10-01",
		CheckOut: "2026-10-05",
	})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}

	if got.Get("engine") != "google_hotels" {
		t.Fatalf("engine = %q", got.Get("engine"))
	}
	if got.Get("q") != "Rio de Janeiro" {
		t.Fatalf("q = %q", got.Get("q"))
	}
	if got.Get("gl") != "br" {
		t.Fatalf("gl = %q, want br", got.Get("gl"))
	}
	if len(payload.Properties) != 1 {
		t.Fatalf("properties = %d, want 1", len(payload.Properties))
	}
}

func TestSearchWithoutAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.SearchFlights(context.Background(), FlightQuery{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("flights error = %v, want ErrMissingAPIKey", err)
	}
	if _, err := client.SearchHotels(context.Background(), HotelQuery{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("hotels error = %v, want ErrMissingAPIKey", err)
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if _, err := client.SearchFlights(context.Background(), FlightQuery{Origin: "GRU"}); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
