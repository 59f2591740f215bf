package service

import (
	"context"
	"errors"
	"testing"

	"github.com/solucomercial/vola-solucoes/internal/apperr"
	"github.com/solucomercial/vola-solucoes/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestComputeTotalPrice(t *testing.T) {
	cases := []struct {
		name       string
		outbound   string
		returnLeg  string
		passengers int
		hotelRate  string
		want       string
	}{
		{"one way two passengers", "450", "0", 2, "0", "900"},
		{"round trip with hotel", "300", "280", 1, "200", "780"},
		{"hotel rate not multiplied", "100", "100", 3, "50", "650"},
		{"single passenger one way", "1234.56", "0", 1, "0", "1234.56"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outbound, _ := decimal.NewFromString(tc.outbound)
			returnLeg, _ := decimal.NewFromString(tc.returnLeg)
			hotelRate, _ := decimal.NewFromString(tc.hotelRate)
			want, _ := decimal.NewFromString(tc.want)

			got := ComputeTotalPrice(outbound, returnLeg, tc.passengers, hotelRate)
			if !got.Equal(want) {
				t.Fatalf("total = %s, want %s", got, want)
			}
		})
	}
}

func validSubmission() SubmitRequestDTO {
	return SubmitRequestDTO{
		Origin:        "GRU",
		Destination:   "GIG",
		DepartureDate: "2026-10-01",
		Passengers:    2,
		Reason:        "Client onboarding",
		Outbound: &ItineraryDTO{
			ID:            "tok-1",
			Airline:       "LATAM",
			FlightNumber:  "LA3456",
			Origin:        "GRU",
			Destination:   "GIG",
			DepartureTime: "2026-10-01 08:00",
			ArrivalTime:   "2026-10-01 09:05",
			Price:         decimal.NewFromInt(450),
		},
	}
}

func TestValidateSubmissionOrder(t *testing.T) {
	roundTrip := validSubmission()
	roundTrip.IsRoundTrip = true

	withHotel := validSubmission()
	withHotel.IncludeHotel = true

	noReason := validSubmission()
	noReason.Reason = "   "

	noPassengers := validSubmission()
	noPassengers.Passengers = 0

	cases := []struct {
		name      string
		req       SubmitRequestDTO
		wantField string
	}{
		{"missing outbound", SubmitRequestDTO{}, "outbound"},
		{"round trip without return", roundTrip, "return_flight"},
		{"hotel included without hotel", withHotel, "hotel"},
		{"blank reason", noReason, "reason"},
		{"zero passengers", noPassengers, "passengers_count"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSubmission(tc.req)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			var vErr apperr.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error type = %T, want ValidationError", err)
			}
			if vErr.Field != tc.wantField {
				t.Fatalf("failing field = %q, want %q", vErr.Field, tc.wantField)
			}
		})
	}

	if err := ValidateSubmission(validSubmission()); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}
}

func TestValidateSubmissionNegativePrices(t *testing.T) {
	negativeOutbound := validSubmission()
	negativeOutbound.Outbound.Price = decimal.NewFromInt(-450)

	negativeReturn := validSubmission()
	negativeReturn.IsRoundTrip = true
	negativeReturn.Return = &ItineraryDTO{Price: decimal.NewFromInt(-280)}

	negativeHotel := validSubmission()
	negativeHotel.IncludeHotel = true
	negativeHotel.Hotel = &HotelPickDTO{Name: "Hotel Gloria", NightlyRate: decimal.NewFromInt(-200)}

	cases := []struct {
		name      string
		req       SubmitRequestDTO
		wantField string
	}{
		{"negative outbound price", negativeOutbound, "outbound"},
		{"negative return price", negativeReturn, "return_flight"},
		{"negative nightly rate", negativeHotel, "hotel"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSubmission(tc.req)
			var vErr apperr.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if vErr.Field != tc.wantField {
				t.Fatalf("failing field = %q, want %q", vErr.Field, tc.wantField)
			}
		})
	}

	// Free legs are fine; only negatives are rejected
	zeroPrice := validSubmission()
	zeroPrice.Outbound.Price = decimal.Zero
	if err := ValidateSubmission(zeroPrice); err != nil {
		t.Fatalf("zero price rejected: %v", err)
	}
}

func TestSubmitNegativePricePersistsNothing(t *testing.T) {
	requests := newFakeRequestRepo()
	flights := newFakeFlightRepo()
	audits := &fakeAuditRepo{}
	svc := NewRequestService(requests, flights, audits, fakeTxManager{})

	req := validSubmission()
	req.Outbound.Price = decimal.NewFromInt(-450)

	_, err := svc.Submit(context.Background(), uuid.NewString(), req)
	if !apperr.IsValidation(err) {
		t.Fatalf("error = %v, want validation error", err)
	}
	if len(requests.requests) != 0 || len(flights.flights) != 0 || len(audits.entries) != 0 {
		t.Fatal("negative-price submission must not persist anything")
	}
}

func TestSubmitPersistsSnapshotAndRequest(t *testing.T) {
	requests := newFakeRequestRepo()
	flights := newFakeFlightRepo()
	audits := &fakeAuditRepo{}
	svc := NewRequestService(requests, flights, audits, fakeTxManager{})

	owner := uuid.New()
	req := validSubmission()
	req.IsRoundTrip = true
	req.ReturnDate = "2026-10-05"
	req.Return = &ItineraryDTO{
		Airline:      "GOL",
		FlightNumber: "G31201",
		Price:        decimal.NewFromInt(280),
	}
	req.IncludeHotel = true
	req.Hotel = &HotelPickDTO{Name: "Hotel Gloria", NightlyRate: decimal.NewFromInt(200)}
	req.Passengers = 1
	req.Outbound.Price = decimal.NewFromInt(300)

	resp, err := svc.Submit(context.Background(), owner.String(), req)
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}

	if resp.Status != model.RequestPending {
		t.Fatalf("status = %q, want pending", resp.Status)
	}
	if want := decimal.NewFromInt(780); !resp.TotalPrice.Equal(want) {
		t.Fatalf("total = %s, want %s", resp.TotalPrice, want)
	}
	if len(requests.requests) != 1 {
		t.Fatalf("persisted requests = %d, want 1", len(requests.requests))
	}
	if len(flights.flights) != 1 {
		t.Fatalf("persisted snapshots = %d, want 1", len(flights.flights))
	}
	if len(audits.entries) != 1 || audits.entries[0].Action != model.ActionSubmitRequest {
		t.Fatalf("expected one submit audit entry, got %+v", audits.entries)
	}

	for _, stored := range requests.requests {
		if stored.ReturnFlight == nil || stored.ReturnFlight.FlightNumber != "G31201" {
			t.Fatalf("return flight snapshot not stored: %+v", stored.ReturnFlight)
		}
		if stored.HotelInfo == nil || stored.HotelInfo.Name != "Hotel Gloria" {
			t.Fatalf("hotel snapshot not stored: %+v", stored.HotelInfo)
		}
	}
}

func TestSubmitInvalidPersistsNothing(t *testing.T) {
	requests := newFakeRequestRepo()
	flights := newFakeFlightRepo()
	audits := &fakeAuditRepo{}
	svc := NewRequestService(requests, flights, audits, fakeTxManager{})

	req := validSubmission()
	req.IsRoundTrip = true // no return itinerary selected

	_, err := svc.Submit(context.Background(), uuid.NewString(), req)
	if !apperr.IsValidation(err) {
		t.Fatalf("error = %v, want validation error", err)
	}
	if len(requests.requests) != 0 || len(flights.flights) != 0 || len(audits.entries) != 0 {
		t.Fatal("invalid submission must not persist anything")
	}
}

func TestCancelOwnerAndStateRules(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	setup := func(status string) (*fakeRequestRepo, *fakeFlightRepo, *fakeAuditRepo, RequestService, uuid.UUID) {
		requests := newFakeRequestRepo()
		flights := newFakeFlightRepo()
		audits := &fakeAuditRepo{}

		snapshot := model.Flight{Airline: "LATAM", Origin: "GRU", Destination: "GIG", Price: decimal.NewFromInt(450)}
		if err := flights.Create(context.Background(), &snapshot); err != nil {
			t.Fatalf("seed snapshot: %v", err)
		}
		request := model.FlightRequest{
			UserID:   owner,
			FlightID: snapshot.ID,
			Origin:   "GRU", Destination: "GIG",
			Status: status,
		}
		if err := requests.Create(context.Background(), &request); err != nil {
			t.Fatalf("seed request: %v", err)
		}
		return requests, flights, audits, NewRequestService(requests, flights, audits, fakeTxManager{}), request.ID
	}

	t.Run("stranger cannot cancel", func(t *testing.T) {
		requests, _, _, svc, id := setup(model.RequestPending)
		err := svc.Cancel(context.Background(), id.String(), stranger.String())
		if !apperr.IsAuthorization(err) {
			t.Fatalf("error = %v, want authorization error", err)
		}
		if len(requests.requests) != 1 {
			t.Fatal("request must survive a denied cancel")
		}
	})

	t.Run("decided request cannot be cancelled", func(t *testing.T) {
		requests, _, _, svc, id := setup(model.RequestApproved)
		err := svc.Cancel(context.Background(), id.String(), owner.String())
		if !apperr.IsAuthorization(err) {
			t.Fatalf("error = %v, want authorization error", err)
		}
		if len(requests.requests) != 1 {
			t.Fatal("decided request must survive a cancel attempt")
		}
	})

	t.Run("owner cancels pending", func(t *testing.T) {
		requests, flights, audits, svc, id := setup(model.RequestPending)
		if err := svc.Cancel(context.Background(), id.String(), owner.String()); err != nil {
			t.Fatalf("cancel error: %v", err)
		}
		if len(requests.requests) != 0 {
			t.Fatal("request not deleted")
		}
		if len(flights.flights) != 0 {
			t.Fatal("orphaned snapshot not deleted")
		}
		if len(audits.entries) != 1 || audits.entries[0].Action != model.ActionCancelRequest {
			t.Fatalf("expected one cancel audit entry, got %+v", audits.entries)
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		_, _, _, svc, _ := setup(model.RequestPending)
		err := svc.Cancel(context.Background(), uuid.NewString(), owner.String())
		if !apperr.IsNotFound(err) {
			t.Fatalf("error = %v, want not found", err)
		}
	})
}

func TestDashboardCounts(t *testing.T) {
	requests := newFakeRequestRepo()
	flights := newFakeFlightRepo()
	audits := &fakeAuditRepo{}
	svc := NewRequestService(requests, flights, audits, fakeTxManager{})

	owner := uuid.New()
	for _, status := range []string{model.RequestPending, model.RequestApproved, model.RequestApproved, model.RequestRejected} {
		if err := requests.Create(context.Background(), &model.FlightRequest{UserID: owner, Status: status}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	dash, err := svc.Dashboard(context.Background(), owner.String(), 5)
	if err != nil {
		t.Fatalf("dashboard error: %v", err)
	}
	if dash.Counts.Total != 4 || dash.Counts.Pending != 1 || dash.Counts.Approved != 2 || dash.Counts.Rejected != 1 {
		t.Fatalf("counts = %+v", dash.Counts)
	}
}
