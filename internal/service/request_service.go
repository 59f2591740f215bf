package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/solucomercial/vola-solucoes/internal/apperr"
	"github.com/solucomercial/vola-solucoes/internal/model"
	"github.com/solucomercial/vola-solucoes/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

// ItineraryDTO is a directional flight option chosen from search results
type ItineraryDTO struct {
	ID            string          `json:"id"`
	Airline       string          `json:"airline"`
	AirlineLogo   string          `json:"airline_logo"`
	FlightNumber  string          `json:"flight_number"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	DepartureTime string          `json:"departure_time"`
	ArrivalTime   string          `json:"arrival_time"`
	Price         decimal.Decimal `json:"price"`
}

// HotelPickDTO is the hotel option chosen from search results
type HotelPickDTO struct {
	Name        string          `json:"name" binding:"required"`
	Link        string          `json:"link"`
	NightlyRate decimal.Decimal `json:"nightly_rate"`
}

type SubmitRequestDTO struct {
	Origin        string        `json:"origin" binding:"required"`
	Destination   string        `json:"destination" binding:"required"`
	DepartureDate string        `json:"departure_date" binding:"required"`
	ReturnDate    string        `json:"return_date"`
	IsRoundTrip   bool          `json:"is_round_trip"`
	IncludeHotel  bool          `json:"include_hotel"`
	Passengers    int           `json:"passengers_count"`
	Outbound      *ItineraryDTO `json:"outbound"`
	Return        *ItineraryDTO `json:"return_flight"`
	Hotel         *HotelPickDTO `json:"hotel"`
	Reason        string        `json:"reason"`
}

type RequestResponse struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"user_id"`
	UserName        string                  `json:"user_name,omitempty"`
	UserEmail       string                  `json:"user_email,omitempty"`
	UserDepartment  string                  `json:"user_department,omitempty"`
	Flight          *model.Flight           `json:"flight,omitempty"`
	Origin          string                  `json:"origin"`
	Destination     string                  `json:"destination"`
	DepartureDate   string                  `json:"departure_date"`
	ReturnDate      *string                 `json:"return_date"`
	IsRoundTrip     bool                    `json:"is_round_trip"`
	IncludeHotel    bool                    `json:"include_hotel"`
	PassengersCount int                     `json:"passengers_count"`
	HotelInfo       *model.HotelInfo        `json:"hotel_info"`
	ReturnFlight    *model.ReturnFlightInfo `json:"return_flight_info"`
	Reason          string                  `json:"reason"`
	TotalPrice      decimal.Decimal         `json:"total_price"`
	Status          string                  `json:"status"`
	Approval        *ApprovalSummary        `json:"approval,omitempty"`
	CreatedAt       string                  `json:"created_at"`
}

type ApprovalSummary struct {
	ApproverName string `json:"approver_name,omitempty"`
	Status       string `json:"status"`
	Comments     string `json:"comments"`
	CreatedAt    string `json:"created_at"`
}

type DashboardResponse struct {
	Counts repository.RequestStatusCounts `json:"counts"`
	Recent []RequestResponse              `json:"recent"`
}

// --- Interface ---

type RequestService interface {
	Submit(ctx context.Context, userID string, req SubmitRequestDTO) (RequestResponse, error)
	ListMine(ctx context.Context, userID string, page, limit int) ([]RequestResponse, int64, error)
	Cancel(ctx context.Context, requestID, requesterID string) error
	Dashboard(ctx context.Context, userID string, recentLimit int) (DashboardResponse, error)
}

type requestService struct {
	requests repository.RequestRepository
	flights  repository.FlightRepository
	audits   repository.AuditRepository
	tx       repository.TransactionManager
}

func NewRequestService(
	requests repository.RequestRepository,
	flights repository.FlightRepository,
	audits repository.AuditRepository,
	tx repository.TransactionManager,
) RequestService {
	return &requestService{requests: requests, flights: flights, audits: audits, tx: tx}
}

// --- Pricing ---

// ComputeTotalPrice aggregates the request price: flight legs scale with
// passenger count, the hotel nightly rate is per stay and does not.
func ComputeTotalPrice(outbound, returnPrice decimal.Decimal, passengers int, hotelRate decimal.Decimal) decimal.Decimal {
	flights := outbound.Add(returnPrice).Mul(decimal.NewFromInt(int64(passengers)))
	return flights.Add(hotelRate)
}

// ValidateSubmission applies the submission checks in order, first failing
// check wins. Nothing may be persisted when an error is returned.
func ValidateSubmission(req SubmitRequestDTO) error {
	if req.Outbound == nil {
		return apperr.ValidationError{Field: "outbound", Msg: "outbound flight must be selected"}
	}
	if req.IsRoundTrip && req.Return == nil {
		return apperr.ValidationError{Field: "return_flight", Msg: "return flight must be selected for a round trip"}
	}
	if req.IncludeHotel && req.Hotel == nil {
		return apperr.ValidationError{Field: "hotel", Msg: "a hotel must be selected when hotel is included"}
	}
	if strings.TrimSpace(req.Reason) == "" {
		return apperr.ValidationError{Field: "reason", Msg: "travel reason is required"}
	}
	if req.Passengers < 1 {
		return apperr.ValidationError{Field: "passengers_count", Msg: "at least one passenger is required"}
	}
	// Prices come from the client's selection payload, so a crafted request
	// could otherwise drive total_price below zero
	if req.Outbound.Price.IsNegative() {
		return apperr.ValidationError{Field: "outbound", Msg: "flight price cannot be negative"}
	}
	if req.IsRoundTrip && req.Return.Price.IsNegative() {
		return apperr.ValidationError{Field: "return_flight", Msg: "flight price cannot be negative"}
	}
	if req.IncludeHotel && req.Hotel.NightlyRate.IsNegative() {
		return apperr.ValidationError{Field: "hotel", Msg: "nightly rate cannot be negative"}
	}
	return nil
}

// --- Implementation ---

func (s *requestService) Submit(ctx context.Context, userID string, req SubmitRequestDTO) (RequestResponse, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	if err := ValidateSubmission(req); err != nil {
		return RequestResponse{}, err
	}

	returnPrice := decimal.Zero
	var returnInfo *model.ReturnFlightInfo
	if req.IsRoundTrip {
		returnPrice = req.Return.Price
		returnInfo = &model.ReturnFlightInfo{
			Airline:      req.Return.Airline,
			FlightNumber: req.Return.FlightNumber,
			Price:        req.Return.Price,
		}
	}

	hotelRate := decimal.Zero
	var hotelInfo *model.HotelInfo
	if req.IncludeHotel {
		hotelRate = req.Hotel.NightlyRate
		hotelInfo = &model.HotelInfo{
			Name:        req.Hotel.Name,
			Link:        req.Hotel.Link,
			NightlyRate: req.Hotel.NightlyRate,
		}
	}

	total := ComputeTotalPrice(req.Outbound.Price, returnPrice, req.Passengers, hotelRate)

	var returnDate *string
	if req.IsRoundTrip && req.ReturnDate != "" {
		rd := req.ReturnDate
		returnDate = &rd
	}

	snapshot := model.Flight{
		Airline:       req.Outbound.Airline,
		AirlineLogo:   req.Outbound.AirlineLogo,
		FlightNumber:  req.Outbound.FlightNumber,
		Origin:        req.Outbound.Origin,
		Destination:   req.Outbound.Destination,
		DepartureTime: req.Outbound.DepartureTime,
		ArrivalTime:   req.Outbound.ArrivalTime,
		Price:         req.Outbound.Price,
	}

	request := model.FlightRequest{
		UserID:          ownerID,
		Origin:          req.Origin,
		Destination:     req.Destination,
		DepartureDate:   req.DepartureDate,
		ReturnDate:      returnDate,
		IsRoundTrip:     req.IsRoundTrip,
		IncludeHotel:    req.IncludeHotel,
		PassengersCount: req.Passengers,
		HotelInfo:       hotelInfo,
		ReturnFlight:    returnInfo,
		Reason:          strings.TrimSpace(req.Reason),
		TotalPrice:      total,
		Status:          model.RequestPending,
	}

	// Snapshot and request land together or not at all
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.flights.Create(txCtx, &snapshot); createErr != nil {
			return fmt.Errorf("failed to save flight snapshot: %w", createErr)
		}

		request.FlightID = snapshot.ID
		if createErr := s.requests.Create(txCtx, &request); createErr != nil {
			return fmt.Errorf("failed to save flight request: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"origin":      request.Origin,
			"destination": request.Destination,
			"total_price": total.StringFixed(2),
			"passengers":  request.PassengersCount,
		})
		audit := model.AuditLog{
			UserID:     &ownerID,
			Action:     model.ActionSubmitRequest,
			EntityID:   request.ID.String(),
			EntityName: request.Origin + " → " + request.Destination,
			Details:    string(details),
		}
		if auditErr := s.audits.Log(txCtx, &audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return RequestResponse{}, err
	}

	request.Flight = &snapshot
	return toRequestResponse(request), nil
}

func (s *requestService) ListMine(ctx context.Context, userID string, page, limit int) ([]RequestResponse, int64, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}

	requests, total, err := s.requests.ListByUser(ctx, ownerID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch requests: %w", err)
	}

	result := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, toRequestResponse(r))
	}
	return result, total, nil
}

func (s *requestService) Cancel(ctx context.Context, requestID, requesterID string) error {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return apperr.NotFoundError{Resource: "request", Err: err}
	}
	owner, err := uuid.Parse(requesterID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requests.FindByIDForUpdate(txCtx, id)
		if findErr != nil {
			return apperr.NotFoundError{Resource: "request", Err: findErr}
		}

		if req.UserID != owner {
			return apperr.AuthorizationError{Msg: "only the request owner may cancel it"}
		}
		if req.Status != model.RequestPending {
			return apperr.AuthorizationError{Msg: "only pending requests can be cancelled"}
		}

		if delErr := s.requests.Delete(txCtx, req.ID); delErr != nil {
			return fmt.Errorf("failed to delete request: %w", delErr)
		}
		// Remove the now-orphaned snapshot as well
		if delErr := s.flights.Delete(txCtx, req.FlightID); delErr != nil {
			return fmt.Errorf("failed to delete flight snapshot: %w", delErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"origin":      req.Origin,
			"destination": req.Destination,
		})
		audit := model.AuditLog{
			UserID:     &owner,
			Action:     model.ActionCancelRequest,
			EntityID:   req.ID.String(),
			EntityName: req.Origin + " → " + req.Destination,
			Details:    string(details),
		}
		if auditErr := s.audits.Log(txCtx, &audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
}

func (s *requestService) Dashboard(ctx context.Context, userID string, recentLimit int) (DashboardResponse, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	counts, err := s.requests.CountByUser(ctx, ownerID)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to count requests: %w", err)
	}

	if recentLimit <= 0 {
		recentLimit = 5
	}
	recent, _, err := s.requests.ListByUser(ctx, ownerID, 1, recentLimit)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to fetch recent requests: %w", err)
	}

	resp := DashboardResponse{Counts: counts, Recent: make([]RequestResponse, 0, len(recent))}
	for _, r := range recent {
		resp.Recent = append(resp.Recent, toRequestResponse(r))
	}
	return resp, nil
}

// --- Helpers ---

func toRequestResponse(r model.FlightRequest) RequestResponse {
	resp := RequestResponse{
		ID:              r.ID.String(),
		UserID:          r.UserID.String(),
		Flight:          r.Flight,
		Origin:          r.Origin,
		Destination:     r.Destination,
		DepartureDate:   r.DepartureDate,
		ReturnDate:      r.ReturnDate,
		IsRoundTrip:     r.IsRoundTrip,
		IncludeHotel:    r.IncludeHotel,
		PassengersCount: r.PassengersCount,
		HotelInfo:       r.HotelInfo,
		ReturnFlight:    r.ReturnFlight,
		Reason:          r.Reason,
		TotalPrice:      r.TotalPrice,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}

	if r.User != nil {
		resp.UserName = r.User.FullName
		resp.UserEmail = r.User.Email
		resp.UserDepartment = r.User.Department
	}
	if r.Approval != nil {
		summary := ApprovalSummary{
			Status:    r.Approval.Status,
			Comments:  r.Approval.Comments,
			CreatedAt: r.Approval.CreatedAt.Format(time.RFC3339),
		}
		if r.Approval.Approver != nil {
			summary.ApproverName = r.Approval.Approver.FullName
		}
		resp.Approval = &summary
	}

	return resp
}
