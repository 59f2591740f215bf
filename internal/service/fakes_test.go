package service

import (
	"context"
	"errors"

	"github.com/solucomercial/vola-solucoes/internal/model"
	"github.com/solucomercial/vola-solucoes/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory doubles for the repository layer. The fake transaction manager
// runs the closure directly; rollback behavior is asserted by checking that
// no fake recorded a write after a failing step.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeRequestRepo struct {
	requests map[uuid.UUID]*model.FlightRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uuid.UUID]*model.FlightRequest)}
}

func (f *fakeRequestRepo) Create(_ context.Context, req *model.FlightRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*model.FlightRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *req
	return &cp, nil
}

func (f *fakeRequestRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.FlightRequest, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRequestRepo) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.FlightRequest, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRequestRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]model.FlightRequest, int64, error) {
	var out []model.FlightRequest
	for _, req := range f.requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequestRepo) ListByStatus(_ context.Context, status string, _, _ int) ([]model.FlightRequest, int64, error) {
	var out []model.FlightRequest
	for _, req := range f.requests {
		if req.Status == status {
			out = append(out, *req)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequestRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	req, ok := f.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	req.Status = status
	return nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestRepo) CountByUser(_ context.Context, userID uuid.UUID) (repository.RequestStatusCounts, error) {
	var counts repository.RequestStatusCounts
	for _, req := range f.requests {
		if req.UserID != userID {
			continue
		}
		counts.Total++
		switch req.Status {
		case model.RequestPending:
			counts.Pending++
		case model.RequestApproved:
			counts.Approved++
		case model.RequestRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}

type fakeFlightRepo struct {
	flights map[uuid.UUID]*model.Flight
}

func newFakeFlightRepo() *fakeFlightRepo {
	return &fakeFlightRepo{flights: make(map[uuid.UUID]*model.Flight)}
}

func (f *fakeFlightRepo) Create(_ context.Context, flight *model.Flight) error {
	if flight.ID == uuid.Nil {
		flight.ID = uuid.New()
	}
	cp := *flight
	f.flights[flight.ID] = &cp
	return nil
}

func (f *fakeFlightRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Flight, error) {
	flight, ok := f.flights[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *flight
	return &cp, nil
}

func (f *fakeFlightRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.flights, id)
	return nil
}

type fakeApprovalRepo struct {
	byRequest map[uuid.UUID]*model.Approval
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{byRequest: make(map[uuid.UUID]*model.Approval)}
}

func (f *fakeApprovalRepo) Create(_ context.Context, approval *model.Approval) error {
	if _, exists := f.byRequest[approval.RequestID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if approval.ID == uuid.Nil {
		approval.ID = uuid.New()
	}
	cp := *approval
	f.byRequest[approval.RequestID] = &cp
	return nil
}

func (f *fakeApprovalRepo) FindByRequestID(_ context.Context, requestID uuid.UUID) (*model.Approval, error) {
	approval, ok := f.byRequest[requestID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *approval
	return &cp, nil
}

func (f *fakeApprovalRepo) ListByApprover(_ context.Context, approverID uuid.UUID, _, _ int) ([]model.Approval, int64, error) {
	var out []model.Approval
	for _, approval := range f.byRequest {
		if approval.ApproverID == approverID {
			out = append(out, *approval)
		}
	}
	return out, int64(len(out)), nil
}

type fakeNotificationRepo struct {
	notifications map[uuid.UUID]*model.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[uuid.UUID]*model.Notification)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	cp := *n
	f.notifications[n.ID] = &cp
	return nil
}

func (f *fakeNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]model.Notification, int64, error) {
	var out []model.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) (int64, error) {
	n, ok := f.notifications[id]
	if !ok || n.UserID != userID || n.Read {
		return 0, nil
	}
	n.Read = true
	return 1, nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
}

func newFakeProfileRepo(profiles ...*model.Profile) *fakeProfileRepo {
	f := &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
	for _, p := range profiles {
		f.profiles[p.ID.String()] = p
	}
	return f
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *model.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	f.profiles[profile.ID.String()] = profile
	return nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepo) List(_ context.Context, _, _ int) ([]model.Profile, int64, error) {
	var out []model.Profile
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *model.Profile) error {
	f.profiles[profile.ID.String()] = profile
	return nil
}

func (f *fakeProfileRepo) Delete(_ context.Context, id string) error {
	delete(f.profiles, id)
	return nil
}

func (f *fakeProfileRepo) CreateRefreshToken(_ context.Context, _ *model.RefreshToken) error {
	return nil
}

func (f *fakeProfileRepo) GetRefreshToken(_ context.Context, _ string) (*model.RefreshToken, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProfileRepo) DeleteRefreshToken(_ context.Context, _ string) error { return nil }

func (f *fakeProfileRepo) DeleteRefreshTokensForProfile(_ context.Context, _ string) error {
	return nil
}

type fakePusher struct {
	sentTo   []uuid.UUID
	payloads [][]byte
}

func (f *fakePusher) SendToUser(userID uuid.UUID, payload []byte) {
	f.sentTo = append(f.sentTo, userID)
	f.payloads = append(f.payloads, payload)
}
