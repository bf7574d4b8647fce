package bookingsvc

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	bookingRepo "playpark/database/repository/booking"
	sessionRepo "playpark/database/repository/session"
	"playpark/models"

	"go.uber.org/zap"
)

// memSessionRepo reproduces the storage layer's conditional-update semantics
// under a mutex, so the race tests below exercise the same serialization the
// real repository gets from single-document updates.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newMemSessionRepo(sessions ...*models.Session) *memSessionRepo {
	repo := &memSessionRepo{sessions: make(map[string]*models.Session)}
	for _, s := range sessions {
		s.AvailableSeats = s.TotalSeats - s.BookedSeats
		repo.sessions[s.ID] = s
	}
	return repo
}

func (r *memSessionRepo) Insert(_ context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.AvailableSeats = s.TotalSeats - s.BookedSeats
	r.sessions[s.ID] = s
	return nil
}

func (r *memSessionRepo) InsertMany(_ context.Context, sessions []models.Session) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range sessions {
		s := sessions[i]
		s.AvailableSeats = s.TotalSeats - s.BookedSeats
		r.sessions[s.ID] = &s
	}
	return len(sessions), nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *memSessionRepo) ListForAvailability(_ context.Context, _ string, _ models.Activity, _, _ string) ([]models.Session, error) {
	return nil, nil
}

func (r *memSessionRepo) ListByBranchDate(_ context.Context, _, _ string) ([]models.Session, error) {
	return nil, nil
}

func (r *memSessionRepo) ListAll(_ context.Context) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Session
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memSessionRepo) HasSessionForDate(_ context.Context, _, _ string, _ models.Activity) (bool, error) {
	return false, nil
}

func (r *memSessionRepo) UpdateMetadata(_ context.Context, _ string, _ models.SessionMetadataUpdate) error {
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, _ string) error { return nil }

func (r *memSessionRepo) DeleteByBranchDate(_ context.Context, _, _ string) (int64, error) {
	return 0, nil
}

func (r *memSessionRepo) ReserveSeats(_ context.Context, id string, seats int) (*models.SeatCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	if s.AvailableSeats < seats {
		return nil, sessionRepo.ErrCapacityExceeded
	}
	s.BookedSeats += seats
	s.AvailableSeats = s.TotalSeats - s.BookedSeats
	return &models.SeatCounts{TotalSeats: s.TotalSeats, BookedSeats: s.BookedSeats, AvailableSeats: s.AvailableSeats}, nil
}

func (r *memSessionRepo) ReleaseSeats(_ context.Context, id string, seats int) (*models.SeatCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	s.BookedSeats -= seats
	if s.BookedSeats < 0 {
		s.BookedSeats = 0
	}
	s.AvailableSeats = s.TotalSeats - s.BookedSeats
	return &models.SeatCounts{TotalSeats: s.TotalSeats, BookedSeats: s.BookedSeats, AvailableSeats: s.AvailableSeats}, nil
}

func (r *memSessionRepo) SetCapacity(_ context.Context, id string, newTotal int) (*models.SeatCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	if s.BookedSeats > newTotal {
		return nil, sessionRepo.ErrInvalidCapacity
	}
	s.TotalSeats = newTotal
	s.AvailableSeats = s.TotalSeats - s.BookedSeats
	return &models.SeatCounts{TotalSeats: s.TotalSeats, BookedSeats: s.BookedSeats, AvailableSeats: s.AvailableSeats}, nil
}

func (r *memSessionRepo) CorrectBookedSeats(_ context.Context, id string, booked int) (*models.SeatCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	if booked < 0 {
		booked = 0
	}
	s.BookedSeats = booked
	s.AvailableSeats = s.TotalSeats - s.BookedSeats
	return &models.SeatCounts{TotalSeats: s.TotalSeats, BookedSeats: s.BookedSeats, AvailableSeats: s.AvailableSeats}, nil
}

// memBookingRepo mirrors the booking store's conditional cancel.
type memBookingRepo struct {
	mu        sync.Mutex
	bookings  map[string]*models.Booking
	insertErr error
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *memBookingRepo) Insert(_ context.Context, b *models.Booking) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *b
	r.bookings[b.ID] = &copied
	return nil
}

func (r *memBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, id)
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memBookingRepo) GetByToken(_ context.Context, token string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.QRToken == token {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingRepo.ErrTokenNotFound
}

func (r *memBookingRepo) ListBySession(_ context.Context, sessionID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.SessionID == sessionID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) MarkVerified(_ context.Context, token, verifiedBy string, at time.Time) (*models.Booking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.QRToken != token {
			continue
		}
		if b.IsVerified {
			copied := *b
			return &copied, true, nil
		}
		b.IsVerified = true
		ts := at
		b.VerifiedAt = &ts
		b.VerifiedBy = verifiedBy
		copied := *b
		return &copied, false, nil
	}
	return nil, false, bookingRepo.ErrTokenNotFound
}

func (r *memBookingRepo) Cancel(_ context.Context, id, cancelledBy string, at time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if b.Status != models.BookingActive {
		return nil, bookingRepo.ErrAlreadyCancelled
	}
	b.Status = models.BookingCancelled
	ts := at
	b.CancelledAt = &ts
	b.CancelledBy = cancelledBy
	copied := *b
	return &copied, nil
}

func (r *memBookingRepo) SumActiveSeats(_ context.Context, sessionID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, b := range r.bookings {
		if b.SessionID == sessionID && b.Status != models.BookingCancelled {
			sum += b.Seats
		}
	}
	return sum, nil
}

func (r *memBookingRepo) CountActiveForBranchDate(_ context.Context, branchID, date string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, b := range r.bookings {
		if b.BranchID == branchID && b.Date == date && b.Status != models.BookingCancelled && b.SessionID != "" {
			count++
		}
	}
	return count, nil
}

func newTestService(sessions *memSessionRepo, bookings *memBookingRepo) *DefaultBookingService {
	return &DefaultBookingService{
		Sessions: sessions,
		Bookings: bookings,
		Logger:   zap.NewNop(),
	}
}

func testSession(id string, total, booked int) *models.Session {
	return &models.Session{
		ID:          id,
		BranchID:    "branch-1",
		Date:        "2026-09-12",
		Time:        "14:00",
		Activity:    models.ActivitySlime,
		TotalSeats:  total,
		BookedSeats: booked,
		IsActive:    true,
	}
}

func testActor() models.Actor {
	return models.Actor{ID: "cust-1", Name: "Dana", Role: models.RoleCustomer}
}

func createInput(sessionID string, seats int) CreateInput {
	return CreateInput{
		SessionID: sessionID,
		Customer:  models.CustomerSnapshot{ID: "cust-1", Name: "Dana", Email: "dana@example.com"},
		Seats:     seats,
		UnitPrice: 25,
		Payment:   models.PaymentConfirmation{Status: models.PaymentCompleted, TransactionRef: "tx-1"},
	}
}

func TestCreateBookingFillsSessionToBoundary(t *testing.T) {
	sessions := newMemSessionRepo(testSession("sess-1", 15, 0))
	bookings := newMemBookingRepo()
	svc := newTestService(sessions, bookings)
	ctx := context.Background()

	if _, err := svc.Create(ctx, testActor(), createInput("sess-1", 1)); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	got, _ := sessions.GetByID(ctx, "sess-1")
	if got.BookedSeats != 1 || got.AvailableSeats != 14 {
		t.Fatalf("after 1 seat: booked=%d available=%d", got.BookedSeats, got.AvailableSeats)
	}

	// Booking exactly the remaining seats must succeed.
	if _, err := svc.Create(ctx, testActor(), createInput("sess-1", 14)); err != nil {
		t.Fatalf("boundary booking failed: %v", err)
	}
	got, _ = sessions.GetByID(ctx, "sess-1")
	if got.BookedSeats != 15 || got.AvailableSeats != 0 {
		t.Fatalf("after boundary: booked=%d available=%d", got.BookedSeats, got.AvailableSeats)
	}

	_, err := svc.Create(ctx, testActor(), createInput("sess-1", 1))
	if !errors.Is(err, sessionRepo.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	got, _ = sessions.GetByID(ctx, "sess-1")
	if got.BookedSeats != 15 {
		t.Fatalf("failed booking changed state: booked=%d", got.BookedSeats)
	}
}

func TestCreateBookingOverBoundaryFails(t *testing.T) {
	sessions := newMemSessionRepo(testSession("sess-1", 5, 2))
	svc := newTestService(sessions, newMemBookingRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, testActor(), createInput("sess-1", 4)); !errors.Is(err, sessionRepo.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded for available+1, got %v", err)
	}
	if _, err := svc.Create(ctx, testActor(), createInput("sess-1", 3)); err != nil {
		t.Fatalf("booking exactly the remaining seats failed: %v", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	sessions := newMemSessionRepo(testSession("sess-1", 10, 0))
	inactive := testSession("sess-2", 10, 0)
	inactive.IsActive = false
	_ = sessions.Insert(context.Background(), inactive)

	svc := newTestService(sessions, newMemBookingRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, testActor(), createInput("sess-1", 0)); !errors.Is(err, ErrInvalidSeats) {
		t.Fatalf("expected ErrInvalidSeats, got %v", err)
	}
	if _, err := svc.Create(ctx, testActor(), createInput("missing", 1)); !errors.Is(err, sessionRepo.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, testActor(), createInput("sess-2", 1)); !errors.Is(err, ErrSessionInactive) {
		t.Fatalf("expected ErrSessionInactive, got %v", err)
	}
}

func TestCreateBookingPopulatesRecord(t *testing.T) {
	sessions := newMemSessionRepo(testSession("sess-1", 10, 0))
	bookings := newMemBookingRepo()
	svc := newTestService(sessions, bookings)

	booking, err := svc.Create(context.Background(), testActor(), createInput("sess-1", 3))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if booking.TotalAmount != 75 {
		t.Errorf("totalAmount = %v, want 75", booking.TotalAmount)
	}
	if !strings.HasPrefix(booking.QRToken, "QR-") {
		t.Errorf("qrToken %q missing prefix", booking.QRToken)
	}
	if booking.Status != models.BookingActive {
		t.Errorf("status = %q, want active", booking.Status)
	}
	if booking.PaymentStatus != models.PaymentCompleted {
		t.Errorf("paymentStatus = %q, want completed", booking.PaymentStatus)
	}
	if booking.Date != "2026-09-12" || booking.Time != "14:00" || booking.Activity != models.ActivitySlime {
		t.Errorf("session snapshot not copied: %+v", booking)
	}
}

func TestCreateBookingDefaultsPaymentToPending(t *testing.T) {
	sessions := newMemSessionRepo(testSession("sess-1", 10, 0))
	svc := newTestService(sessions, newMemBookingRepo())

	input := createInput("sess-1", 1)
	input.Payment = models.PaymentConfirmation{}
	booking, err := svc.Create(context.Background(), testActor(), input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if booking.PaymentStatus != models.PaymentPending {
		t.Errorf("paymentStatus = %q, want pending", booking.PaymentStatus)
	}
}

func TestCreateBookingRollsBackReservationOnInsertFailure(t *testing.T) {
	sessions := newMemSessionRepo(testSession("sess-1", 10, 0))
	bookings := newMemBookingRepo()
	bookings.insertErr = errors.New("write failed")
	svc := newTestService(sessions, bookings)

	if _, err := svc.Create(context.Background(), testActor(), createInput("sess-1", 4)); err == nil {
		t.Fatal("expected create to fail")
	}
	got, _ := sessions.GetByID(context.Background(), "sess-1")
	if got.BookedSeats != 0 || got.AvailableSeats != 10 {
		t.Fatalf("reservation not rolled back: booked=%d available=%d", got.BookedSeats, got.AvailableSeats)
	}
}

func TestConcurrentReservationsNeverOversell(t *testing.T) {
	const available = 5
	sessions := newMemSessionRepo(testSession("sess-1", available, 0))
	bookings := newMemBookingRepo()
	svc := newTestService(sessions, bookings)

	var wg sync.WaitGroup
	results := make(chan error, available+1)
	for i := 0; i < available+1; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), testActor(), createInput("sess-1", 1))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, capacityFailures := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, sessionRepo.ErrCapacityExceeded):
			capacityFailures++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != available || capacityFailures != 1 {
		t.Fatalf("successes=%d capacityFailures=%d, want %d and 1", successes, capacityFailures, available)
	}

	got, _ := sessions.GetByID(context.Background(), "sess-1")
	if got.BookedSeats != available || got.AvailableSeats != 0 {
		t.Fatalf("counters drifted: booked=%d available=%d", got.BookedSeats, got.AvailableSeats)
	}
}

func TestCancelReleasesSeatsExactlyOnce(t *testing.T) {
	sessions := newMemSessionRepo(testSession("sess-1", 20, 7))
	bookings := newMemBookingRepo()
	svc := newTestService(sessions, bookings)
	ctx := context.Background()

	booking, err := svc.Create(ctx, testActor(), createInput("sess-1", 3))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	got, _ := sessions.GetByID(ctx, "sess-1")
	if got.BookedSeats != 10 {
		t.Fatalf("setup: booked=%d, want 10", got.BookedSeats)
	}

	manager := models.Actor{ID: "mgr-1", Role: models.RoleBranchManager, BranchID: "branch-1"}
	cancelled, err := svc.Cancel(ctx, manager, booking.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != models.BookingCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	got, _ = sessions.GetByID(ctx, "sess-1")
	if got.BookedSeats != 7 {
		t.Fatalf("seats not released: booked=%d, want 7", got.BookedSeats)
	}

	if _, err := svc.Cancel(ctx, manager, booking.ID); !errors.Is(err, bookingRepo.ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
	got, _ = sessions.GetByID(ctx, "sess-1")
	if got.BookedSeats != 7 {
		t.Fatalf("double cancel released seats again: booked=%d", got.BookedSeats)
	}
}

func TestCancelVerifiedBookingKeepsVerification(t *testing.T) {
	sessions := newMemSessionRepo(testSession("sess-1", 10, 0))
	bookings := newMemBookingRepo()
	svc := newTestService(sessions, bookings)
	ctx := context.Background()

	booking, err := svc.Create(ctx, testActor(), createInput("sess-1", 2))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, _, err := bookings.MarkVerified(ctx, booking.QRToken, "mgr-1", time.Now()); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	admin := models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	cancelled, err := svc.Cancel(ctx, admin, booking.ID)
	if err != nil {
		t.Fatalf("cancel of verified booking failed: %v", err)
	}
	if !cancelled.IsVerified {
		t.Error("cancellation reversed isVerified")
	}
}

func TestSeatSumInvariantHoldsAcrossLifecycle(t *testing.T) {
	sessions := newMemSessionRepo(testSession("sess-1", 30, 0))
	bookings := newMemBookingRepo()
	svc := newTestService(sessions, bookings)
	ctx := context.Background()

	var ids []string
	for _, seats := range []int{2, 5, 1, 4} {
		b, err := svc.Create(ctx, testActor(), createInput("sess-1", seats))
		if err != nil {
			t.Fatalf("create(%d) failed: %v", seats, err)
		}
		ids = append(ids, b.ID)
	}
	if _, err := svc.Cancel(ctx, testActor(), ids[1]); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	sum, _ := bookings.SumActiveSeats(ctx, "sess-1")
	got, _ := sessions.GetByID(ctx, "sess-1")
	if got.BookedSeats != sum {
		t.Fatalf("bookedSeats=%d but active booking sum=%d", got.BookedSeats, sum)
	}
	if sum != 7 {
		t.Fatalf("active sum = %d, want 7", sum)
	}
}

func TestReconcileDetectsAndRepairsDrift(t *testing.T) {
	session := testSession("sess-1", 10, 0)
	sessions := newMemSessionRepo(session)
	bookings := newMemBookingRepo()
	svc := newTestService(sessions, bookings)
	ctx := context.Background()

	if _, err := svc.Create(ctx, testActor(), createInput("sess-1", 2)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// Simulate a missed release path.
	if _, err := sessions.CorrectBookedSeats(ctx, "sess-1", 6); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	drifts, err := svc.Reconcile(ctx, false)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if len(drifts) != 1 || drifts[0].BookedSeats != 6 || drifts[0].ActualSum != 2 || drifts[0].Repaired {
		t.Fatalf("unexpected drift report: %+v", drifts)
	}

	drifts, err = svc.Reconcile(ctx, true)
	if err != nil {
		t.Fatalf("reconcile repair failed: %v", err)
	}
	if len(drifts) != 1 || !drifts[0].Repaired {
		t.Fatalf("drift not repaired: %+v", drifts)
	}
	got, _ := sessions.GetByID(ctx, "sess-1")
	if got.BookedSeats != 2 || got.AvailableSeats != 8 {
		t.Fatalf("counters after repair: booked=%d available=%d", got.BookedSeats, got.AvailableSeats)
	}

	if drifts, err = svc.Reconcile(ctx, false); err != nil || len(drifts) != 0 {
		t.Fatalf("expected clean reconcile, got drifts=%v err=%v", drifts, err)
	}
}
