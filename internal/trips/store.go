// Package trips aggregates the signed-in user's accommodation and
// transport bookings into one collection for display and export.
package trips

import (
	"context"
	"fmt"
	"sync"

	"wayfare/internal/backend"
	"wayfare/internal/models"

	"github.com/rs/zerolog"
)

// Recorder keeps a local snapshot of the last good fetch. Optional.
type Recorder interface {
	ReplaceBookings(ctx context.Context, ownerID int64, bookings []models.Booking) error
}

// Mirror receives the collection for out-of-band syncing. Optional.
type Mirror interface {
	Enqueue(bookings []models.Booking)
}

// Store fetches and holds the aggregate booking collection. Mutations
// never insert locally; every change re-synchronizes with the backend.
type Store struct {
	client   *backend.Client
	ownerID  int64
	recorder Recorder
	mirror   Mirror
	logger   *zerolog.Logger

	mu       sync.RWMutex
	bookings []models.Booking
	loading  bool
	err      error
	stayErr  error
	rideErr  error

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewStore wires the aggregator. recorder and mirror may be nil.
func NewStore(client *backend.Client, ownerID int64, recorder Recorder, mirror Mirror, logger *zerolog.Logger) *Store {
	return &Store{
		client:   client,
		ownerID:  ownerID,
		recorder: recorder,
		mirror:   mirror,
		logger:   logger,
		loading:  true,
		subs:     make(map[int]func()),
	}
}

// Refresh fetches both booking lists concurrently and combines them in
// concatenation order (accommodations first) once both resolve. Either
// failure fails the whole refresh and leaves the collection empty; the
// per-source errors stay inspectable via SourceErrors.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.notify()

	var (
		wg               sync.WaitGroup
		stays            []models.AccommodationBooking
		rides            []models.TransportBooking
		stayErr, rideErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		stays, stayErr = s.client.AccommodationBookings(ctx)
	}()
	go func() {
		defer wg.Done()
		rides, rideErr = s.client.TransportBookings(ctx)
	}()
	wg.Wait()

	s.mu.Lock()
	s.loading = false
	s.stayErr = stayErr
	s.rideErr = rideErr

	if stayErr != nil || rideErr != nil {
		// No partial merge: discarding the half that succeeded keeps
		// the collection all-or-nothing.
		s.bookings = nil
		s.err = fmt.Errorf("failed to load bookings: %w", firstError(stayErr, rideErr))
		err := s.err
		s.mu.Unlock()
		s.notify()
		return err
	}

	combined := make([]models.Booking, 0, len(stays)+len(rides))
	for _, b := range stays {
		combined = append(combined, b.AsBooking())
	}
	for _, b := range rides {
		combined = append(combined, b.AsBooking())
	}
	s.bookings = combined
	s.err = nil
	s.mu.Unlock()
	s.notify()

	if s.recorder != nil {
		if err := s.recorder.ReplaceBookings(ctx, s.ownerID, combined); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to record booking snapshot")
		}
	}
	if s.mirror != nil {
		s.mirror.Enqueue(combined)
	}
	return nil
}

// AddAccommodationBooking submits the create call, then fully re-fetches.
func (s *Store) AddAccommodationBooking(ctx context.Context, req backend.AccommodationBookingRequest) error {
	if _, err := s.client.CreateAccommodationBooking(ctx, req); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// AddTransportBooking submits the create call, then fully re-fetches.
func (s *Store) AddTransportBooking(ctx context.Context, req backend.TransportBookingRequest) error {
	if _, err := s.client.CreateTransportBooking(ctx, req); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Cancel requests cancellation and re-fetches; the backend decides the
// resulting status.
func (s *Store) Cancel(ctx context.Context, booking models.Booking) error {
	var err error
	switch booking.Kind {
	case models.KindAccommodation:
		err = s.client.CancelAccommodationBooking(ctx, booking.ID)
	case models.KindTransport:
		err = s.client.CancelTransportBooking(ctx, booking.ID)
	default:
		return fmt.Errorf("unknown booking kind %q", booking.Kind)
	}
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Bookings returns a copy of the aggregate collection.
func (s *Store) Bookings() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// SourceErrors reports the last per-source fetch outcomes.
func (s *Store) SourceErrors() (stayErr, rideErr error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stayErr, s.rideErr
}

// Subscribe registers a change listener and returns its unsubscribe.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	listeners := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
