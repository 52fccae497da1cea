package trips

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"wayfare/internal/backend"
	"wayfare/internal/config"
	"wayfare/internal/logging"
	"wayfare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookings struct {
	mux       *http.ServeMux
	stays     []models.AccommodationBooking
	rides     []models.TransportBooking
	stayFail  atomic.Bool
	rideFail  atomic.Bool
	creates   atomic.Int64
	listCalls atomic.Int64
}

func newFakeBookings() *fakeBookings {
	f := &fakeBookings{
		mux: http.NewServeMux(),
		stays: []models.AccommodationBooking{
			{ID: 1, AccommodationID: 10, CheckIn: "2024-06-01", CheckOut: "2024-06-03", Guests: 2, TotalPrice: 200, Status: models.StatusPending},
		},
		rides: []models.TransportBooking{
			{ID: 2, TransportID: 20, TravelDate: "2024-06-05", Seats: 1, TotalPrice: 45, Status: models.StatusConfirmed},
		},
	}

	f.mux.HandleFunc("/accommodation_bookings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			f.creates.Add(1)
			var req backend.AccommodationBookingRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			created := models.AccommodationBooking{
				ID: int64(len(f.stays) + 100), AccommodationID: req.AccommodationID,
				CheckIn: req.CheckIn, CheckOut: req.CheckOut, Guests: req.Guests,
				TotalPrice: req.TotalPrice, Status: models.StatusPending,
			}
			f.stays = append(f.stays, created)
			_ = json.NewEncoder(w).Encode(created)
			return
		}
		f.listCalls.Add(1)
		if f.stayFail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"stays unavailable"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(f.stays)
	})

	f.mux.HandleFunc("/transport_bookings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			f.creates.Add(1)
			var req backend.TransportBookingRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			created := models.TransportBooking{
				ID: int64(len(f.rides) + 200), TransportID: req.TransportID,
				TravelDate: req.TravelDate, Seats: req.Seats,
				TotalPrice: req.TotalPrice, Status: models.StatusPending,
			}
			f.rides = append(f.rides, created)
			_ = json.NewEncoder(w).Encode(created)
			return
		}
		f.listCalls.Add(1)
		if f.rideFail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"rides unavailable"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(f.rides)
	})

	return f
}

type recordingMirror struct {
	batches [][]models.Booking
}

func (m *recordingMirror) Enqueue(bookings []models.Booking) {
	m.batches = append(m.batches, bookings)
}

func newTestStore(t *testing.T) (*Store, *fakeBookings) {
	t.Helper()
	fake := newFakeBookings()
	srv := httptest.NewServer(fake.mux)
	t.Cleanup(srv.Close)

	client, err := backend.New(config.BackendConfig{BaseURL: srv.URL}, logging.Discard())
	require.NoError(t, err)

	return NewStore(client, 0, nil, nil, logging.Discard()), fake
}

func TestStore_RefreshCombinesInConcatenationOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.True(t, store.Loading())
	require.NoError(t, store.Refresh(ctx))
	assert.False(t, store.Loading())

	bookings := store.Bookings()
	require.Len(t, bookings, 2)
	assert.Equal(t, models.KindAccommodation, bookings[0].Kind, "accommodations come first regardless of resolve order")
	assert.Equal(t, models.KindTransport, bookings[1].Kind)
	assert.NoError(t, store.Err())
}

func TestStore_RefreshFailsWholeAggregate(t *testing.T) {
	store, fake := newTestStore(t)
	ctx := context.Background()

	// seed a successful collection first
	require.NoError(t, store.Refresh(ctx))
	require.Len(t, store.Bookings(), 2)

	fake.rideFail.Store(true)
	err := store.Refresh(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rides unavailable")

	assert.Empty(t, store.Bookings(), "no partial merge: the successful half is discarded too")
	assert.Error(t, store.Err())
	assert.False(t, store.Loading(), "loading indicator stops on failure")

	stayErr, rideErr := store.SourceErrors()
	assert.NoError(t, stayErr)
	assert.Error(t, rideErr)
}

func TestStore_AddBookingRefetches(t *testing.T) {
	store, fake := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Refresh(ctx))
	listCallsBefore := fake.listCalls.Load()

	req := backend.AccommodationBookingRequest{
		AccommodationID: 10, CheckIn: "2024-07-01", CheckOut: "2024-07-02", Guests: 1, TotalPrice: 100,
	}
	require.NoError(t, store.AddAccommodationBooking(ctx, req))

	assert.Equal(t, int64(1), fake.creates.Load())
	assert.Equal(t, listCallsBefore+2, fake.listCalls.Load(), "create is followed by a full re-fetch of both lists")
	assert.Len(t, store.Bookings(), 3)

	rideReq := backend.TransportBookingRequest{TransportID: 20, TravelDate: "2024-07-05", Seats: 2, TotalPrice: 90}
	require.NoError(t, store.AddTransportBooking(ctx, rideReq))
	assert.Len(t, store.Bookings(), 4)
}

func TestStore_MirrorAndSubscribers(t *testing.T) {
	fake := newFakeBookings()
	srv := httptest.NewServer(fake.mux)
	t.Cleanup(srv.Close)

	client, err := backend.New(config.BackendConfig{BaseURL: srv.URL}, logging.Discard())
	require.NoError(t, err)

	mirror := &recordingMirror{}
	store := NewStore(client, 0, nil, mirror, logging.Discard())

	notified := 0
	unsubscribe := store.Subscribe(func() { notified++ })

	require.NoError(t, store.Refresh(context.Background()))
	require.Len(t, mirror.batches, 1)
	assert.Len(t, mirror.batches[0], 2)
	assert.Greater(t, notified, 0)

	unsubscribe()
	before := notified
	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, before, notified)
}

func TestStayRequest(t *testing.T) {
	acc := models.Accommodation{ID: 10, PricePerNight: 100, Capacity: 4}

	t.Run("TwoNightsAtHundred", func(t *testing.T) {
		req, err := StayRequest(acc, "2024-06-01", "2024-06-03", 2)
		require.NoError(t, err)
		assert.Equal(t, 200.00, req.TotalPrice)
		assert.Equal(t, int64(10), req.AccommodationID)
	})

	t.Run("OverCapacity", func(t *testing.T) {
		_, err := StayRequest(acc, "2024-06-01", "2024-06-03", 5)
		assert.Error(t, err)
	})

	t.Run("NoGuests", func(t *testing.T) {
		_, err := StayRequest(acc, "2024-06-01", "2024-06-03", 0)
		assert.Error(t, err)
	})

	t.Run("BadDates", func(t *testing.T) {
		_, err := StayRequest(acc, "2024-06-03", "2024-06-01", 1)
		assert.Error(t, err)
	})
}

func TestRideRequest(t *testing.T) {
	tr := models.Transport{ID: 20, PricePerDay: 45, Capacity: 9}

	t.Run("ThreeSeats", func(t *testing.T) {
		req, err := RideRequest(tr, "2024-06-05", 3)
		require.NoError(t, err)
		assert.Equal(t, 135.00, req.TotalPrice)
	})

	t.Run("BadDate", func(t *testing.T) {
		_, err := RideRequest(tr, "05.06.2024", 1)
		assert.Error(t, err)
	})

	t.Run("OverCapacity", func(t *testing.T) {
		_, err := RideRequest(tr, "2024-06-05", 10)
		assert.Error(t, err)
	})
}
