package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bookingFixture serves availability and booking, counting every request.
type bookingFixture struct {
	srv      *httptest.Server
	requests atomic.Int64

	// blockBooking, when non-nil, holds the book handler open until closed.
	blockBooking chan struct{}
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	f := &bookingFixture{}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/appointments/available", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		f.requests.Add(1)
		var req struct {
			From string `json:"from"`
			To   string `json:"to"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		from, err := time.Parse(time.RFC3339, req.From)
		require.NoError(t, err)

		day := from.Format("2006-01-02")
		w.Write([]byte(`{
			"result_code": 0,
			"available": [{
				"provider_id": "P123",
				"firstName": "Greg",
				"lastName": "House",
				"specialization": "Diagnostics",
				"availableTimes": ["` + day + `T10:00:00Z", "` + day + `T10:30:00Z"]
			}]
		}`))
	})

	mux.HandleFunc("/api/appointments/book", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		f.requests.Add(1)
		if f.blockBooking != nil {
			<-f.blockBooking
		}
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error_code":"missing_token","message":"Authentication required."}`))
			return
		}
		var req struct {
			DateTime   string  `json:"date_time"`
			ProviderID *string `json:"provider_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := map[string]any{
			"result_code": 0,
			"appointment": map[string]any{
				"app_id":      "ap-1",
				"patient_id":  "u1",
				"provider_id": req.ProviderID,
				"date_time":   req.DateTime,
				"status":      "scheduled",
			},
		}
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func loggedInFlow(t *testing.T, f *bookingFixture) *BookingFlow {
	t.Helper()
	client := NewClient(f.srv.URL)
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(Session{
		Token:     "tok-u1",
		User:      User{ID: "u1", Role: "patient"},
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	return NewBookingFlow(NewManager(client, store), client)
}

func loggedOutFlow(t *testing.T, f *bookingFixture) *BookingFlow {
	t.Helper()
	client := NewClient(f.srv.URL)
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	return NewBookingFlow(NewManager(client, store), client)
}

func TestBookingFlowHappyPath(t *testing.T) {
	f := newBookingFixture(t)
	flow := loggedInFlow(t, f)
	ctx := context.Background()

	day := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	slots, err := flow.SelectDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, StateSlotsReady, flow.State())

	require.NoError(t, flow.SelectTime("2025-12-15T10:00:00Z", "P123"))
	assert.Equal(t, StateTimeChosen, flow.State())

	appt, err := flow.Book(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateBooked, flow.State())
	assert.Equal(t, "ap-1", appt.AppID)
	assert.Equal(t, "scheduled", appt.Status)
	require.NotNil(t, appt.ProviderID)
	assert.Equal(t, "P123", *appt.ProviderID)
	assert.Equal(t, time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC), appt.DateTime)
}

func TestBookingRequiresLogin(t *testing.T) {
	f := newBookingFixture(t)
	flow := loggedOutFlow(t, f)
	ctx := context.Background()

	_, err := flow.SelectDate(ctx, time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err, "browsing availability needs no session")
	require.NoError(t, flow.SelectTime("2025-12-15T10:00:00Z", "P123"))

	before := f.requests.Load()
	_, err = flow.Book(ctx)
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, before, f.requests.Load(), "no request leaves the process without a token")
}

func TestSelectDateResetsChosenTime(t *testing.T) {
	f := newBookingFixture(t)
	flow := loggedInFlow(t, f)
	ctx := context.Background()

	_, err := flow.SelectDate(ctx, time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, flow.SelectTime("2025-12-15T10:00:00Z", "P123"))

	// picking another day drops the earlier choice
	_, err = flow.SelectDate(ctx, time.Date(2025, 12, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, StateSlotsReady, flow.State())

	_, err = flow.Book(ctx)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestBookWithoutChoosingTime(t *testing.T) {
	f := newBookingFixture(t)
	flow := loggedInFlow(t, f)

	_, err := flow.Book(context.Background())
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestOverlappingBookRejected(t *testing.T) {
	f := newBookingFixture(t)
	f.blockBooking = make(chan struct{})
	flow := loggedInFlow(t, f)
	ctx := context.Background()

	_, err := flow.SelectDate(ctx, time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, flow.SelectTime("2025-12-15T10:00:00Z", "P123"))

	done := make(chan error, 1)
	go func() {
		_, err := flow.Book(ctx)
		done <- err
	}()

	// wait for the first booking request to be in flight
	require.Eventually(t, func() bool {
		return flow.State() == StateBooking
	}, time.Second, 5*time.Millisecond)

	_, err = flow.Book(ctx)
	assert.ErrorIs(t, err, ErrBookingInFlight)

	_, err = flow.SelectDate(ctx, time.Date(2025, 12, 16, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrBookingInFlight)

	close(f.blockBooking)
	require.NoError(t, <-done)
	assert.Equal(t, StateBooked, flow.State())
}

func TestStaleAvailabilityDropped(t *testing.T) {
	f := newBookingFixture(t)
	flow := loggedInFlow(t, f)
	ctx := context.Background()

	// bump the generation mid-load by resetting before the result lands
	_, err := flow.SelectDate(ctx, time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	flow.Reset()
	assert.Equal(t, StateIdle, flow.State())
	assert.Empty(t, flow.Slots())
	assert.Nil(t, flow.Booked())
}
