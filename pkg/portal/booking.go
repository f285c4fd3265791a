package portal

import (
	"context"
	"sync"
	"time"
)

// FlowState tracks where a booking attempt sits in the appointment flow.
type FlowState int

const (
	StateIdle FlowState = iota
	StateLoadingAvailability
	StateSlotsReady
	StateTimeChosen
	StateBooking
	StateBooked
)

func (s FlowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingAvailability:
		return "loading_availability"
	case StateSlotsReady:
		return "slots_ready"
	case StateTimeChosen:
		return "time_chosen"
	case StateBooking:
		return "booking"
	case StateBooked:
		return "booked"
	default:
		return "unknown"
	}
}

// BookingFlow drives the pick-a-date, pick-a-slot, confirm sequence.
// Selecting a new date invalidates any availability load still in
// flight; the generation counter makes those late responses no-ops.
type BookingFlow struct {
	session *Manager
	client  *Client

	mu         sync.Mutex
	state      FlowState
	generation uint64
	date       time.Time
	slots      []ProviderAvailability
	chosenTime string
	providerID string
	booked     *Appointment
}

func NewBookingFlow(session *Manager, client *Client) *BookingFlow {
	return &BookingFlow{session: session, client: client}
}

func (f *BookingFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Date returns the day the flow is working on, zero when idle.
func (f *BookingFlow) Date() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.date
}

func (f *BookingFlow) Slots() []ProviderAvailability {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ProviderAvailability, len(f.slots))
	copy(out, f.slots)
	return out
}

// SelectDate starts (or restarts) the flow for a calendar day. Any
// previously chosen time and provider are discarded.
func (f *BookingFlow) SelectDate(ctx context.Context, date time.Time) ([]ProviderAvailability, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	f.mu.Lock()
	if f.state == StateBooking {
		f.mu.Unlock()
		return nil, ErrBookingInFlight
	}
	f.generation++
	gen := f.generation
	f.state = StateLoadingAvailability
	f.date = day
	f.slots = nil
	f.chosenTime = ""
	f.providerID = ""
	f.booked = nil
	f.mu.Unlock()

	avail, err := f.client.GetAvailability(ctx, day, day.Add(24*time.Hour))

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		// A newer SelectDate superseded this load.
		return nil, nil
	}
	if err != nil {
		f.state = StateIdle
		return nil, err
	}
	f.slots = avail
	f.state = StateSlotsReady
	return avail, nil
}

// SelectTime locks in one slot from the loaded availability.
func (f *BookingFlow) SelectTime(slot string, providerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateSlotsReady && f.state != StateTimeChosen {
		return &ValidationError{Field: "state", Message: "load availability before choosing a time"}
	}
	f.chosenTime = slot
	f.providerID = providerID
	f.state = StateTimeChosen
	return nil
}

// Book confirms the chosen slot. It refuses to touch the network
// without an authenticated session and rejects overlapping attempts.
func (f *BookingFlow) Book(ctx context.Context) (*Appointment, error) {
	token := f.session.Token()
	if token == "" {
		return nil, ErrAuthRequired
	}

	f.mu.Lock()
	if f.state == StateBooking {
		f.mu.Unlock()
		return nil, ErrBookingInFlight
	}
	if f.state != StateTimeChosen {
		f.mu.Unlock()
		return nil, &ValidationError{Field: "state", Message: "choose a time before booking"}
	}
	slot := f.chosenTime
	providerID := f.providerID
	f.state = StateBooking
	f.mu.Unlock()

	var pid *string
	if providerID != "" {
		pid = &providerID
	}
	appt, err := f.client.BookAppointment(ctx, token, slot, pid)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateTimeChosen
		return nil, err
	}
	f.booked = appt
	f.state = StateBooked
	return appt, nil
}

// Booked returns the confirmed appointment, if the flow reached it.
func (f *BookingFlow) Booked() *Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.booked
}

// Reset returns the flow to idle, dropping any in-progress selection.
func (f *BookingFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	f.state = StateIdle
	f.date = time.Time{}
	f.slots = nil
	f.chosenTime = ""
	f.providerID = ""
	f.booked = nil
}
