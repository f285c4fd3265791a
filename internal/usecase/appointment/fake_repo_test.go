package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carelinkhq/care-portal/internal/audit"
	domain "github.com/carelinkhq/care-portal/internal/domain/appointment"
	"github.com/carelinkhq/care-portal/internal/models"
)

// fakeRepo is an in-memory domain.Repository for use case tests.
type fakeRepo struct {
	users        map[string]*models.User
	schedules    map[string]map[int]*models.ProviderSchedule
	appointments map[string]*models.Appointment
	conflictErr  error

	created []*models.Appointment
}

var _ domain.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:        map[string]*models.User{},
		schedules:    map[string]map[int]*models.ProviderSchedule{},
		appointments: map[string]*models.Appointment{},
	}
}

func (f *fakeRepo) addDoctor(id, first, last, specialization string) {
	f.users[id] = &models.User{
		ID: id, FirstName: first, LastName: last,
		Role: models.RoleDoctor, Specialization: specialization,
	}
}

func (f *fakeRepo) addSchedule(providerID string, weekday int, start, end string, slotMinutes int) {
	f.addScheduleTZ(providerID, weekday, start, end, slotMinutes, "UTC")
}

func (f *fakeRepo) addScheduleTZ(providerID string, weekday int, start, end string, slotMinutes int, tz string) {
	if f.schedules[providerID] == nil {
		f.schedules[providerID] = map[int]*models.ProviderSchedule{}
	}
	f.schedules[providerID][weekday] = &models.ProviderSchedule{
		ProviderID:  providerID,
		Weekday:     weekday,
		StartTime:   start,
		EndTime:     end,
		SlotMinutes: slotMinutes,
		Timezone:    tz,
		Active:      true,
	}
}

func (f *fakeRepo) addAppointment(ap models.Appointment) *models.Appointment {
	if ap.ID == "" {
		ap.ID = fmt.Sprintf("ap-%d", len(f.appointments)+1)
	}
	if ap.Status == "" {
		ap.Status = string(domain.StatusScheduled)
	}
	f.appointments[ap.ID] = &ap
	return f.appointments[ap.ID]
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (f *fakeRepo) GetDoctorByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok && u.Role == models.RoleDoctor {
		return u, nil
	}
	return nil, errors.New("doctor not found")
}

func (f *fakeRepo) ListDoctors(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == models.RoleDoctor {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if ap.ID == "" {
		ap.ID = fmt.Sprintf("ap-%d", len(f.appointments)+1)
	}
	f.appointments[ap.ID] = ap
	f.created = append(f.created, ap)
	return nil
}

func (f *fakeRepo) AssertNoTimeConflict(ctx context.Context, providerID string, start, end time.Time) error {
	return f.conflictErr
}

func (f *fakeRepo) GetAppointmentByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	if ap, ok := f.appointments[appointmentID]; ok {
		return ap, nil
	}
	return nil, errors.New("appointment not found")
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.appointments[ap.ID] = ap
	return nil
}

func (f *fakeRepo) ListForPatient(ctx context.Context, patientID string, filter domain.ListFilter, now time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.PatientID == patientID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListForProvider(ctx context.Context, providerID string, filter domain.ListFilter, now time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.ProviderID != nil && *ap.ProviderID == providerID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetSchedule(ctx context.Context, providerID string, weekday int) (*models.ProviderSchedule, error) {
	if byDay, ok := f.schedules[providerID]; ok {
		if sched, ok := byDay[weekday]; ok {
			return sched, nil
		}
	}
	return nil, errors.New("no schedule")
}

func (f *fakeRepo) ListScheduledBetween(ctx context.Context, providerID string, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.ProviderID == nil || *ap.ProviderID != providerID {
			continue
		}
		if ap.Status != string(domain.StatusScheduled) {
			continue
		}
		if ap.DateTime.Before(start) || !ap.DateTime.Before(end) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

// recorder captures dispatched audit events.
type recorder struct {
	events []audit.Event
}

func (r *recorder) Dispatch(ev audit.Event) {
	r.events = append(r.events, ev)
}
