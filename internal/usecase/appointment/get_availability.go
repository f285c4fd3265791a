package appointment

import (
	"context"
	"time"

	domain "github.com/carelinkhq/care-portal/internal/domain/appointment"
	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/models"
	"github.com/carelinkhq/care-portal/internal/timezone"
)

// maxAvailabilityWindow caps how far a single availability query may span.
const maxAvailabilityWindow = 31 * 24 * time.Hour

type GetAvailability struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo, now: time.Now}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.ProviderAvailability, error) {

	from := in.From.UTC()
	to := in.To.UTC()

	if !to.After(from) {
		return nil, httperr.ErrBusiness("invalid_window")
	}
	if to.Sub(from) > maxAvailabilityWindow {
		return nil, httperr.ErrBusiness("window_too_large")
	}

	if now := uc.now().UTC(); from.Before(now) {
		from = now
	}

	doctors, err := uc.repo.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ProviderAvailability, 0, len(doctors))
	for _, doc := range doctors {
		slots, err := uc.slotsFor(ctx, doc.ID, from, to)
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}

		out = append(out, domain.ProviderAvailability{
			ProviderID:     doc.ID,
			FirstName:      doc.FirstName,
			LastName:       doc.LastName,
			Specialization: doc.Specialization,
			AvailableTimes: slots,
		})
	}

	return out, nil
}

func (uc *GetAvailability) slotsFor(
	ctx context.Context,
	providerID string,
	from time.Time,
	to time.Time,
) ([]string, error) {

	booked, err := uc.repo.ListScheduledBetween(ctx, providerID, from, to)
	if err != nil {
		return nil, err
	}

	var slots []string

	// Walk the window one calendar day at a time; each day is governed by
	// the provider's weekly schedule in the schedule's own timezone.
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {

		sched, err := uc.repo.GetSchedule(ctx, providerID, int(day.Weekday()))
		if err != nil || !sched.Active || sched.StartTime == "" || sched.EndTime == "" {
			continue
		}

		loc := timezone.Location(sched.Timezone)
		local := day.In(loc)

		// The cursor sits at a UTC instant; in a zone behind UTC that is
		// still the previous local day. Slots must fall on the local
		// calendar day carrying the schedule's weekday.
		switch (sched.Weekday - int(local.Weekday()) + 7) % 7 {
		case 1:
			local = local.AddDate(0, 0, 1)
		case 6:
			local = local.AddDate(0, 0, -1)
		}

		parseHM := func(hm string) time.Time {
			t, _ := time.Parse("15:04", hm)
			return time.Date(
				local.Year(), local.Month(), local.Day(),
				t.Hour(), t.Minute(), 0, 0,
				loc,
			)
		}

		dayStart := parseHM(sched.StartTime)
		dayEnd := parseHM(sched.EndTime)

		slotDuration := time.Duration(sched.SlotMinutes) * time.Minute
		if slotDuration <= 0 {
			slotDuration = 30 * time.Minute
		}

		for cur := dayStart; !cur.Add(slotDuration).After(dayEnd); cur = cur.Add(slotDuration) {
			slotStart := cur.UTC()
			slotEnd := cur.Add(slotDuration).UTC()

			if slotStart.Before(from) || slotEnd.After(to) {
				continue
			}

			if hasConflict(booked, slotStart, slotEnd, slotDuration) {
				continue
			}

			slots = append(slots, slotStart.Format(time.RFC3339))
		}
	}

	return slots, nil
}

func hasConflict(
	booked []models.Appointment,
	start time.Time,
	end time.Time,
	slotDuration time.Duration,
) bool {
	for _, ap := range booked {
		apStart := ap.DateTime
		apEnd := apStart.Add(slotDuration)
		if start.Before(apEnd) && end.After(apStart) {
			return true
		}
	}
	return false
}
