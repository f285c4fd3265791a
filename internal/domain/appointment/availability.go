package appointment

import "time"

type AvailabilityInput struct {
	From time.Time
	To   time.Time
}

// ProviderAvailability is one doctor together with the open slots they
// offer inside the queried window. Recomputed per query, never persisted.
type ProviderAvailability struct {
	ProviderID     string   `json:"provider_id"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Specialization string   `json:"specialization"`
	AvailableTimes []string `json:"availableTimes"`
}
