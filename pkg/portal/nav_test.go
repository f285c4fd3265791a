package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationPerRole(t *testing.T) {
	cases := []struct {
		role      string
		dashboard string
		labels    []string
	}{
		{
			role:      "patient",
			dashboard: "/patient/dashboard",
			labels:    []string{"Dashboard", "Appointments", "Health Records", "Consent Management", "Notifications", "Billings"},
		},
		{
			role:      "provider",
			dashboard: "/provider/dashboard",
			labels:    []string{"Dashboard", "Appointments", "Patients", "Medical Records"},
		},
		{
			role:      "doctor",
			dashboard: "/doctor/dashboard",
			labels:    []string{"Dashboard", "Appointments", "Patients", "Medical Records"},
		},
		{
			role:      "receptionist",
			dashboard: "/receptionist/dashboard",
			labels:    []string{"Dashboard", "Appointments", "Patients", "Medical Records"},
		},
		{
			role:      "admin",
			dashboard: "/admin/dashboard",
			labels:    []string{"Dashboard", "User Management", "Analytics", "System Settings"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			nav := NavigationFor(tc.role)
			assert.Equal(t, tc.role, nav.Role)
			assert.Equal(t, tc.dashboard, nav.DashboardPath)

			var labels []string
			for _, e := range nav.Entries {
				labels = append(labels, e.Label)
			}
			assert.Equal(t, tc.labels, labels)
		})
	}
}

func TestNavigationUnknownRoleFallsBackToPatient(t *testing.T) {
	nav := NavigationFor("superuser")
	assert.Equal(t, "patient", nav.Role)
	assert.Equal(t, "/patient/dashboard", nav.DashboardPath)

	nav = NavigationFor("")
	assert.Equal(t, "patient", nav.Role)
}

func TestNavigationFirstEntryIsDashboard(t *testing.T) {
	for _, role := range []string{"patient", "provider", "doctor", "receptionist", "admin"} {
		nav := NavigationFor(role)
		require.NotEmpty(t, nav.Entries)
		assert.Equal(t, "Dashboard", nav.Entries[0].Label)
		assert.Equal(t, nav.DashboardPath, nav.Entries[0].Path)
	}
}
