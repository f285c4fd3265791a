package portal

// NavEntry is one sidebar link.
type NavEntry struct {
	Label string
	Path  string
}

// Navigation is the role-resolved shell layout.
type Navigation struct {
	Role          string
	DashboardPath string
	Entries       []NavEntry
}

var roleDashboards = map[string]string{
	"patient":      "/patient/dashboard",
	"provider":     "/provider/dashboard",
	"doctor":       "/doctor/dashboard",
	"receptionist": "/receptionist/dashboard",
	"admin":        "/admin/dashboard",
}

var roleEntries = map[string][]NavEntry{
	"patient": {
		{Label: "Appointments", Path: "/patient/appointments"},
		{Label: "Health Records", Path: "/patient/health-records"},
		{Label: "Consent Management", Path: "/patient/consents"},
		{Label: "Notifications", Path: "/patient/notifications"},
		{Label: "Billings", Path: "/patient/billings"},
	},
	"provider": {
		{Label: "Appointments", Path: "/provider/appointments"},
		{Label: "Patients", Path: "/provider/patients"},
		{Label: "Medical Records", Path: "/provider/medical-records"},
	},
	"admin": {
		{Label: "User Management", Path: "/admin/users"},
		{Label: "Analytics", Path: "/admin/analytics"},
		{Label: "System Settings", Path: "/admin/settings"},
	},
}

// NavigationFor resolves the sidebar for a role. Unknown roles fall back
// to the patient layout so the shell always renders something usable.
func NavigationFor(role string) Navigation {
	dashboard, ok := roleDashboards[role]
	if !ok {
		role = "patient"
		dashboard = roleDashboards["patient"]
	}

	entries, ok := roleEntries[role]
	if !ok {
		// doctor and receptionist share the provider link set.
		switch role {
		case "doctor", "receptionist":
			entries = roleEntries["provider"]
		default:
			entries = roleEntries["patient"]
		}
	}

	nav := Navigation{Role: role, DashboardPath: dashboard}
	nav.Entries = append([]NavEntry{{Label: "Dashboard", Path: dashboard}}, entries...)
	return nav
}
