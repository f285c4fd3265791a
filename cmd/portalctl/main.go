package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/carelinkhq/care-portal/pkg/portal"
)

var (
	apiURL  string
	verbose bool

	client  *portal.Client
	session *portal.Manager
)

func main() {
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Command line client for the care portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.Nop()
			if verbose {
				logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
					With().Timestamp().Logger()
			}
			client = portal.NewClient(apiURL, portal.WithLogger(logger))

			path, err := portal.DefaultStorePath()
			if err != nil {
				return fmt.Errorf("resolve session path: %w", err)
			}
			session = portal.NewManager(client, portal.NewStore(path))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "portal API base URL (default $PORTAL_API_URL)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		loginCmd(),
		logoutCmd(),
		registerCmd(),
		whoamiCmd(),
		navCmd(),
		doctorsCmd(),
		appointmentsCmd(),
		bookCmd(),
		recordsCmd(),
		consentsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and save the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			user, err := session.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s %s (%s)\n", user.FirstName, user.LastName, user.Role)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func registerCmd() *cobra.Command {
	var reg portal.Registration
	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg.Email = args[0]
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			reg.Password = password
			if err := session.Register(cmd.Context(), reg); err != nil {
				return err
			}
			fmt.Println("Account created. Log in with: portalctl login", reg.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&reg.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&reg.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&reg.Role, "role", "patient", "account role (patient, doctor, receptionist)")
	return cmd
}

func whoamiCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := session.Current()
			if err != nil {
				return err
			}
			if refresh {
				user, err = session.Refresh(cmd.Context())
				if err != nil {
					return err
				}
			}
			fmt.Printf("%s %s <%s>\nrole: %s\n", user.FirstName, user.LastName, user.Email, user.Role)
			if user.Specialization != "" {
				fmt.Println("specialization:", user.Specialization)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "revalidate the session against the server")
	return cmd
}

func navCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "Show the navigation layout for the current role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role := "patient"
			if user, err := session.Current(); err == nil {
				role = user.Role
			}
			nav := portal.NavigationFor(role)
			fmt.Println("role:", nav.Role)
			for _, e := range nav.Entries {
				fmt.Printf("  %-20s %s\n", e.Label, e.Path)
			}
			return nil
		},
	}
}

func doctorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctors",
		Short: "List the doctor directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doctors, err := client.FetchAllDoctors(cmd.Context(), session.Token())
			if err != nil {
				return err
			}
			for _, d := range doctors {
				fmt.Printf("%s  %s %s  (%s)\n", d.ID, d.FirstName, d.LastName, d.Specialization)
			}
			return nil
		},
	}
}

func appointmentsCmd() *cobra.Command {
	var upcoming, past bool
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "List your appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := portal.FilterAll
			switch {
			case upcoming && past:
				return fmt.Errorf("--upcoming and --past are mutually exclusive")
			case upcoming:
				filter = portal.FilterUpcoming
			case past:
				filter = portal.FilterPast
			}
			aps, err := client.ListAppointments(cmd.Context(), session.Token(), filter)
			if err != nil {
				return err
			}
			for _, ap := range aps {
				provider := "any available"
				if ap.Provider != nil {
					provider = "Dr. " + ap.Provider.FirstName + " " + ap.Provider.LastName
				}
				fmt.Printf("%s  %s  %-10s %s\n",
					ap.AppID, ap.DateTime.Local().Format("2006-01-02 15:04"), ap.Status, provider)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "only upcoming appointments")
	cmd.Flags().BoolVar(&past, "past", false, "only past appointments")
	return cmd
}

func bookCmd() *cobra.Command {
	var providerID, slotTime string
	cmd := &cobra.Command{
		Use:   "book <date>",
		Short: "Show open slots for a day and book one",
		Long:  "Lists the open slots on the given day (YYYY-MM-DD), then books the slot you pick. With --time the matching slot is booked without prompting.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("date must be YYYY-MM-DD")
			}

			flow := portal.NewBookingFlow(session, client)
			slots, err := flow.SelectDate(cmd.Context(), day)
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				fmt.Println("No open slots on", args[0])
				return nil
			}

			type option struct {
				slot       string
				providerID string
				label      string
			}
			var options []option
			for _, pa := range slots {
				if providerID != "" && pa.ProviderID != providerID {
					continue
				}
				for _, s := range pa.AvailableTimes {
					options = append(options, option{
						slot:       s,
						providerID: pa.ProviderID,
						label:      fmt.Sprintf("%s  Dr. %s %s (%s)", s, pa.FirstName, pa.LastName, pa.Specialization),
					})
				}
			}
			if len(options) == 0 {
				fmt.Println("No open slots match the filter.")
				return nil
			}

			var chosen option
			if slotTime != "" {
				found := false
				for _, o := range options {
					if o.slot == slotTime {
						chosen = o
						found = true
						break
					}
				}
				if !found {
					return fmt.Errorf("no open slot at %s", slotTime)
				}
			} else {
				for i, o := range options {
					fmt.Printf("%3d) %s\n", i+1, o.label)
				}
				fmt.Print("Slot number: ")
				var pick int
				if _, err := fmt.Scanln(&pick); err != nil || pick < 1 || pick > len(options) {
					return fmt.Errorf("invalid selection")
				}
				chosen = options[pick-1]
			}
			if err := flow.SelectTime(chosen.slot, chosen.providerID); err != nil {
				return err
			}
			appt, err := flow.Book(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Booked %s at %s (status %s)\n",
				appt.AppID, appt.DateTime.Local().Format("2006-01-02 15:04"), appt.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&providerID, "provider", "", "restrict to one doctor's slots")
	cmd.Flags().StringVar(&slotTime, "time", "", "book this exact slot (RFC3339) without prompting")
	return cmd
}

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records <appointment-id> <patient-id>",
		Short: "Show the health record for an appointment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := client.GetHealthRecord(cmd.Context(), session.Token(), args[0], args[1])
			if err != nil {
				return err
			}
			if record == nil {
				fmt.Println("No health record for this appointment.")
				return nil
			}
			fmt.Println("type:", record.RecordType)
			fmt.Println("data:", string(record.Data))
			return nil
		},
	}
	return cmd
}

func consentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consents",
		Short: "Review and answer consent requests",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List pending consent requests addressed to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := client.PatientConsentRequests(cmd.Context(), session.Token())
			if err != nil {
				return err
			}
			for _, r := range reqs {
				fmt.Printf("%s  %-12s %-12s %s\n", r.ID, r.Type, r.Status, r.Purpose)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "active",
		Short: "List your currently active consents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			consents, err := client.ActiveConsents(cmd.Context(), session.Token())
			if err != nil {
				return err
			}
			for _, cs := range consents {
				expiry := "no expiry"
				if cs.ExpiryDate != nil {
					expiry = "until " + cs.ExpiryDate.Local().Format("2006-01-02")
				}
				fmt.Printf("%s  %s (%s)  %s\n", cs.ID, cs.DoctorName, cs.Specialization, expiry)
			}
			return nil
		},
	})

	for _, action := range []string{"approve", "deny", "revoke"} {
		action := action
		cmd.AddCommand(&cobra.Command{
			Use:   action + " <consent-id>",
			Short: strings.ToUpper(action[:1]) + action[1:] + " a consent request",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var err error
				switch action {
				case "approve":
					err = client.ApproveConsent(cmd.Context(), session.Token(), args[0])
				case "deny":
					err = client.DenyConsent(cmd.Context(), session.Token(), args[0])
				case "revoke":
					err = client.RevokeConsent(cmd.Context(), session.Token(), args[0])
				}
				if err != nil {
					return err
				}
				fmt.Println("Done.")
				return nil
			},
		})
	}

	return cmd
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	var password string
	if _, err := fmt.Scanln(&password); err != nil {
		return "", err
	}
	return password, nil
}
