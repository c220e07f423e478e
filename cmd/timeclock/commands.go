package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"timeclock.service/internal/kiosk"
	"timeclock.service/pkg/client"
)

type kioskFlags struct {
	apiURL    string
	tz        string
	prefsPath string
	downloads string
}

func newRootCmd() *cobra.Command {
	var f kioskFlags

	cmd := &cobra.Command{
		Use:           "timeclock",
		Short:         "Candy Factory shift kiosk",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKiosk(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.apiURL, "api", envOr("TIMECLOCK_API_URL", "http://localhost:8080"), "API base URL")
	cmd.Flags().StringVar(&f.tz, "tz", envOr("TIMEZONE", "America/Chicago"), "business time zone")
	cmd.Flags().StringVar(&f.prefsPath, "prefs", kiosk.DefaultPrefsPath(), "preferences file")
	cmd.Flags().StringVar(&f.downloads, "downloads", ".", "directory for downloaded timesheets")

	cmd.AddCommand(newHashPasswordCmd())
	return cmd
}

func runKiosk(cmd *cobra.Command, f kioskFlags) error {
	loc, err := time.LoadLocation(f.tz)
	if err != nil {
		return fmt.Errorf("unknown time zone %q: %w", f.tz, err)
	}
	prefs, err := kiosk.LoadPrefs(f.prefsPath)
	if err != nil {
		return err
	}

	k := kiosk.New(client.New(f.apiURL), cmd.InOrStdin(), cmd.OutOrStdout(), kiosk.Options{
		Prefs:       prefs,
		Now:         time.Now,
		Location:    loc,
		DownloadDir: f.downloads,
	})
	return k.Run(cmd.Context())
}

// newHashPasswordCmd prints a bcrypt hash for ADMIN_PASSWORD_HASH.
func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password PASSWORD",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return fmt.Errorf("password must not be empty")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
