package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/rumscope/pkg/storage"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [sessionID]",
	Short: "Show stored reports of one session, or the most recent reports (default 50)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := dbPathFlag(cmd)
		limit, _ := cmd.Flags().GetInt("limit")
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("database not found: %s", dbPath)
		}
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		var reports []storage.Report
		if len(args) == 1 {
			reports, err = db.ListSessionReports(context.Background(), args[0])
		} else {
			reports, err = db.ListRecentReports(context.Background(), limit)
		}
		if err != nil {
			return err
		}
		for _, r := range reports {
			ts := r.ReceivedAt.Format("2006-01-02 15:04:05")
			fmt.Printf("%s  %-5s  %s  %s  %s\n", ts, r.Name, r.SessionID, r.Pathname, r.Body)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: rumscope.sqlite in CWD)")
	sessionsCmd.Flags().Int("limit", 50, "Number of recent reports to show when no session is given")
}
