package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sw33tLie/rumscope/internal/server"
	"github.com/sw33tLie/rumscope/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local collection sink that stores delivered reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		user, _ := cmd.Flags().GetString("user")
		pass, _ := cmd.Flags().GetString("pass")

		db, err := storage.Open(dbPathFlag(cmd))
		if err != nil {
			return err
		}
		defer db.Close()

		return server.New(db, user, pass).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: rumscope.sqlite in CWD)")
	serveCmd.Flags().String("user", "", "Basic auth username for the query API")
	serveCmd.Flags().String("pass", "", "Basic auth password for the query API")
}

func dbPathFlag(cmd *cobra.Command) string {
	dbPath, _ := cmd.Flags().GetString("dbpath")
	if dbPath == "" {
		dbPath = "rumscope.sqlite"
	}
	return dbPath
}
