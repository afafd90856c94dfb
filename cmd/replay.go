package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/rumscope/internal/utils"
	"github.com/sw33tLie/rumscope/pkg/collector"
	"github.com/sw33tLie/rumscope/pkg/delivery"
	"github.com/sw33tLie/rumscope/pkg/page"
	"github.com/sw33tLie/rumscope/pkg/vitals"
)

// replayCmd implements: rumscope replay
//
//	--page string     Page snapshot fixture (JSON)
//	--events string   Newline-delimited metric JSON, "-" for stdin
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded page load through the collector",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command: '%s'. See 'rumscope replay --help'", args[0])
		}

		pagePath, _ := cmd.Flags().GetString("page")
		eventsPath, _ := cmd.Flags().GetString("events")
		if pagePath == "" {
			return errors.New("--page is required")
		}

		endpoint := viper.GetString("endpoint")
		if endpoint == "" {
			return errors.New("no collection endpoint: use --endpoint or set RUMSCOPE_ENDPOINT")
		}

		p, err := page.Load(pagePath)
		if err != nil {
			return err
		}

		events, closeEvents, err := openEvents(eventsPath)
		if err != nil {
			return err
		}
		defer closeEvents()

		ch, err := delivery.New(delivery.Config{
			Endpoint: endpoint,
			Retries:  viper.GetInt("delivery.retries"),
			Timeout:  viper.GetDuration("delivery.timeout"),
			Log:      utils.Log,
		})
		if err != nil {
			return err
		}

		stream := vitals.NewStream(events, utils.Log)
		c := collector.Mount(p, stream, ch, collector.Options{})
		utils.Log.Infof("Mounted collector on %s (session %s)", c.Context().Pathname, c.Context().SessionID)

		n, err := stream.Run()
		ch.Wait()
		if err != nil {
			return err
		}
		utils.Log.Infof("Replayed %d metrics to %s", n, endpoint)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().String("page", "", "Page snapshot fixture (JSON)")
	replayCmd.Flags().String("events", "-", "Newline-delimited metric JSON file, or - for stdin")
	replayCmd.Flags().Int("retries", 0, "Retry a failed delivery up to this many times")
	viper.BindPFlag("delivery.retries", replayCmd.Flags().Lookup("retries"))
}

func openEvents(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open events: %w", err)
	}
	return f, func() { f.Close() }, nil
}
