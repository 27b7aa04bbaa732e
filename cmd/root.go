package cmd

import (
	"github.com/jsphweid/notefall/db"
	"github.com/jsphweid/notefall/store"
	"github.com/spf13/cobra"
)

var (
	songDir   string
	useDynamo bool
)

var rootCmd = &cobra.Command{
	Use:   "notefall",
	Short: "Falling-note practice from MIDI files",
	Long: `notefall turns MIDI performances into a compact two part song text and
plays songs back as falling notes you hit on a MIDI keyboard.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&songDir, "songs", "", "song library directory (default $SONG_PATH or ./out)")
	rootCmd.PersistentFlags().BoolVar(&useDynamo, "dynamo", false, "keep songs in DynamoDB ($DYNAMO_TABLE, $DYNAMO_ENDPOINT)")
}

// openStore returns the song library chosen by the persistent flags and a
// function that must be called before exiting.
func openStore() (store.Store, func() error, error) {
	if useDynamo {
		d, err := db.New()
		if err != nil {
			return nil, nil, err
		}
		return d, func() error { return nil }, nil
	}
	f, err := store.Open(songDir, store.DefaultFlushDelay)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
