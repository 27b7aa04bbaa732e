package cmd

import (
	"os"

	"github.com/jsphweid/notefall/convert"
	"github.com/jsphweid/notefall/logger"
	"github.com/jsphweid/notefall/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <song-id> <out.mid>",
	Short: "Writes a song from the library as a MIDI file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		song, err := st.Get(args[0])
		if err != nil {
			return err
		}
		if n := convert.DecodeSong(song).Skipped(); n > 0 {
			logger.CLI.Printf("%d unreadable runs in %s were left out", n, song.ID)
		}
		s, err := convert.ToSMF(song)
		if err != nil {
			return err
		}

		f, err := os.Create(args[1])
		if err != nil {
			return errors.Wrapf(err, "creating %s", args[1])
		}
		defer f.Close()
		if err := midi.Write(f, s); err != nil {
			return err
		}
		logger.CLI.Printf("wrote %q to %s", song.Title, args[1])
		return nil
	},
}
