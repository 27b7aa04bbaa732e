package cmd

import (
	"fmt"

	"github.com/jsphweid/notefall/convert"
	"github.com/jsphweid/notefall/logger"
	"github.com/jsphweid/notefall/model"
	"github.com/jsphweid/notefall/quantize"
	"github.com/spf13/cobra"
)

var encodeOpts = convert.DefaultOptions()
var encodeSave bool

func init() {
	rootCmd.AddCommand(encodeCmd)
	addConvertFlags(encodeCmd, &encodeOpts)
	encodeCmd.Flags().BoolVar(&encodeSave, "save", false, "add the song to the library")
}

func addConvertFlags(c *cobra.Command, opts *convert.Options) {
	c.Flags().StringVar(&opts.Title, "title", "", "song title (default file name)")
	c.Flags().IntVar(&opts.MelodyTrack, "melody-track", -1, "track index to use as melody, -1 picks automatically")
	c.Flags().IntVar(&opts.AccompanimentTrack, "accompaniment-track", -1, "track index to use as accompaniment, -1 picks automatically")
	c.Flags().IntVar(&opts.Range.Low, "range-low", opts.Range.Low, "lowest encoded pitch")
	c.Flags().IntVar(&opts.Range.High, "range-high", opts.Range.High, "highest encoded pitch")
}

var encodeCmd = &cobra.Command{
	Use:   "encode <file.mid>",
	Short: "Converts a MIDI file into song text",
	Long: `Converts a MIDI file into song text. Both parts are quantized to a
shared tempo and printed; --save also adds the song to the library.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		song, err := convert.FromFile(args[0], encodeOpts)
		if err != nil {
			return err
		}

		fmt.Printf("title:         %s\n", song.Title)
		fmt.Printf("tempo:         %.2f (x%d)\n", song.Tempo, song.Multiplier)
		fmt.Printf("melody:        %s\n", song.Melody)
		fmt.Printf("accompaniment: %s\n", song.Accompaniment)
		melody := convert.DecodeSong(song).Track(model.Melody)
		fmt.Printf("length:        %.1fs\n", quantize.Seconds(melody, song.Tempo))

		if !encodeSave {
			return nil
		}
		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()
		saved, err := st.Put(song)
		if err != nil {
			return err
		}
		logger.CLI.Printf("saved %q as %s", saved.Title, saved.ID)
		return nil
	},
}
