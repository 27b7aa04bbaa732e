package cmd

import (
	"fmt"

	"github.com/jsphweid/notefall/midi"
	"github.com/jsphweid/notefall/pitch"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Inspects a MIDI file",
	Long:  `Lists the tracks of a MIDI file and which would be picked as melody and accompaniment.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return err
	}
	tpb, err := midi.TicksPerBeat(s)
	if err != nil {
		return err
	}
	fmt.Printf("ticks per beat: %v\n", tpb)
	fmt.Printf("tempo: %.2f\n", midi.Tempo(s))

	for _, info := range midi.Tracks(s) {
		name := info.Name
		if name == "" {
			name = "-"
		}
		mean := "-"
		if info.NumNotes > 0 {
			mean = fmt.Sprintf("%.1f (%s)", info.MeanPitch, pitch.Name(int(info.MeanPitch+0.5)))
		}
		fmt.Printf("track %d: %s, %d events, %d notes, mean pitch %s\n", info.Index, name, info.NumEvents, info.NumNotes, mean)
	}

	sel, err := midi.SelectParts(s, -1, -1)
	if err != nil {
		fmt.Printf("no playable parts: %v\n", err)
		return nil
	}
	fmt.Printf("melody: track %d, accompaniment: track %d\n", sel.MelodyTrack, sel.AccompanimentTrack)
	return nil
}
