package cmd

import (
	"fmt"
	"strings"

	"github.com/jsphweid/notefall/notation"
	"github.com/jsphweid/notefall/pitch"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <text>...",
	Short: "Prints the notes in song text",
	Long: `Prints the notes in song text. Arguments are joined with spaces.
Input that could not be read is listed at the end.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		res := notation.Decode(strings.Join(args, " "))
		var at float64
		for _, ev := range res.Track {
			if ev.IsRest() {
				fmt.Printf("%8.2f  rest      %v\n", at, ev.Duration)
			} else {
				fmt.Printf("%8.2f  %-4s %3d  %v\n", at, pitch.Name(ev.Pitch), ev.Pitch, ev.Duration)
			}
			at += ev.Duration
		}
		for _, sk := range res.Skipped {
			fmt.Printf("skipped %q at %d\n", sk.Text, sk.Offset)
		}
	},
}
