package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jsphweid/notefall/convert"
	"github.com/jsphweid/notefall/logger"
	"github.com/jsphweid/notefall/util"
	"github.com/spf13/cobra"
)

var importOpts = convert.DefaultOptions()
var importMax int

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().IntVar(&importMax, "max", 0, "stop after this many files, 0 for all")
	importCmd.Flags().IntVar(&importOpts.Range.Low, "range-low", importOpts.Range.Low, "lowest encoded pitch")
	importCmd.Flags().IntVar(&importOpts.Range.High, "range-high", importOpts.Range.High, "highest encoded pitch")
}

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Adds every MIDI file under a directory to the library",
	Long: `Adds every MIDI file under a directory to the library. Files that
cannot be converted are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		paths, err := util.GatherAllMidiPaths(args[0], importMax)
		if err != nil {
			return err
		}

		var imported int
		for i, path := range paths {
			fmt.Printf("Processing %v of %v midi files\n", i+1, len(paths))
			opts := importOpts
			rel, err := filepath.Rel(args[0], path)
			if err == nil {
				opts.Title = strings.TrimSuffix(rel, filepath.Ext(rel))
			}
			song, err := convert.FromFile(path, opts)
			if err != nil {
				logger.CLI.Printf("skipping %v: %v", path, err)
				continue
			}
			if _, err := st.Put(song); err != nil {
				return err
			}
			imported++
		}
		logger.CLI.Printf("imported %d of %d files", imported, len(paths))
		return nil
	},
}
