package cmd

import (
	"net/http"

	"github.com/jsphweid/notefall/config"
	"github.com/jsphweid/notefall/logger"
	"github.com/jsphweid/notefall/server"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the codec and song library over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Range.Validate(); err != nil {
			return err
		}
		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		logger.HTTP.Printf("listening on %s", serveAddr)
		return http.ListenAndServe(serveAddr, server.New(st, cfg.Range).Handler())
	},
}
