package main

import (
	"fmt"
	"os"

	"github.com/arborui/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the session HTTP server",
	Long:  `Starts the arbor engine in server mode, exposing session trees over a JSON API.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisURL, _ := cmd.Flags().GetString("redis")
		debug, _ := cmd.Flags().GetBool("debug")

		err := cli.RunServe(cli.ServeOptions{
			Port:     port,
			RedisURL: redisURL,
			Debug:    debug,
		})
		if err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for durable sessions (e.g. localhost:6379)")
	serveCmd.Flags().Bool("debug", false, "Enable debug logging")
}
