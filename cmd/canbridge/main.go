// Canbridge bridges a Linux SocketCAN interface to WebSocket clients.
//
// It serves a small web dashboard and a /ws endpoint that streams CAN
// frames as JSON envelopes in candump text format, and writes frames sent
// by clients back onto the bus. Running bridges advertise themselves over
// mDNS so the monitor command can find them without a URL.
//
// Usage:
//
//	canbridge serve [flags]
//	canbridge monitor [flags]
//	canbridge send <frame> [flags]
//	canbridge config <init|show|path>
//
// See 'canbridge --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/canbridge/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "canbridge",
	Short: "SocketCAN to WebSocket bridge",
	Long: `A bridge between a Linux SocketCAN interface and WebSocket clients.

Each connected client gets a live stream of CAN frames as JSON envelopes
and can write frames back onto the bus. A built-in web dashboard and a
terminal monitor are included for watching traffic.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("canbridge %s (commit: %s)\n", version.Version, version.Commit)
	},
}
