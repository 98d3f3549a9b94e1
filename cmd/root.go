package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the entry point when siren is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "siren",
	Short: "OAuth-gated MCP server for alerting channels",
	Long: `siren exposes an alerting backend's channels and message broadcast as
MCP tools, fronted by a minimal OAuth-style authorization layer.

Callers register a client, complete the authorization redirect, exchange
the code for a bearer token, and present that token on every tool
invocation.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. It is called from the
// main package so the build can inject it with -ldflags.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "siren version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
