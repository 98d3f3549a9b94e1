package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"siren/internal/config"
	"siren/internal/oauth"
	"siren/internal/server"
	"siren/pkg/logging"
)

// serveConfigPath points at an optional YAML configuration file.
var serveConfigPath string

// serveDebug enables verbose logging.
var serveDebug bool

// serveCmd starts the siren server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the siren MCP server",
	Long: `Starts the HTTP server with the authorization gateway endpoints
(/register, /login, /token, discovery metadata) and the bearer-gated /mcp
endpoint exposing the list_channels and send_message tools.

Configuration is read from an optional YAML file and SIREN_* environment
variables; a .env file in the working directory is loaded if present.
SIREN_BACKEND_URL is required.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stdout)

	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}

	registry := oauth.NewClientRegistry()
	srv := server.New(cfg, registry, rootCmd.Version)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return srv.Stop(context.Background())
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a YAML configuration file")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
}
