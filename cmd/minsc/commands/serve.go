package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/panyam/minsc/web"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the policy compile server",
	Long: `The serve command starts an HTTP server exposing the compiler:

  POST /api/compile   {"source": "..."}   compile a program
  GET  /healthz                           liveness probe

Keys preloaded with --keystore are visible to every compile. Host and port
come from flags, or from MINSC_HOST / MINSC_PORT (a .env file in the
working directory is honored).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err == nil {
			slog.Info("loaded .env")
		}

		l, err := newLoader()
		if err != nil {
			return err
		}

		host, port := getServeConfig()
		addr := fmt.Sprintf("%s:%d", host, port)
		server := web.NewServer(addr, l)

		// Handle shutdown signals
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		slog.Info("starting compile server", "addr", addr, "version", Version)
		return server.Start(ctx)
	},
}

// getServeConfig resolves host and port: flags beat environment beats
// defaults.
func getServeConfig() (string, int) {
	host := serveHost
	if host == "" {
		host = os.Getenv("MINSC_HOST")
	}
	if host == "" {
		host = "localhost"
	}
	port := servePort
	if port == 0 {
		if p, err := strconv.Atoi(os.Getenv("MINSC_PORT")); err == nil {
			port = p
		}
	}
	if port == 0 {
		port = 8080
	}
	return host, port
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Server host (default: MINSC_HOST env var or localhost)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Server port (default: MINSC_PORT env var or 8080)")
	AddCommand(serveCmd)
}
