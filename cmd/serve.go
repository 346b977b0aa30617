package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raglab/docqa/internal/server"
)

var (
	serveAddr string
	serveDocs []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the docqa web server",
	Long: `Starts the docqa HTTP server with the upload-and-ask web interface and
the REST API. Directories passed via --docs are indexed before the
server starts accepting requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}

		logger := newLogger(cfg)
		eng := newEngine(cfg, logger)

		if len(serveDocs) > 0 {
			if err := preloadDocs(cmd.Context(), eng, cfg, serveDocs); err != nil {
				return err
			}
		}

		srv := server.New(cfg.Addr, eng, logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		st := eng.Status()
		fmt.Fprintf(os.Stderr, "docqa v%s starting on %s\n", Version, cfg.Addr)
		fmt.Fprintf(os.Stderr, "  LLM: %s (%s)\n", cfg.LLMModel, st.LLMStatus)
		fmt.Fprintf(os.Stderr, "  Documents indexed: %d (%d chunks)\n", st.DocumentsLoaded, st.ChunksIndexed)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringSliceVar(&serveDocs, "docs", nil, "directories to index before serving")
	rootCmd.AddCommand(serveCmd)
}
