package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/outils-citoyens/outils-api/internal/legal"
	"github.com/outils-citoyens/outils-api/internal/server"
	"github.com/outils-citoyens/outils-api/internal/server/ratelimit"
)

var (
	servePort     int
	serveLegalDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing letter generation, the form assistant and legal search.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides configuration)")
	serveCmd.Flags().StringVar(&serveLegalDir, "legal-dir", "", "Directory of legal documents to load at startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath, true)
	if err != nil {
		return err
	}
	defer a.close()

	if serveLegalDir != "" {
		stats, err := legal.NewIngester(a.store, legal.IngestOptions{Logger: a.log}).
			IngestFS(ctx, os.DirFS(serveLegalDir), time.Time{})
		if err != nil {
			return fmt.Errorf("failed to load legal documents: %w", err)
		}
		a.log.Info("legal documents loaded", "documents", stats.Documents, "chunks", stats.Chunks)
	}

	cfg := a.cfg.Server
	if servePort != 0 {
		cfg.Port = servePort
	}

	srv := server.New(cfg, server.Deps{
		Pipeline:    a.pipeline,
		Chat:        a.chat,
		Legal:       a.legal,
		RateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Logger:      a.log,
	})
	return srv.Start(ctx)
}
