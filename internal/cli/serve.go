package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/smokyabdulrahman/miqat/internal/config"
	"github.com/smokyabdulrahman/miqat/internal/server"
	"github.com/spf13/cobra"
)

var (
	flagAddr         string
	flagAllowOrigins []string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer times over HTTP",
		Long: "Run an HTTP API that computes prayer times locally and mirrors the Al Adhan\n" +
			"response shapes:\n\n" +
			"  GET  /health\n" +
			"  GET  /v1/timings/{DD-MM-YYYY}?latitude=&longitude=&method=&school=&timezone=\n" +
			"  GET  /v1/ramadan?offset=&timezone=\n" +
			"  GET  /v1/gToH/{DD-MM-YYYY}\n" +
			"  GET  /v1/hToGCalendar/{month}/{year}\n" +
			"  POST /v1/validate",
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Address to listen on")
	cmd.Flags().StringSliceVar(&flagAllowOrigins, "allow-origin", nil, "CORS origins to allow (default: any)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newCalendarSession(cfg)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Converter:    s.hijri,
		Location:     s.zone,
		Method:       cfg.MethodOrDefault(config.DefaultMethod),
		AllowOrigins: flagAllowOrigins,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, flagAddr); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
