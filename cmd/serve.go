package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvscope/internal/analysis"
	"github.com/KaramelBytes/csvscope/internal/server"
	"github.com/KaramelBytes/csvscope/internal/session"
)

var (
	srvAddr        string
	srvMaxUploadMB int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dataset uploads and analysis over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr = srvAddr
		}
		limit := cfg.MaxUploadBytes()
		if cmd.Flags().Changed("max-upload-mb") {
			if srvMaxUploadMB <= 0 {
				return fmt.Errorf("invalid --max-upload-mb: %d", srvMaxUploadMB)
			}
			limit = int64(srvMaxUploadMB) << 20
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(session.NewStore(), server.Options{
			MaxUploadBytes: limit,
			Report:         analysis.ReportOptions{SampleRows: cfg.SampleRows, TopCorrelations: cfg.TopCorrelations},
			Logger:         log,
		})
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving on http://%s (Ctrl+C to stop)\n", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (default from config listen_addr)")
	serveCmd.Flags().IntVar(&srvMaxUploadMB, "max-upload-mb", 0, "upload size limit in MB (default from config max_upload_mb)")
}
