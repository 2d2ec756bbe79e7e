// Copyright © 2020 Dmitry Mozzherin <dmozzherin@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/gnames/spidermap/internal/ent/agg"
	"github.com/gnames/spidermap/internal/ent/dashboard"
	"github.com/gnames/spidermap/internal/ent/loader"
	"github.com/gnames/spidermap/internal/io/kvio"
	"github.com/gnames/spidermap/internal/io/loadio"
	"github.com/gnames/spidermap/internal/io/webio"
	"github.com/gnames/spidermap/internal/observability"
	spidermap "github.com/gnames/spidermap/pkg"
	"github.com/gnames/spidermap/pkg/config"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the dashboard of spider occurrences",
	Run: func(cmd *cobra.Command, _ []string) {
		if s, _ := cmd.Flags().GetString("addr"); s != "" {
			opts = append(opts, config.OptAddr(s))
		}
		if s, _ := cmd.Flags().GetString("mode"); s != "" {
			opts = append(opts, config.OptRenderMode(s))
		}
		if i, _ := cmd.Flags().GetInt("min-year"); i != 0 {
			opts = append(opts, config.OptMinYear(i))
		}
		cfg := config.New(opts...)

		if err := serve(cfg); err != nil {
			slog.Error("Cannot run dashboard", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "address of the dashboard, e.g. :8501")
	serveCmd.Flags().StringP("mode", "m", "", "render mode: aggregated or parity")
	serveCmd.Flags().IntP("min-year", "y", 0, "earliest year on the dashboard")
}

func serve(cfg config.Config) error {
	mode, err := dashboard.NewRenderMode(cfg.RenderMode)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	ldr, closeKV := newLoader(cfg, loadio.OptMetrics(metrics))
	defer closeKV()

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	sm := spidermap.New(cfg)
	d, err := sm.DashboardData(ctx, ldr)
	if err != nil {
		return err
	}
	slog.Info("Dashboard data is ready",
		"rows", humanize.Comma(int64(len(d.Records))),
		"families", len(agg.Families(d.Records)),
		"mode", mode,
	)

	rnd := dashboard.New(mode, dashboard.OptMetrics(metrics))
	srv, err := webio.New(cfg, sm, ldr, rnd, metrics)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), cfg.ShutdownTimeout,
	)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newLoader creates a loader with a persistent cache in CacheDir. If the
// cache cannot be opened, the loader works from memory only.
func newLoader(
	cfg config.Config,
	lopts ...loadio.Option,
) (loader.Loader, func()) {
	noop := func() {}
	if cfg.CacheDir == "" {
		return loadio.New(lopts...), noop
	}

	kv, err := kvio.New(cfg.CacheDir)
	if err == nil {
		err = kv.Open()
	}
	if err != nil {
		slog.Warn("Cannot open cache, continuing without it",
			"dir", cfg.CacheDir, "error", err)
		return loadio.New(lopts...), noop
	}

	lopts = append(lopts, loadio.OptKeyVal(kv))
	closeKV := func() {
		if err := kv.Close(); err != nil && !errors.Is(err, kvio.ErrNotOpen) {
			slog.Warn("Cannot close cache", "error", err)
		}
	}
	return loadio.New(lopts...), closeKV
}
