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
	"log/slog"
	"os"

	"github.com/gnames/spidermap/internal/ent/dashboard"
	"github.com/gnames/spidermap/internal/io/reportio"
	spidermap "github.com/gnames/spidermap/pkg"
	"github.com/gnames/spidermap/pkg/config"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Saves aggregated tables of the dashboard to xlsx workbook",
	Run: func(cmd *cobra.Command, _ []string) {
		flags := cmd.Flags()
		out, _ := flags.GetString("output")
		fams, _ := flags.GetStringSlice("family")
		cfg := config.New(opts...)

		sel := dashboard.NewSelection(cfg.DefaultFamily)
		if len(fams) > 0 {
			sel.Families = fams
		}

		ldr, closeKV := newLoader(cfg)
		defer closeKV()

		sm := spidermap.New(cfg)
		views, err := sm.Views(context.Background(), ldr, sel)
		if err != nil {
			slog.Error("Cannot build tables", "error", err)
			closeKV()
			os.Exit(1)
		}

		r := reportio.New(0)
		if err = r.ViewsWorkbook(out, views); err != nil {
			slog.Error("Cannot save workbook", "error", err)
			closeKV()
			os.Exit(1)
		}
		slog.Info("Saved tables", "path", out, "families", sel.Families)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "spidermap.xlsx", "path to the workbook")
	exportCmd.Flags().StringSliceP("family", "f", nil, "families of scatter and climate tables")
}
