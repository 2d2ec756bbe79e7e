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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/gnames/spidermap/internal/ent/modeler"
	"github.com/gnames/spidermap/internal/io/reportio"
	spidermap "github.com/gnames/spidermap/pkg"
	"github.com/gnames/spidermap/pkg/config"
	"github.com/spf13/cobra"
)

// modelCmd represents the model command
var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Fits a random forest model of spider occurrences",
	Long: `Fits a random forest regressor that predicts the number of
occurrences from species, location and climate. The model is fitted twice:
with all features and without location features. Prints MSE, R^2 and
feature importances of both fits.`,
	Run: func(cmd *cobra.Command, _ []string) {
		flags := cmd.Flags()
		cfg := config.New(modelOpts(cmd)...)

		ldr, closeKV := newLoader(cfg)
		defer closeKV()

		sm := spidermap.New(cfg)
		rep, err := sm.Model(context.Background(), ldr)
		if err != nil {
			slog.Error("Cannot fit model", "error", err)
			closeKV()
			os.Exit(1)
		}

		asJSON, _ := flags.GetBool("json")
		if asJSON {
			enc := gnfmt.GNjson{Pretty: true}
			bs, err := enc.Encode(rep)
			if err != nil {
				slog.Error("Cannot encode report", "error", err)
				closeKV()
				os.Exit(1)
			}
			fmt.Println(string(bs))
		} else {
			printReport(rep)
		}

		chart, _ := flags.GetString("chart")
		xlsx, _ := flags.GetString("xlsx")
		top, _ := flags.GetInt("top")
		if err = saveReport(rep, chart, xlsx, top); err != nil {
			slog.Error("Cannot save report", "error", err)
			closeKV()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(modelCmd)

	modelCmd.Flags().BoolP("json", "J", false, "print report as JSON")
	modelCmd.Flags().StringP("chart", "c", "", "save importance charts to PNG file")
	modelCmd.Flags().StringP("xlsx", "x", "", "save report to xlsx workbook")
	modelCmd.Flags().IntP("top", "t", 20, "number of features on charts, 0 for all")
	modelCmd.Flags().IntP("trees", "n", 0, "number of trees")
	modelCmd.Flags().Uint64P("seed", "s", 0, "random seed")
	modelCmd.Flags().Float64P("test-size", "T", 0, "share of test rows")
}

// modelOpts adds settings from flags of the model command. A seed given
// explicitly is used even if it is 0.
func modelOpts(cmd *cobra.Command) []config.Option {
	flags := cmd.Flags()
	if i, _ := flags.GetInt("trees"); i > 0 {
		opts = append(opts, config.OptTrees(i))
	}
	if flags.Changed("seed") {
		i, _ := flags.GetUint64("seed")
		opts = append(opts, config.OptSeed(i))
	}
	if f, _ := flags.GetFloat64("test-size"); f != 0 {
		opts = append(opts, config.OptTestSize(f))
	}
	return opts
}

func printReport(rep modeler.Report) {
	fmt.Printf("Rows: %s, species: %s\n",
		humanize.Comma(int64(rep.Rows)), humanize.Comma(int64(rep.Species)))
	for _, v := range rep.Results {
		fmt.Printf("\n== %s (train %s, test %s)\n", v.Name,
			humanize.Comma(int64(v.TrainRows)), humanize.Comma(int64(v.TestRows)))
		fmt.Printf("MSE: %v\n", v.MSE)
		fmt.Printf("R^2: %v\n", v.R2)
		fmt.Println("Feature importances:")
		for _, imp := range v.Importances {
			fmt.Printf("  %-40s %.6f\n", imp.Feature, imp.Importance)
		}
	}
}

func saveReport(rep modeler.Report, chart, xlsx string, top int) error {
	r := reportio.New(top)
	if chart != "" {
		ext := filepath.Ext(chart)
		base := strings.TrimSuffix(chart, ext)
		for i, v := range rep.Results {
			path := chart
			if i > 0 {
				path = fmt.Sprintf("%s-%d%s", base, i+1, ext)
			}
			if err := r.ImportanceChart(path, v); err != nil {
				return err
			}
			slog.Info("Saved importance chart", "path", path)
		}
	}
	if xlsx != "" {
		if err := r.ModelWorkbook(xlsx, rep); err != nil {
			return err
		}
		slog.Info("Saved report", "path", xlsx)
	}
	return nil
}
