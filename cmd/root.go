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
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gnames/gnsys"
	spidermap "github.com/gnames/spidermap/pkg"
	"github.com/gnames/spidermap/pkg/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//go:embed spidermap.yaml
var configText string

var (
	opts []config.Option
)

type cfgData struct {
	DataPath        string
	RegionsPath     string
	ImagePath       string
	CacheDir        string
	Addr            string
	RenderMode      string
	MinYear         int
	DefaultFamily   string
	TestSize        float64
	Seed            uint64
	Trees           int
	JobsNum         int
	LogLevel        string
	ShutdownTimeout time.Duration
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spidermap",
	Short: "Explores distribution of spider species in Switzerland",
	Long: `Spidermap serves a dashboard of spider occurrences in Swiss cantons
and their relation to temperature and precipitation. It also fits a random
forest model that predicts occurrences from location and climate.`,
	Run: func(cmd *cobra.Command, args []string) {
		version, err := cmd.Flags().GetBool("version")
		if err != nil {
			slog.Error("Cannot get flag", "error", err)
			os.Exit(1)
		}
		if version {
			fmt.Printf("\nversion: %s\nbuild: %s\n\n", spidermap.Version, spidermap.Build)
			os.Exit(0)
		}

		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().BoolP("version", "V", false, "Returns version and build date")
	rootCmd.PersistentFlags().StringP("data", "d", "", "path to the occurrences snapshot")
	rootCmd.PersistentFlags().StringP("regions", "r", "", "path to GeoJSON of cantons")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0, "number of concurrent jobs")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "debug, info, warn or error")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	var homeDir, cfgDir string
	configFile := "spidermap"

	// Find home directory.
	homeDir, err = os.UserHomeDir()
	if err != nil {
		slog.Error("Cannot find home dir", "error", err)
		os.Exit(1)
	}
	cfgDir = filepath.Join(homeDir, ".config")

	// Search config in home directory with name "spidermap" (without extension).
	viper.AddConfigPath(cfgDir)
	viper.SetConfigName(configFile)
	viper.SetEnvPrefix("SPIDERMAP")
	viper.AutomaticEnv()

	configPath := filepath.Join(cfgDir, fmt.Sprintf("%s.yaml", configFile))
	touchConfigFile(configPath)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		slog.Error("Config file spidermap.yaml not found", "error", err)
		os.Exit(1)
	}
	getOpts()
	flagOpts()
	setLogger()
}

// getOpts imports data from the configuration file. Some of the settings can
// be overriden by command line flags.
func getOpts() []config.Option {
	cfg := cfgData{}
	err := viper.Unmarshal(&cfg)
	if err != nil {
		slog.Error("Cannot unmarshal config file", "error", err)
	}

	if cfg.DataPath != "" {
		opts = append(opts, config.OptDataPath(cfg.DataPath))
	}
	if cfg.RegionsPath != "" {
		opts = append(opts, config.OptRegionsPath(cfg.RegionsPath))
	}
	if cfg.ImagePath != "" {
		opts = append(opts, config.OptImagePath(cfg.ImagePath))
	}
	switch cfg.CacheDir {
	case "":
	case "none":
		opts = append(opts, config.OptCacheDir(""))
	default:
		opts = append(opts, config.OptCacheDir(cfg.CacheDir))
	}
	if cfg.Addr != "" {
		opts = append(opts, config.OptAddr(cfg.Addr))
	}
	if cfg.RenderMode != "" {
		opts = append(opts, config.OptRenderMode(cfg.RenderMode))
	}
	if cfg.MinYear != 0 {
		opts = append(opts, config.OptMinYear(cfg.MinYear))
	}
	if cfg.DefaultFamily != "" {
		opts = append(opts, config.OptDefaultFamily(cfg.DefaultFamily))
	}
	if cfg.TestSize != 0 {
		opts = append(opts, config.OptTestSize(cfg.TestSize))
	}
	if viper.IsSet("Seed") {
		opts = append(opts, config.OptSeed(cfg.Seed))
	}
	if cfg.Trees != 0 {
		opts = append(opts, config.OptTrees(cfg.Trees))
	}
	if cfg.JobsNum != 0 {
		opts = append(opts, config.OptJobsNum(cfg.JobsNum))
	}
	if cfg.LogLevel != "" {
		opts = append(opts, config.OptLogLevel(cfg.LogLevel))
	}
	if cfg.ShutdownTimeout != 0 {
		opts = append(opts, config.OptShutdownTimeout(cfg.ShutdownTimeout))
	}
	return opts
}

// flagOpts adds settings from persistent flags, they override the
// configuration file.
func flagOpts() {
	flags := rootCmd.PersistentFlags()
	if s, _ := flags.GetString("data"); s != "" {
		opts = append(opts, config.OptDataPath(s))
	}
	if s, _ := flags.GetString("regions"); s != "" {
		opts = append(opts, config.OptRegionsPath(s))
	}
	if i, _ := flags.GetInt("jobs"); i > 0 {
		opts = append(opts, config.OptJobsNum(i))
	}
	if s, _ := flags.GetString("log-level"); s != "" {
		opts = append(opts, config.OptLogLevel(s))
	}
}

// setLogger installs a colored console handler with the configured level.
func setLogger() {
	cfg := config.New(opts...)
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		slog.Warn("Unknown log level, using info", "level", cfg.LogLevel)
		lvl = slog.LevelInfo
	}
	h := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	})
	slog.SetDefault(slog.New(h))
}

// touchConfigFile checks if config file exists, and if not, it gets created.
func touchConfigFile(configPath string) {
	fileExists, _ := gnsys.FileExists(configPath)
	if fileExists {
		return
	}

	slog.Info("Creating config file", "path", configPath)
	createConfig(configPath)
}

// createConfig creates config file.
func createConfig(path string) {
	err := gnsys.MakeDir(filepath.Dir(path))
	if err != nil {
		slog.Error("Cannot create config dir", "error", err)
		os.Exit(1)
	}

	err = os.WriteFile(path, []byte(configText), 0644)
	if err != nil {
		slog.Error("Cannot write to config file", "error", err)
		os.Exit(1)
	}
}
