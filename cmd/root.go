package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"lendex/config"
	"lendex/core"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yiplee/structs"
)

const defaultConfigName = ".lendex.yaml"

var (
	cfgFile     string
	cfg         core.Config
	debugMode   bool
	jsonLog     bool
	initialized bool
)

var rootCmd = cobra.Command{
	Use:   "lendex",
	Short: "multi asset collateralized lending",
	Long: `lendex runs the oracle, credit agency and markets behind a http api.

Without a db dialect in the config every component lives in process memory;
run "lendex server --worker" in that case so the workers share the state.`,
}

func init() {
	cobra.OnInitialize(initConfig, initLogging, initDone)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file. default is $LENDEX_CONFIG or ~/"+defaultConfigName)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable or disable debug model")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "log-json", false, "log in json instead of text")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ver string) {
	rootCmd.Version = ver
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// lookupConfigFile flag, then $LENDEX_CONFIG, then ~/.lendex.yaml if it exists
func lookupConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}

	if env := os.Getenv("LENDEX_CONFIG"); env != "" {
		return env
	}

	dir, err := homedir.Dir()
	if err != nil {
		logrus.WithError(err).Debugln("home dir not found")
		return ""
	}

	filename := filepath.Join(dir, defaultConfigName)
	if info, err := os.Stat(filename); err == nil && !info.IsDir() {
		return filename
	}

	return ""
}

func initConfig() {
	if initialized {
		return
	}

	cfgFile = lookupConfigFile()
	if err := config.Load(cfgFile, &cfg); err != nil {
		panic(err)
	}
}

func initLogging() {
	if initialized {
		return
	}

	if debugMode {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if jsonLog {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	if cfgFile != "" {
		logrus.Debugln("use config file", cfgFile)
	}

	backend := "memory"
	if !cfg.UseMemory() {
		backend = cfg.DB.Dialect
	}
	logrus.Debugln("storage backend", backend)

	structs.DefaultTagName = "json"
}

func initDone() {
	initialized = true
}
