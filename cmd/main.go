package main

import (
	"fmt"
	"os"

	"github.com/michelangelomo/statusd/internal/config"
	"github.com/michelangelomo/statusd/internal/health"
	"github.com/michelangelomo/statusd/internal/server"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	Version string = "v0.0.0-dev"
)

type serveFlags struct {
	profile     string
	address     string
	port        int
	contentRoot string
	index       string
	accessLog   bool
	logLevel    string
}

var flags serveFlags

var rootCmd = &cobra.Command{
	Use:   "statusd",
	Short: "Minimal status server with an optional static file fallback",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config, err := loadConfig(cmd)
		if err != nil {
			log.Fatalf("failed to load configuration: %v", err)
		}

		profile, err := health.Lookup(config.Profile)
		if err != nil {
			log.Fatalf("failed to load configuration: %v", err)
		}

		log.Debugf("starting statusd %s", Version)
		log.WithFields(log.Fields{
			"profile":     profile.Name,
			"contentRoot": config.ContentRoot,
			"accessLog":   config.AccessLog,
		}).Debug("loaded configuration")

		server := server.NewServer(profile, config)
		if err := server.Run(); err != nil {
			log.Fatalf("server error: %v", err)
		}
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.profile, "profile", "", fmt.Sprintf("server profile %v (env STATUSD_PROFILE)", health.Names()))
	f.StringVar(&flags.address, "address", "", "listen address (env STATUSD_LISTENADDRESS)")
	f.IntVar(&flags.port, "port", 0, "listen port (env STATUSD_LISTENPORT)")
	f.StringVar(&flags.contentRoot, "content-root", "", "static content directory (env STATUSD_CONTENTROOT)")
	f.StringVar(&flags.index, "index", "", "index file served for directories (env STATUSD_INDEXFILE)")
	f.BoolVar(&flags.accessLog, "access-log", false, "log every request (env STATUSD_ACCESSLOG)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (env STATUSD_LOGLEVEL)")
}

// loadConfig reads the environment, applies explicitly set flags on top and
// configures the standard logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	config, err := config.LoadConfig()
	if err != nil {
		return config, err
	}

	f := cmd.Flags()
	if f.Changed("profile") {
		config.Profile = flags.profile
	}
	if f.Changed("address") {
		config.ListenAddress = flags.address
	}
	if f.Changed("port") {
		config.ListenPort = flags.port
	}
	if f.Changed("content-root") {
		config.ContentRoot = flags.contentRoot
	}
	if f.Changed("index") {
		config.IndexFile = flags.index
	}
	if f.Changed("access-log") {
		config.AccessLog = flags.accessLog
	}
	if f.Changed("log-level") {
		level, err := log.ParseLevel(flags.logLevel)
		if err != nil {
			return config, err
		}
		config.LogLevel = level
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	formatter, err := config.Formatter()
	if err != nil {
		return config, err
	}
	log.SetFormatter(formatter)
	log.SetLevel(config.LogLevel)

	return config, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
