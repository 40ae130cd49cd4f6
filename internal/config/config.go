package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/kelseyhightower/envconfig"
	"github.com/michelangelomo/statusd/internal/health"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "statusd"

type Config struct {
	Profile string `default:"status"`

	ListenAddress string `default:"0.0.0.0"`
	ListenPort    int    `default:"8080"`

	ContentRoot string `default:"wwwroot"`
	IndexFile   string `default:"index.html"`

	AccessLog bool      `default:"false"`
	LogLevel  log.Level `default:"info"`
	LogFormat string    `default:"text"`
}

func LoadConfig() (Config, error) {
	var config Config

	err := envconfig.Process(envPrefix, &config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// Validate reports the first setting that cannot be used to start a server.
func (config Config) Validate() error {
	if _, err := health.Lookup(config.Profile); err != nil {
		return err
	}
	if config.ListenPort < 0 || config.ListenPort > 65535 {
		return fmt.Errorf("listen port %d out of range", config.ListenPort)
	}
	if config.IndexFile == "" {
		return fmt.Errorf("index file must not be empty")
	}
	if _, err := config.Formatter(); err != nil {
		return err
	}
	return nil
}

func (config Config) GetListeningAddress() string {
	return net.JoinHostPort(config.ListenAddress, strconv.Itoa(config.ListenPort))
}

// Formatter maps LogFormat onto a logrus formatter.
func (config Config) Formatter() (log.Formatter, error) {
	switch config.LogFormat {
	case "", "text":
		return &log.TextFormatter{FullTimestamp: true}, nil
	case "json":
		return &log.JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q", config.LogFormat)
	}
}
