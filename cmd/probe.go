package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/michelangelomo/statusd/internal/config"
	"github.com/michelangelomo/statusd/internal/health"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var probeFlags struct {
	url     string
	timeout time.Duration
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that a running server answers its profile endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		profile, err := health.Lookup(config.Profile)
		if err != nil {
			return err
		}

		url := probeFlags.url
		if url == "" {
			url = probeURL(config)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), probeFlags.timeout)
		defer cancel()

		if err := health.Probe(ctx, &http.Client{}, url, profile); err != nil {
			return err
		}
		log.Debugf("probe %s%s succeeded", url, profile.Path)
		return nil
	},
	SilenceUsage: true,
}

// probeURL targets loopback when the server binds every interface.
func probeURL(config config.Config) string {
	host := config.ListenAddress
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(config.ListenPort)))
}

func init() {
	f := probeCmd.Flags()
	f.StringVar(&probeFlags.url, "url", "", "base URL of the server (default derived from the listen address)")
	f.DurationVar(&probeFlags.timeout, "timeout", 2*time.Second, "probe timeout")
	f.StringVar(&flags.profile, "profile", "", fmt.Sprintf("server profile %v (env STATUSD_PROFILE)", health.Names()))
	f.IntVar(&flags.port, "port", 0, "listen port (env STATUSD_LISTENPORT)")
	rootCmd.AddCommand(probeCmd)
}
