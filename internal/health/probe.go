package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Probe checks that the server at baseURL answers the profile path with the
// profile message.
func Probe(ctx context.Context, client *http.Client, baseURL string, profile Profile) error {
	url := strings.TrimSuffix(baseURL, "/") + profile.Path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build probe request: %w", err)
	}

	log.Debugf("probing %s", url)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	defer resp.Body.Close() //nolint:all

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe %s: unexpected status %d", url, resp.StatusCode)
	}

	// The message is short; anything longer is already a mismatch.
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(len(profile.Message))+1))
	if err != nil {
		return fmt.Errorf("probe %s: failed to read body: %w", url, err)
	}
	if string(body) != profile.Message {
		return fmt.Errorf("probe %s: unexpected body %q", url, body)
	}

	return nil
}
