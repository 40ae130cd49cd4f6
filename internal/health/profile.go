package health

import (
	"fmt"
	"sort"
)

// Profile describes one deployment flavour of the server: the path that
// answers with a fixed message and whether unmatched paths fall back to
// static content.
type Profile struct {
	Name        string
	Path        string
	Message     string
	ServeStatic bool
}

var (
	Status = Profile{
		Name:        "status",
		Path:        "/status",
		Message:     "my first Rust Server (v1.1) is Running",
		ServeStatic: true,
	}

	Health = Profile{
		Name:    "health",
		Path:    "/health",
		Message: "TMKOC my first Rust Server is Running",
	}
)

var profiles = map[string]Profile{
	Status.Name: Status,
	Health.Name: Health,
}

func Lookup(name string) (Profile, error) {
	profile, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (available: %v)", name, Names())
	}
	return profile, nil
}

func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
