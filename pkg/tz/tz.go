package tz

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// Load resolves an IANA zone name. An empty name, "UTC" and "Local" map to the
// corresponding built-in locations without touching the zoneinfo database.
func Load(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "UTC":
		return time.UTC, nil
	case "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}
