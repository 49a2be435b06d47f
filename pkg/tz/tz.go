package tz

import (
	"fmt"
	"strings"
	"time"
)

// Default is used for events created without a timezone.
const Default = "UTC"

// Load resolves an IANA zone name. An empty name yields UTC.
func Load(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = Default
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %q: %w", name, err)
	}
	return loc, nil
}

// Format renders t in the named zone, falling back to UTC for unknown zones.
func Format(t time.Time, name, layout string) string {
	loc, err := Load(name)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format(layout)
}
