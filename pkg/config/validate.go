package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/store"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate reports every problem in the configuration as one
// error.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Server.Addr == "" {
		add("server.addr is required")
	}
	checkDuration := func(name, value string) {
		d, err := time.ParseDuration(value)
		switch {
		case err != nil:
			add("%s: invalid duration %q", name, value)
		case d <= 0:
			add("%s must be positive", name)
		}
	}
	checkDuration("server.read_timeout", c.Server.ReadTimeout)
	checkDuration("server.write_timeout", c.Server.WriteTimeout)
	checkDuration("sessions.idle_timeout", c.Sessions.IdleTimeout)
	checkDuration("sessions.reap_interval", c.Sessions.ReapInterval)

	switch c.Store.Driver {
	case store.DriverMemory:
	case store.DriverFile, store.DriverSQLite:
		if c.Store.Path == "" {
			add("store.path is required for the %s driver", c.Store.Driver)
		}
	default:
		add("store.driver: unknown driver %q", c.Store.Driver)
	}

	switch c.Log.Format {
	case FormatJSON, FormatConsole, FormatZap:
	default:
		add("log.format: unknown format %q", c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level: %v", err)
	}
	if c.Log.Dir != "" && (c.Log.Path != "" || c.Log.DetectionsPath != "") {
		add("log.dir cannot be combined with log.path or log.detections_path")
	}

	if len(problems) == 0 {
		return nil
	}
	errs := make([]error, 0, len(problems)+1)
	errs = append(errs, ErrInvalid)
	for _, p := range problems {
		errs = append(errs, errors.New(p))
	}
	return errors.Join(errs...)
}
