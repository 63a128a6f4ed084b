package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/letsconfuse/manualQaLabs/pkg/env"
)

// Settings lists every dotted setting name that can be overridden
// from the environment.
func Settings() []string {
	c := DefaultConfig()
	names := make([]string, 0, len(c.stringFields())+len(c.boolFields()))
	for _, f := range c.stringFields() {
		names = append(names, f.name)
	}
	for _, f := range c.boolFields() {
		names = append(names, f.name)
	}
	return names
}

type stringField struct {
	name string
	ptr  *string
}

type boolField struct {
	name string
	ptr  *bool
}

func (c *Config) stringFields() []stringField {
	return []stringField{
		{"server.addr", &c.Server.Addr},
		{"server.read_timeout", &c.Server.ReadTimeout},
		{"server.write_timeout", &c.Server.WriteTimeout},
		{"server.token", &c.Server.Token},
		{"store.driver", &c.Store.Driver},
		{"store.path", &c.Store.Path},
		{"log.format", &c.Log.Format},
		{"log.level", &c.Log.Level},
		{"log.path", &c.Log.Path},
		{"log.detections_path", &c.Log.DetectionsPath},
		{"log.dir", &c.Log.Dir},
		{"sessions.idle_timeout", &c.Sessions.IdleTimeout},
		{"sessions.reap_interval", &c.Sessions.ReapInterval},
		{"history_path", &c.HistoryPath},
		{"catalog_path", &c.CatalogPath},
	}
}

func (c *Config) boolFields() []boolField {
	return []boolField{
		{"log.verbose", &c.Log.Verbose},
		{"metrics.enabled", &c.Metrics.Enabled},
	}
}

// ApplyEnv overrides settings from the environment, for example
// QALABS_STORE_DRIVER for store.driver. Unparseable booleans are
// reported together.
func (c *Config) ApplyEnv(loader env.Loader) error {
	for _, f := range c.stringFields() {
		if v, ok := loader.Lookup(loader.Name(f.name)); ok {
			*f.ptr = v
		}
	}

	var errs []error
	for _, f := range c.boolFields() {
		key := loader.Name(f.name)
		v, ok := loader.Lookup(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid boolean %q", key, v))
			continue
		}
		*f.ptr = b
	}
	return errors.Join(errs...)
}
