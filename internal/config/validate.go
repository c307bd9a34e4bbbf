package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg and the problems
// found in it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.API.BaseURL = strings.TrimRight(strings.TrimSpace(out.API.BaseURL), "/")
	out.API.Token = strings.TrimSpace(out.API.Token)
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))
	out.Log.Format = strings.ToLower(strings.TrimSpace(out.Log.Format))

	checkPort := func(name string, p int) {
		if p <= 0 || p > 65535 {
			res.addErr("%s must be 1..65535", name)
		}
	}
	checkPort("app.ui_port", out.App.UIPort)
	checkPort("backend.port", out.Backend.Port)

	// api
	if out.API.BaseURL == "" {
		res.addErr("api.base_url is required")
	} else if u, err := url.Parse(out.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		res.addErr("api.base_url must be an absolute URL, got %q", out.API.BaseURL)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		res.addErr("api.base_url scheme must be http or https")
	}
	if out.API.TimeoutSeconds <= 0 {
		res.addErr("api.timeout_seconds must be > 0")
	}
	if out.API.RequestsPerSecond < 0 {
		res.addErr("api.requests_per_second must be >= 0")
	}
	if out.API.RequestsPerSecond > 0 && out.API.Burst <= 0 {
		res.addErr("api.burst must be > 0 when api.requests_per_second is set")
	}
	if out.API.Token != "" {
		res.addWarn("api.token is stored in plain text; prefer `jobtracker token set` (keychain).")
	}

	// cache
	if out.Cache.StaleSeconds < 0 {
		res.addErr("cache.stale_seconds must be >= 0")
	} else if out.Cache.StaleSeconds == 0 {
		res.addWarn("cache.stale_seconds is 0; every read will hit the API.")
	}
	if out.Cache.GCSeconds <= 0 {
		res.addErr("cache.gc_seconds must be > 0")
	}
	if out.Cache.Retry < 0 || out.Cache.Retry > 1 {
		res.addErr("cache.retry must be 0 or 1")
	}
	if out.Cache.RetryDelayMS < 0 {
		res.addErr("cache.retry_delay_ms must be >= 0")
	}

	if strings.TrimSpace(out.Backend.DBFile) == "" {
		res.addErr("backend.db_file is required")
	}

	switch out.Log.Format {
	case "text", "json":
	default:
		res.addErr("log.format must be text or json")
	}
	switch out.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		res.addWarn("log.level %q is unknown; info will be used.", out.Log.Level)
	}

	if out.App.UIPort == out.Backend.Port && out.App.UIPort != 0 {
		res.addWarn("app.ui_port and backend.port are both %d; they cannot run side by side.", out.App.UIPort)
	}

	return out, res
}
