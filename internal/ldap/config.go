package ldap

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-ldap/ldap/v3"
	"github.com/sirupsen/logrus"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLDAPURL    = "NETSOC_LDAP_URL"
	EnvBaseDN     = "NETSOC_LDAP_BASE_DN"
	EnvRootDN     = "NETSOC_LDAP_ROOT_DN"
	EnvTimeout    = "NETSOC_LDAP_TIMEOUT"
	EnvBufferSize = "NETSOC_LDAP_SEARCH_BUFFER"
	EnvLogLevel   = "NETSOC_LOG_LEVEL"
)

// DefaultConfig returns the configuration for the local directory server.
func DefaultConfig() *ConnectionConfig {
	config := &ConnectionConfig{}
	if err := defaults.Set(config); err != nil {
		// Only reachable if the struct tags themselves are malformed.
		panic(fmt.Sprintf("ldap: invalid config defaults: %v", err))
	}
	return config
}

// ConfigFromEnv returns DefaultConfig overridden by NETSOC_* environment variables.
func ConfigFromEnv() (*ConnectionConfig, error) {
	config := DefaultConfig()

	if v := os.Getenv(EnvLDAPURL); v != "" {
		config.URL = v
	}
	if v := os.Getenv(EnvBaseDN); v != "" {
		config.BaseDN = v
	}
	if v := os.Getenv(EnvRootDN); v != "" {
		config.RootDN = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		config.Timeout = timeout
	}
	if v := os.Getenv(EnvBufferSize); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvBufferSize, err)
		}
		config.SearchBuffer = size
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.LogLevel = v
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *ConnectionConfig) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid LDAP URL %q: %w", c.URL, err)
	}
	switch u.Scheme {
	case "ldap", "ldaps", "ldapi":
	default:
		return fmt.Errorf("unsupported LDAP URL scheme %q", u.Scheme)
	}

	base, err := ldap.ParseDN(c.BaseDN)
	if err != nil {
		return fmt.Errorf("invalid base DN %q: %w", c.BaseDN, err)
	}
	if len(base.RDNs) == 0 {
		return fmt.Errorf("base DN cannot be empty")
	}

	root, err := ldap.ParseDN(c.RootDN)
	if err != nil {
		return fmt.Errorf("invalid root DN %q: %w", c.RootDN, err)
	}
	if !base.AncestorOfFold(root) {
		return fmt.Errorf("root DN %q is not under base DN %q", c.RootDN, c.BaseDN)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if c.SearchBuffer < 0 {
		return fmt.Errorf("search buffer cannot be negative")
	}

	if _, err := logrus.ParseLevel(strings.TrimSpace(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}
