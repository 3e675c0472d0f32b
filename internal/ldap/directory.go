package ldap

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// Directory is the process-scoped handle to the society directory. Build one
// at startup with NewDirectory and pass it to whatever needs entries.
//
// The default connection is cached and shared; entries obtained from a
// Directory are not safe for concurrent mutation.
type Directory struct {
	config     *ConnectionConfig
	identities IdentityTable
	resolver   *Resolver
	dial       Dialer
	prompter   CredentialPrompter
	logger     Logger
	now        func() time.Time

	mu   sync.Mutex
	conn Conn // default connection, nil until first Connect
}

// Option configures a Directory.
type Option func(*Directory)

// WithIdentities replaces the local passwd/group lookups.
func WithIdentities(identities IdentityTable) Option {
	return func(d *Directory) { d.identities = identities }
}

// WithDialer replaces the function used to open connections.
func WithDialer(dial Dialer) Option {
	return func(d *Directory) { d.dial = dial }
}

// WithPrompter replaces the terminal credential prompt. A nil prompter
// disables prompting.
func WithPrompter(p CredentialPrompter) Option {
	return func(d *Directory) { d.prompter = p }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger Logger) Option {
	return func(d *Directory) {
		if logger == nil {
			logger = discardLogger{}
		}
		d.logger = logger
	}
}

// WithClock replaces time.Now for session computation.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

// NewDirectory creates a directory handle. No connection is made until the
// first operation that needs one.
func NewDirectory(config *ConnectionConfig, opts ...Option) (*Directory, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connection config: %w", err)
	}

	d := &Directory{
		config:     config,
		identities: SystemIdentities{},
		dial:       DialURL,
		prompter:   TerminalPrompter{},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		logger, err := NewDefaultLogger(config.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		d.logger = logger
	}

	d.resolver = NewResolver(config.BaseDN, config.RootDN, d.identities)

	d.logger.Debug("Directory handle created", map[string]any{
		"url":     config.URL,
		"base_dn": config.BaseDN,
	})

	return d, nil
}

// Resolver returns the identifier resolver bound to this directory's naming context.
func (d *Directory) Resolver() *Resolver {
	return d.resolver
}

// Session returns the current session label.
func (d *Directory) Session() string {
	return CurrentSession(d.now())
}

// Close closes the cached default connection, if any.
func (d *Directory) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

// DialURL opens a plain go-ldap connection to url.
func DialURL(ctx context.Context, url string, timeout time.Duration) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := ldap.DialURL(url, ldap.DialWithDialer(&net.Dialer{Timeout: timeout}))
	if err != nil {
		return nil, err
	}
	return conn, nil
}
