package ldap

import (
	"context"
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

type connectOptions struct {
	identity   *string
	credential *string
}

// ConnectOption changes who Connect binds as.
type ConnectOption func(*connectOptions)

// AsIdentity binds as the user named by id (DN, username or uid).
func AsIdentity(id string) ConnectOption {
	return func(o *connectOptions) { o.identity = &id }
}

// WithCredential binds with password instead of trying an unauthenticated
// bind first. An empty password performs an unauthenticated bind without
// prompting.
func WithCredential(password string) ConnectOption {
	return func(o *connectOptions) { o.credential = &password }
}

// Connect returns a bound connection.
//
// Without options it binds as the process user, trying an unauthenticated
// bind and prompting for a password if that is refused; the result is cached
// and returned by later option-less calls. Connections made with an explicit
// identity or credential are never cached and belong to the caller.
func (d *Directory) Connect(ctx context.Context, opts ...ConnectOption) (Conn, error) {
	var o connectOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.identity != nil || o.credential != nil {
		return d.open(ctx, o)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn != nil {
		return d.conn, nil
	}

	conn, err := d.open(ctx, o)
	if err != nil {
		return nil, err
	}
	d.conn = conn
	return conn, nil
}

func (d *Directory) open(ctx context.Context, o connectOptions) (Conn, error) {
	var (
		dn  string
		err error
	)
	if o.identity == nil {
		dn, err = d.resolver.Myself()
	} else {
		dn, err = d.resolver.ResolveUser(*o.identity)
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"url":     d.config.URL,
		"bind_dn": dn,
		"cached":  o.identity == nil && o.credential == nil,
	}

	conn, err := d.dial(ctx, d.config.URL, d.config.Timeout)
	if err != nil {
		LogLDAPError(d.logger, "dial", err, fields)
		return nil, fmt.Errorf("failed to connect to %s: %w", d.config.URL, NewLDAPError("dial", "", err))
	}

	err = LogOperation(d.logger, "bind", fields, func() error {
		return d.bind(conn, dn, o.credential)
	})
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	d.logger.Info("Connected to directory", fields)
	return conn, nil
}

// bind authenticates conn as dn. With no credential an unauthenticated bind
// is attempted first and the prompter is consulted if the server refuses it.
func (d *Directory) bind(conn Conn, dn string, credential *string) error {
	if credential != nil {
		return simpleBind(conn, dn, *credential)
	}

	err := conn.UnauthenticatedBind(dn)
	if err == nil {
		return nil
	}

	if !bindNeedsCredential(err) || d.prompter == nil {
		return wrapDirectoryError(ErrBindFailed, "bind", dn, err)
	}

	d.logger.Debug("Unauthenticated bind refused, prompting for credential", map[string]any{
		"bind_dn": dn,
		"error":   err.Error(),
	})

	password, err := d.prompter.PromptCredential(dn)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBindFailed, err)
	}
	return simpleBind(conn, dn, password)
}

func simpleBind(conn Conn, dn, password string) error {
	var err error
	if password == "" {
		err = conn.UnauthenticatedBind(dn)
	} else {
		err = conn.Bind(dn, password)
	}
	if err != nil {
		return wrapDirectoryError(ErrBindFailed, "bind", dn, err)
	}
	return nil
}

// bindNeedsCredential reports whether a refused unauthenticated bind should
// be retried with a password. OpenLDAP answers unwillingToPerform when
// unauthenticated binds are disabled.
func bindNeedsCredential(err error) bool {
	return IsAuthenticationError(err) || ldap.IsErrorWithCode(err, ldap.LDAPResultUnwillingToPerform)
}
