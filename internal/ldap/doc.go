/*
Package ldap maps the society's directory entries (users, groups, services,
source projects, user groups and hosts) onto lazily loaded Go values.

# Architecture Overview

The package is organized into a few small components:

  - Resolver: turns uids, usernames, gids and group names into DNs using the
    local passwd and group databases, never the directory
  - Directory: the process-scoped handle holding configuration, the cached
    default connection, the credential prompter and the logger
  - Entry: one directory entry, fetched on first attribute access and
    memoized afterwards
  - Kind: selects the subtree and naming scheme for each entry type

# Connection Management

Directory.Connect binds as the process user by default, trying an
unauthenticated bind and falling back to a terminal password prompt. That
default connection is cached. Connections for an explicit identity or
credential are returned to the caller uncached.

	dir, err := ldap.NewDirectory(ldap.DefaultConfig())
	if err != nil {
		return err
	}
	defer dir.Close()

# Entries

	user, err := dir.User("mu")
	if err != nil {
		return err
	}
	shell, err := user.Value(ctx, "loginShell")

Value requires exactly one value; Values returns every value and never fails
on a missing attribute; Lookup reports presence instead of failing.

# Searching

Search, SearchBy and the account helpers return iter.Seq2 sequences backed by
an asynchronous directory search:

	for member, err := range dir.Members(ctx) {
		if err != nil {
			return err
		}
		fmt.Println(member.DN())
	}

# Error Handling

Failures carry a sentinel (ErrInvalidIdentifier, ErrAmbiguousAttribute,
ErrMultiValuedWrite, ErrModifyFailed, ErrBindFailed, ErrMalformedAddArguments,
ErrEntryNotFound) for errors.Is, and directory failures additionally wrap an
*LDAPError with the result code and category.
*/
package ldap
