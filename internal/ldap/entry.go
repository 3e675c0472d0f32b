package ldap

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Entry is a client-side view of one directory entry. Attributes are fetched
// on first access and kept for the lifetime of the value; writes go straight
// to the directory.
type Entry struct {
	dir     *Directory
	kind    Kind
	dn      string
	desired []string

	attrs map[string][]string // nil until loaded
	order []string            // attribute names in server order
}

func newEntry(dir *Directory, kind Kind, dn string, desired []string) *Entry {
	return &Entry{
		dir:     dir,
		kind:    kind,
		dn:      dn,
		desired: slices.Clone(desired),
	}
}

// newLoadedEntry wraps a search result without a further fetch.
func newLoadedEntry(dir *Directory, kind Kind, result *ldap.Entry, desired []string) *Entry {
	e := newEntry(dir, kind, result.DN, desired)
	e.populate(result)
	return e
}

func (e *Entry) populate(result *ldap.Entry) {
	e.attrs = make(map[string][]string, len(result.Attributes))
	e.order = make([]string, 0, len(result.Attributes))
	for _, attr := range result.Attributes {
		if _, seen := e.attrs[attr.Name]; !seen {
			e.order = append(e.order, attr.Name)
		}
		e.attrs[attr.Name] = append(e.attrs[attr.Name], attr.Values...)
	}
}

// DN returns the entry's distinguished name.
func (e *Entry) DN() string {
	return e.dn
}

// Kind returns the kind the entry was created as.
func (e *Entry) Kind() Kind {
	return e.kind
}

// Loaded reports whether attributes have been fetched.
func (e *Entry) Loaded() bool {
	return e.attrs != nil
}

// Load fetches the entry's attributes if that has not happened yet.
func (e *Entry) Load(ctx context.Context) error {
	if e.attrs != nil {
		return nil
	}

	conn, err := e.dir.Connect(ctx)
	if err != nil {
		return err
	}

	req := ldap.NewSearchRequest(
		e.dn,
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		0, 0, false,
		"(objectClass=*)",
		e.desired,
		nil,
	)

	var result *ldap.SearchResult
	err = LogOperation(e.dir.logger, "load_entry", map[string]any{
		"dn":         e.dn,
		"attributes": e.desired,
	}, func() error {
		var searchErr error
		result, searchErr = conn.Search(req)
		return searchErr
	})
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return wrapDirectoryError(ErrEntryNotFound, "search", e.dn, err)
		}
		return NewLDAPError("search", e.dn, err)
	}

	if len(result.Entries) == 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, e.dn)
	}

	e.populate(result.Entries[0])
	return nil
}

// lookup finds name exactly, then case-insensitively, since attribute
// descriptions are case-insensitive on the wire.
func (e *Entry) lookup(name string) (string, []string, bool) {
	if values, ok := e.attrs[name]; ok {
		return name, values, true
	}
	for _, key := range e.order {
		if strings.EqualFold(key, name) {
			return key, e.attrs[key], true
		}
	}
	return "", nil, false
}

// Names returns the requested attribute list if one was given, otherwise the
// names of the fetched attributes.
func (e *Entry) Names(ctx context.Context) ([]string, error) {
	if err := e.Load(ctx); err != nil {
		return nil, err
	}
	if len(e.desired) > 0 {
		return slices.Clone(e.desired), nil
	}
	return slices.Clone(e.order), nil
}

// Value returns the single value of name. It fails with ErrAmbiguousAttribute
// when the attribute is absent or has more than one value.
func (e *Entry) Value(ctx context.Context, name string) (string, error) {
	if err := e.Load(ctx); err != nil {
		return "", err
	}
	_, values, ok := e.lookup(name)
	if !ok || len(values) != 1 {
		return "", fmt.Errorf("%w: no or multiple values for %s", ErrAmbiguousAttribute, name)
	}
	return values[0], nil
}

// Values returns every value of name, or an empty slice when it is absent.
func (e *Entry) Values(ctx context.Context, name string) ([]string, error) {
	if err := e.Load(ctx); err != nil {
		return nil, err
	}
	_, values, _ := e.lookup(name)
	if values == nil {
		return []string{}, nil
	}
	return slices.Clone(values), nil
}

// Lookup returns the raw values of name and whether the attribute is present.
// A missing attribute is not an error.
func (e *Entry) Lookup(ctx context.Context, name string) ([]string, bool, error) {
	if err := e.Load(ctx); err != nil {
		return nil, false, err
	}
	_, values, ok := e.lookup(name)
	return slices.Clone(values), ok, nil
}

// Set replaces name with value in the directory. Multi-valued attributes are
// refused so that a stray Set cannot wipe out a value list.
func (e *Entry) Set(ctx context.Context, name, value string) error {
	if err := e.Load(ctx); err != nil {
		return err
	}

	key, values, ok := e.lookup(name)
	if ok && len(values) > 1 {
		return fmt.Errorf("%w: multiple values for attribute %s", ErrMultiValuedWrite, name)
	}
	if !ok {
		key = name
	}

	req := ldap.NewModifyRequest(e.dn, nil)
	req.Replace(name, []string{value})

	if err := e.modify(ctx, "set_attribute", name, req); err != nil {
		return err
	}

	e.store(key, []string{value})
	return nil
}

// Add appends values given as alternating name, value arguments:
//
//	e.Add(ctx, "memberUid", "mu", "memberUid", "dave")
//
// Each pair is sent as its own modify-add, in order; the first failure stops
// the sequence.
func (e *Entry) Add(ctx context.Context, pairs ...string) error {
	if len(pairs)%2 != 0 {
		return fmt.Errorf("%w: got %d", ErrMalformedAddArguments, len(pairs))
	}

	for i := 0; i < len(pairs); i += 2 {
		name, value := pairs[i], pairs[i+1]

		req := ldap.NewModifyRequest(e.dn, nil)
		req.Add(name, []string{value})

		if err := e.modify(ctx, "add_attribute", name, req); err != nil {
			return err
		}

		if e.attrs != nil {
			key, values, ok := e.lookup(name)
			if !ok {
				key = name
			}
			e.store(key, append(slices.Clone(values), value))
		}
	}

	return nil
}

func (e *Entry) modify(ctx context.Context, operation, attribute string, req *ldap.ModifyRequest) error {
	conn, err := e.dir.Connect(ctx)
	if err != nil {
		return err
	}

	err = LogOperation(e.dir.logger, operation, map[string]any{
		"dn":        e.dn,
		"attribute": attribute,
	}, func() error {
		return conn.Modify(req)
	})
	if err != nil {
		return wrapDirectoryError(ErrModifyFailed, "modify", e.dn, err)
	}
	return nil
}

func (e *Entry) store(key string, values []string) {
	if _, ok := e.attrs[key]; !ok {
		e.order = append(e.order, key)
	}
	e.attrs[key] = values
}

func (e *Entry) String() string {
	return "<" + e.kind.String() + " " + e.dn + ">"
}
