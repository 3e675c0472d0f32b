package ldap

import (
	"context"
	"fmt"
	"iter"
	"strconv"
)

// Object-class filters used by the account queries.
const (
	filterWithAccount    = "(&(objectClass=tcdnetsoc-person)(objectClass=posixAccount))"
	filterWithoutAccount = "(!(objectClass=posixAccount))"

	membershipYearAttr = "tcdnetsoc_membership_year"
)

// Object returns a lazy entry of kind for id. Only the listed attributes are
// fetched when attrs is non-empty.
func (d *Directory) Object(kind Kind, id string, attrs ...string) (*Entry, error) {
	spec, err := kind.spec()
	if err != nil {
		return nil, err
	}

	dn, err := spec.resolve(d.resolver, id)
	if err != nil {
		return nil, err
	}

	return newEntry(d, kind, dn, attrs), nil
}

// User returns the user named by a DN, username or uid string.
func (d *Directory) User(id string, attrs ...string) (*Entry, error) {
	return d.Object(KindUser, id, attrs...)
}

// UserByID returns the user with numeric uid.
func (d *Directory) UserByID(uid int, attrs ...string) (*Entry, error) {
	return d.Object(KindUser, strconv.Itoa(uid), attrs...)
}

// Myself returns the user running the process.
func (d *Directory) Myself(attrs ...string) (*Entry, error) {
	dn, err := d.resolver.Myself()
	if err != nil {
		return nil, err
	}
	return newEntry(d, KindUser, dn, attrs), nil
}

// Group returns the group named by a DN, group name or gid string.
func (d *Directory) Group(id string, attrs ...string) (*Entry, error) {
	return d.Object(KindGroup, id, attrs...)
}

// GroupByID returns the group with numeric gid.
func (d *Directory) GroupByID(gid int, attrs ...string) (*Entry, error) {
	return d.Object(KindGroup, strconv.Itoa(gid), attrs...)
}

// Service returns the service group named by id.
func (d *Directory) Service(id string, attrs ...string) (*Entry, error) {
	return d.Object(KindService, id, attrs...)
}

// SourceProject returns the source project group named by id.
func (d *Directory) SourceProject(id string, attrs ...string) (*Entry, error) {
	return d.Object(KindSourceProject, id, attrs...)
}

// UserGroup returns the user group named by id.
func (d *Directory) UserGroup(id string, attrs ...string) (*Entry, error) {
	return d.Object(KindUserGroup, id, attrs...)
}

// Host returns the host entry at dn.
func (d *Directory) Host(dn string, attrs ...string) (*Entry, error) {
	return d.Object(KindHost, dn, attrs...)
}

// Everyone streams every entry under the users subtree.
func (d *Directory) Everyone(ctx context.Context) iter.Seq2[*Entry, error] {
	return d.All(ctx, KindUser)
}

// Members streams users whose membership year contains the current session.
func (d *Directory) Members(ctx context.Context) iter.Seq2[*Entry, error] {
	return d.SearchBy(ctx, KindUser, map[string]string{
		membershipYearAttr: d.Session(),
	})
}

// WithAccount streams society members that have a POSIX account.
func (d *Directory) WithAccount(ctx context.Context) iter.Seq2[*Entry, error] {
	return d.Search(ctx, KindUser, filterWithAccount)
}

// WithoutAccount streams users that have no POSIX account.
func (d *Directory) WithoutAccount(ctx context.Context) iter.Seq2[*Entry, error] {
	return d.Search(ctx, KindUser, filterWithoutAccount)
}

// PosixGroups streams POSIX groups in the subtree of a group-family kind.
func (d *Directory) PosixGroups(ctx context.Context, kind Kind) iter.Seq2[*Entry, error] {
	if !kind.IsGroup() {
		return func(yield func(*Entry, error) bool) {
			yield(nil, fmt.Errorf("%w: %s is not a group kind", ErrInvalidKind, kind))
		}
	}
	return d.SearchBy(ctx, kind, map[string]string{"objectClass": "posixGroup"})
}
