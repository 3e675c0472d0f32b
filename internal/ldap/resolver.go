package ldap

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var validName = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)

// Resolver turns user-supplied identifiers into DNs.
//
// Numeric ids are translated with the local identity tables rather than the
// directory: binding needs a resolved DN, so resolution cannot depend on
// having a connection.
type Resolver struct {
	baseDN     string
	rootDN     string
	identities IdentityTable
}

// NewResolver creates a resolver for the given naming context.
func NewResolver(baseDN, rootDN string, identities IdentityTable) *Resolver {
	if identities == nil {
		identities = SystemIdentities{}
	}
	return &Resolver{
		baseDN:     baseDN,
		rootDN:     rootDN,
		identities: identities,
	}
}

// BaseDN returns the naming context the resolver builds DNs under.
func (r *Resolver) BaseDN() string {
	return r.baseDN
}

// isDN reports whether id already names an entry in the naming context.
func (r *Resolver) isDN(id string) bool {
	return len(id) >= len(r.baseDN) &&
		strings.EqualFold(id[len(id)-len(r.baseDN):], r.baseDN)
}

// ResolveUser returns the DN for a DN, username or numeric uid.
//
// e.g. "mu" → uid=mu,ou=users,dc=netsoc,dc=tcd,dc=ie. The DN is not
// checked for existence.
func (r *Resolver) ResolveUser(id string) (string, error) {
	id = strings.TrimSpace(id)
	if r.isDN(id) {
		return id, nil
	}

	uid, err := strconv.Atoi(id)
	if err == nil {
		return r.ResolveUserID(uid)
	}
	if errors.Is(err, strconv.ErrRange) {
		return "", fmt.Errorf("%w: UID %s out of range", ErrInvalidIdentifier, id)
	}

	if !validName.MatchString(id) {
		return "", fmt.Errorf("%w: invalid UID %q", ErrInvalidIdentifier, id)
	}
	return r.userDN(id), nil
}

// ResolveUserID returns the DN for a numeric uid.
func (r *Resolver) ResolveUserID(uid int) (string, error) {
	if uid < 0 {
		return "", fmt.Errorf("%w: invalid UID %d", ErrInvalidIdentifier, uid)
	}
	if uid == 0 {
		return r.rootDN, nil
	}

	name, err := r.identities.UserName(uid)
	if err != nil || name == "" {
		name = strconv.Itoa(uid)
	}
	return r.userDN(name), nil
}

func (r *Resolver) userDN(name string) string {
	if name == "root" {
		return r.rootDN
	}
	return fmt.Sprintf("uid=%s,%s,%s", EscapeDNValue(name), usersRDN, r.baseDN)
}

// ResolveGroup returns the DN for a DN, group name or numeric gid.
//
// Group RDNs use gid= rather than cn=, matching the existing directory layout.
func (r *Resolver) ResolveGroup(id string) (string, error) {
	id = strings.TrimSpace(id)
	if r.isDN(id) {
		return id, nil
	}

	gid, err := strconv.Atoi(id)
	if err == nil {
		return r.ResolveGroupID(gid)
	}
	if errors.Is(err, strconv.ErrRange) {
		return "", fmt.Errorf("%w: GID %s out of range", ErrInvalidIdentifier, id)
	}

	if !validName.MatchString(id) {
		return "", fmt.Errorf("%w: invalid GID %q", ErrInvalidIdentifier, id)
	}
	return r.groupDN(id), nil
}

// ResolveGroupID returns the DN for a numeric gid.
func (r *Resolver) ResolveGroupID(gid int) (string, error) {
	if gid < 0 {
		return "", fmt.Errorf("%w: invalid GID %d", ErrInvalidIdentifier, gid)
	}

	name, err := r.identities.GroupName(gid)
	if err != nil || name == "" {
		name = strconv.Itoa(gid)
	}
	return r.groupDN(name), nil
}

func (r *Resolver) groupDN(name string) string {
	return fmt.Sprintf("gid=%s,%s,%s", EscapeDNValue(name), groupsRDN, r.baseDN)
}

// ResolveDN accepts only a DN. It is used by kinds without a naming scheme.
func (r *Resolver) ResolveDN(dn string) (string, error) {
	dn = strings.TrimSpace(dn)
	if dn == "" {
		return "", fmt.Errorf("%w: empty DN", ErrInvalidIdentifier)
	}
	return dn, nil
}

// Myself returns the DN of the user running the process.
func (r *Resolver) Myself() (string, error) {
	return r.ResolveUserID(r.identities.CurrentUID())
}
