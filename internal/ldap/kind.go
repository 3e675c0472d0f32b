package ldap

import (
	"fmt"
)

// Kind selects the directory subtree and identifier resolution for an entry.
type Kind int

const (
	KindEntry Kind = iota // Anything under the base DN, addressed by DN
	KindUser
	KindGroup
	KindService
	KindSourceProject
	KindUserGroup
	KindHost
)

// Subtrees relative to the base DN.
const (
	usersRDN          = "ou=users"
	groupsRDN         = "ou=groups"
	servicesRDN       = "ou=services," + groupsRDN
	sourceProjectsRDN = "ou=sourceprojects," + groupsRDN
	userGroupsRDN     = "ou=usergroups," + groupsRDN
	hostsRDN          = "ou=hosts"
)

type kindSpec struct {
	name    string
	subtree string // empty for the base DN itself
	resolve func(*Resolver, string) (string, error)
	group   bool
}

var kindSpecs = map[Kind]kindSpec{
	KindEntry:         {name: "Entry", resolve: (*Resolver).ResolveDN},
	KindUser:          {name: "User", subtree: usersRDN, resolve: (*Resolver).ResolveUser},
	KindGroup:         {name: "Group", subtree: groupsRDN, resolve: (*Resolver).ResolveGroup, group: true},
	KindService:       {name: "Service", subtree: servicesRDN, resolve: (*Resolver).ResolveGroup, group: true},
	KindSourceProject: {name: "SourceProject", subtree: sourceProjectsRDN, resolve: (*Resolver).ResolveGroup, group: true},
	KindUserGroup:     {name: "UserGroup", subtree: userGroupsRDN, resolve: (*Resolver).ResolveGroup, group: true},
	KindHost:          {name: "Host", subtree: hostsRDN, resolve: (*Resolver).ResolveDN},
}

func (k Kind) spec() (kindSpec, error) {
	s, ok := kindSpecs[k]
	if !ok {
		return kindSpec{}, fmt.Errorf("%w: %d", ErrInvalidKind, int(k))
	}
	return s, nil
}

// String returns the kind name, e.g. "User".
func (k Kind) String() string {
	if s, ok := kindSpecs[k]; ok {
		return s.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsGroup reports whether the kind belongs to the group family.
func (k Kind) IsGroup() bool {
	return kindSpecs[k].group
}

// BaseDN returns the search root for the kind under baseDN.
func (k Kind) BaseDN(baseDN string) string {
	s := kindSpecs[k]
	if s.subtree == "" {
		return baseDN
	}
	return s.subtree + "," + baseDN
}
