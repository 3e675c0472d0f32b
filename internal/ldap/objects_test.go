package ldap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_Constructors(t *testing.T) {
	dir := newTestDirectory(t, new(MockConn))

	tests := []struct {
		name  string
		build func() (*Entry, error)
		kind  Kind
		dn    string
	}{
		{name: "user", build: func() (*Entry, error) { return dir.User("dave") }, kind: KindUser, dn: "uid=dave,ou=users,dc=netsoc,dc=tcd,dc=ie"},
		{name: "user by id", build: func() (*Entry, error) { return dir.UserByID(1001) }, kind: KindUser, dn: "uid=dave,ou=users,dc=netsoc,dc=tcd,dc=ie"},
		{name: "root user", build: func() (*Entry, error) { return dir.UserByID(0) }, kind: KindUser, dn: testRootDN},
		{name: "myself", build: func() (*Entry, error) { return dir.Myself() }, kind: KindUser, dn: testSelfDN},
		{name: "group", build: func() (*Entry, error) { return dir.Group("webteam") }, kind: KindGroup, dn: "gid=webteam,ou=groups,dc=netsoc,dc=tcd,dc=ie"},
		{name: "group by id", build: func() (*Entry, error) { return dir.GroupByID(100) }, kind: KindGroup, dn: "gid=users,ou=groups,dc=netsoc,dc=tcd,dc=ie"},
		{name: "service", build: func() (*Entry, error) { return dir.Service("webmail") }, kind: KindService, dn: "gid=webmail,ou=groups,dc=netsoc,dc=tcd,dc=ie"},
		{name: "source project", build: func() (*Entry, error) { return dir.SourceProject("nd") }, kind: KindSourceProject, dn: "gid=nd,ou=groups,dc=netsoc,dc=tcd,dc=ie"},
		{name: "user group", build: func() (*Entry, error) { return dir.UserGroup("admins") }, kind: KindUserGroup, dn: "gid=admins,ou=groups,dc=netsoc,dc=tcd,dc=ie"},
		{name: "host", build: func() (*Entry, error) { return dir.Host("cn=cube,ou=hosts,dc=netsoc,dc=tcd,dc=ie") }, kind: KindHost, dn: "cn=cube,ou=hosts,dc=netsoc,dc=tcd,dc=ie"},
		{name: "entry", build: func() (*Entry, error) { return dir.Object(KindEntry, testBaseDN) }, kind: KindEntry, dn: testBaseDN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.kind, entry.Kind())
			assert.Equal(t, tt.dn, entry.DN())
			assert.False(t, entry.Loaded())
		})
	}

	assert.Equal(t, int32(0), dir.dials.Load(), "constructors never contact the directory")
}

func TestDirectory_Object_Errors(t *testing.T) {
	dir := newTestDirectory(t, new(MockConn))

	_, err := dir.Object(Kind(99), "mu")
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = dir.Host("")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = dir.User("Not A User")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = dir.GroupByID(-1)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestDirectory_Object_AttributesCopied(t *testing.T) {
	dir := newTestDirectory(t, new(MockConn))

	attrs := []string{"cn", "uid"}
	entry, err := dir.User("mu", attrs...)
	require.NoError(t, err)

	attrs[0] = "mail"
	assert.Equal(t, []string{"cn", "uid"}, entry.desired)
}
