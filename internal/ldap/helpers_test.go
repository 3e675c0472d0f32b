package ldap

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testBaseDN = "dc=netsoc,dc=tcd,dc=ie"
	testRootDN = "cn=root,dc=netsoc,dc=tcd,dc=ie"
	testSelfDN = "uid=mu,ou=users,dc=netsoc,dc=tcd,dc=ie"
)

// MockConn implements the Conn interface for testing.
type MockConn struct {
	mock.Mock
}

func (m *MockConn) Bind(username, password string) error {
	args := m.Called(username, password)
	return args.Error(0)
}

func (m *MockConn) UnauthenticatedBind(username string) error {
	args := m.Called(username)
	return args.Error(0)
}

func (m *MockConn) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	result, ok := args.Get(0).(*ldap.SearchResult)
	if !ok {
		return nil, args.Error(1)
	}
	return result, args.Error(1)
}

func (m *MockConn) SearchAsync(ctx context.Context, req *ldap.SearchRequest, bufferSize int) ldap.Response {
	args := m.Called(ctx, req, bufferSize)
	resp, _ := args.Get(0).(ldap.Response)
	return resp
}

func (m *MockConn) Modify(req *ldap.ModifyRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockConn) Close() error {
	args := m.Called()
	return args.Error(0)
}

// fakeResponse replays entries as an asynchronous search would. A nil entry
// stands in for a referral.
type fakeResponse struct {
	entries []*ldap.Entry
	err     error
	pos     int
	current *ldap.Entry
}

func newFakeResponse(err error, entries ...*ldap.Entry) *fakeResponse {
	return &fakeResponse{entries: entries, err: err}
}

func (r *fakeResponse) Entry() *ldap.Entry       { return r.current }
func (r *fakeResponse) Referral() string         { return "" }
func (r *fakeResponse) Controls() []ldap.Control { return nil }
func (r *fakeResponse) Err() error               { return r.err }

func (r *fakeResponse) Next() bool {
	if r.pos >= len(r.entries) {
		r.current = nil
		return false
	}
	r.current = r.entries[r.pos]
	r.pos++
	return true
}

type fakeIdentities struct {
	users  map[int]string
	groups map[int]string
	uid    int
}

func (f fakeIdentities) UserName(uid int) (string, error) {
	if name, ok := f.users[uid]; ok {
		return name, nil
	}
	return "", errors.New("unknown user")
}

func (f fakeIdentities) GroupName(gid int) (string, error) {
	if name, ok := f.groups[gid]; ok {
		return name, nil
	}
	return "", errors.New("unknown group")
}

func (f fakeIdentities) CurrentUID() int {
	return f.uid
}

func testIdentities() fakeIdentities {
	return fakeIdentities{
		users: map[int]string{
			0:    "root",
			1000: "mu",
			1001: "dave",
			2000: "odd,name",
		},
		groups: map[int]string{
			0:   "root",
			100: "users",
			500: "webteam",
		},
		uid: 1000,
	}
}

type fakePrompter struct {
	password string
	err      error
	calls    int
	lastDN   string
}

func (p *fakePrompter) PromptCredential(dn string) (string, error) {
	p.calls++
	p.lastDN = dn
	return p.password, p.err
}

// testDirectory wires a Directory to conn and counts dials.
type testDirectory struct {
	*Directory
	mockConn *MockConn
	dials    atomic.Int32
}

func newTestDirectory(t *testing.T, conn *MockConn, opts ...Option) *testDirectory {
	t.Helper()

	td := &testDirectory{mockConn: conn}
	dial := func(_ context.Context, _ string, _ time.Duration) (Conn, error) {
		td.dials.Add(1)
		return conn, nil
	}

	base := []Option{
		WithDialer(dial),
		WithIdentities(testIdentities()),
		WithPrompter(nil),
		WithLogger(nil),
	}

	dir, err := NewDirectory(DefaultConfig(), append(base, opts...)...)
	require.NoError(t, err)
	td.Directory = dir
	return td
}

// expectDefaultBind sets up the unauthenticated bind made by the first
// option-less Connect.
func expectDefaultBind(conn *MockConn) {
	conn.On("UnauthenticatedBind", testSelfDN).Return(nil).Once()
}

func baseSearchFor(dn string) any {
	return mock.MatchedBy(func(req *ldap.SearchRequest) bool {
		return req.BaseDN == dn && req.Scope == ldap.ScopeBaseObject
	})
}

func searchResult(entries ...*ldap.Entry) *ldap.SearchResult {
	return &ldap.SearchResult{Entries: entries}
}
