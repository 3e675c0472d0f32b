package ldap

import (
	"context"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// ConnectionConfig holds configuration for the directory connection.
type ConnectionConfig struct {
	URL          string        `default:"ldap://127.0.0.1:389"`           // Directory endpoint
	BaseDN       string        `default:"dc=netsoc,dc=tcd,dc=ie"`         // Organization naming context
	RootDN       string        `default:"cn=root,dc=netsoc,dc=tcd,dc=ie"` // DN used for uid 0 and "root"
	Timeout      time.Duration `default:"60s"`                            // Dial timeout
	SearchBuffer int           `default:"16"`                             // Buffered entries per async search
	LogLevel     string        `default:"warn"`                           // logrus level name
}

// Conn is the subset of a go-ldap connection the directory layer uses.
// *ldap.Conn satisfies it.
type Conn interface {
	Bind(username, password string) error
	UnauthenticatedBind(username string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	SearchAsync(ctx context.Context, req *ldap.SearchRequest, bufferSize int) ldap.Response
	Modify(req *ldap.ModifyRequest) error
	Close() error
}

// Dialer opens a connection to the directory endpoint.
type Dialer func(ctx context.Context, url string, timeout time.Duration) (Conn, error)

// CredentialPrompter obtains a bind credential for dn when none was supplied.
type CredentialPrompter interface {
	PromptCredential(dn string) (string, error)
}

// IdentityTable is the local system user and group database.
// Lookups must not depend on the directory.
type IdentityTable interface {
	UserName(uid int) (string, error)
	GroupName(gid int) (string, error)
	CurrentUID() int
}
