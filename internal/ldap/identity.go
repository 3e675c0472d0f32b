package ldap

import (
	"os"
	"os/user"
	"strconv"
)

// SystemIdentities reads the host's passwd and group databases.
type SystemIdentities struct{}

// UserName returns the login name for uid.
func (SystemIdentities) UserName(uid int) (string, error) {
	u, err := user.LookupId(strconv.Itoa(uid))
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// GroupName returns the group name for gid.
func (SystemIdentities) GroupName(gid int) (string, error) {
	g, err := user.LookupGroupId(strconv.Itoa(gid))
	if err != nil {
		return "", err
	}
	return g.Name, nil
}

// CurrentUID returns the real uid of the running process.
func (SystemIdentities) CurrentUID() int {
	return os.Getuid()
}
