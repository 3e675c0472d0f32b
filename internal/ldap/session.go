package ldap

import (
	"fmt"
	"time"
)

// sessionStartMonth is when the next society session begins, leaving a
// month or two for the changeover before term.
const sessionStartMonth = time.August

// CurrentSession returns the session label for now, e.g. "2008-2009".
func CurrentSession(now time.Time) string {
	now = now.UTC()
	year := now.Year()
	if now.Month() >= sessionStartMonth {
		year++
	}
	return fmt.Sprintf("%4d-%4d", year-1, year)
}
