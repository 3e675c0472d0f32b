package ldap

import (
	"context"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

const matchAllFilter = "(objectClass=*)"

// Search streams entries of kind matching filter from the kind's subtree.
//
// Results arrive from an asynchronous search and are yielded as they come;
// every entry already carries its attributes. Each range over the returned
// sequence issues a fresh search. Breaking out of the loop cancels the
// outstanding request.
func (d *Directory) Search(ctx context.Context, kind Kind, filter string, attrs ...string) iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		if _, err := kind.spec(); err != nil {
			yield(nil, err)
			return
		}
		if filter == "" {
			filter = matchAllFilter
		}

		conn, err := d.Connect(ctx)
		if err != nil {
			yield(nil, err)
			return
		}

		baseDN := kind.BaseDN(d.config.BaseDN)
		fields := map[string]any{
			"kind":       kind.String(),
			"base_dn":    baseDN,
			"filter":     filter,
			"attributes": attrs,
		}
		d.logger.Debug("Starting search operation", fields)

		searchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		req := ldap.NewSearchRequest(
			baseDN,
			ldap.ScopeWholeSubtree,
			ldap.NeverDerefAliases,
			0, 0, false,
			filter,
			attrs,
			nil,
		)

		found := 0
		resp := conn.SearchAsync(searchCtx, req, d.config.SearchBuffer)
		for resp.Next() {
			result := resp.Entry()
			if result == nil {
				// referral or trailing controls
				continue
			}
			found++
			if !yield(newLoadedEntry(d, kind, result, attrs), nil) {
				fields["entries_found"] = found
				d.logger.Trace("Search stopped by caller", fields)
				return
			}
		}

		fields["entries_found"] = found
		if err := resp.Err(); err != nil {
			LogLDAPError(d.logger, "search", err, fields)
			yield(nil, NewLDAPError("search", baseDN, err))
			return
		}

		d.logger.Debug("Search operation completed successfully", fields)
	}
}

// SearchBy streams entries whose attributes contain the given values.
// Underscores in attribute names become hyphens, so
// {"tcdnetsoc_membership_year": "2009"} matches tcdnetsoc-membership-year.
func (d *Directory) SearchBy(ctx context.Context, kind Kind, filters map[string]string) iter.Seq2[*Entry, error] {
	return d.Search(ctx, kind, SubstringFilter(filters))
}

// All streams every entry in the kind's subtree.
func (d *Directory) All(ctx context.Context, kind Kind) iter.Seq2[*Entry, error] {
	return d.Search(ctx, kind, matchAllFilter)
}

// SubstringFilter builds (&(attr=*value*)...) with attributes in sorted order.
// Values are filter-escaped; an empty map matches everything.
func SubstringFilter(filters map[string]string) string {
	if len(filters) == 0 {
		return matchAllFilter
	}

	var b strings.Builder
	b.WriteString("(&")
	for _, name := range slices.Sorted(maps.Keys(filters)) {
		b.WriteString("(")
		b.WriteString(strings.ReplaceAll(name, "_", "-"))
		b.WriteString("=*")
		b.WriteString(ldap.EscapeFilter(filters[name]))
		b.WriteString("*)")
	}
	b.WriteString(")")
	return b.String()
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[*Entry, error]) ([]*Entry, error) {
	var entries []*Entry
	for entry, err := range seq {
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
