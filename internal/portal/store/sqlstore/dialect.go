package sqlstore

import (
	"strconv"
	"strings"
)

// Dialect captures what differs between the SQL engines we run on.
// Queries are written once with "?" placeholders.
type Dialect struct {
	Name string

	// Numbered rewrites "?" placeholders as $1, $2, ... (postgres).
	Numbered bool

	// IsUniqueViolation reports whether err is the engine's unique
	// constraint error.
	IsUniqueViolation func(err error) bool
}

// Rebind rewrites query for the dialect's placeholder style.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
