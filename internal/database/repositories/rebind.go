package repositories

import (
	"strconv"
	"strings"
)

// rebind converts ? placeholders into the $n form postgres expects. Queries
// are written with ? so they run unchanged against sqlite.
func rebind(driver, query string) string {
	if driver != "postgres" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

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
