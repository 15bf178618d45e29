// ABOUTME: SQL helpers for request log queries.
// ABOUTME: Escapes user-supplied path prefixes before they reach a LIKE pattern.

package store

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeSQLLike escapes the LIKE wildcards % and _ and the escape character
// itself, for use with ESCAPE '\'.
func escapeSQLLike(pattern string) string {
	return likeEscaper.Replace(pattern)
}
