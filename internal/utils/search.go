package utils

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so user input matches literally.
// Queries built with it must carry an ESCAPE '\' clause.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
