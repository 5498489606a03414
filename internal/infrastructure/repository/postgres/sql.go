package postgres

import (
	"database/sql"
	"strings"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern neutralizes LIKE metacharacters in caller-supplied text
// so it matches literally. Queries binding the result must carry ESCAPE '\'.
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}
