package sqldb

import (
	"strconv"
	"strings"
)

var PlaceholderPrefixForDBType = map[string]byte{
	"mysql": '?',
	"pgsql": '$',
}

// ReplaceStaticPlaceholders numbers every `?` for dialects like pgsql ($1, $2, ...).
// `??` is left untouched; `?` inside single-quoted literals too.
func ReplaceStaticPlaceholders(sql string, prefix byte) string {
	if prefix == '?' || prefix == 0 {
		return sql
	}
	var builder strings.Builder
	builder.Grow(len(sql) + 8)
	cnt := 1
	inLiteral := false
	i := 0
	for i < len(sql) {
		ch := sql[i]
		switch {
		case ch == '\'':
			inLiteral = !inLiteral
			builder.WriteByte(ch)
		case ch == '?' && !inLiteral:
			if i+1 < len(sql) && sql[i+1] == '?' {
				builder.WriteString("??")
				i += 2
				continue
			}
			builder.WriteByte(prefix)
			builder.WriteString(strconv.Itoa(cnt))
			cnt++
		default:
			builder.WriteByte(ch)
		}
		i++
	}
	return builder.String()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern matching s anywhere, lower-cased.
// Backslash is the default LIKE escape of both dialects.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
