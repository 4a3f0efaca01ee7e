package query

import (
	"fmt"
	"strings"
)

// Keywords that have no business in a console query. Tokens, not substrings,
// so a column called "update_reason" passes.
var forbiddenKeywords = map[string]struct{}{
	"insert": {}, "update": {}, "delete": {}, "merge": {}, "upsert": {},
	"drop": {}, "alter": {}, "create": {}, "truncate": {}, "rename": {},
	"grant": {}, "revoke": {}, "copy": {}, "vacuum": {}, "analyze": {}, "reindex": {},
	"begin": {}, "commit": {}, "rollback": {}, "savepoint": {},
	"set": {}, "reset": {}, "do": {}, "call": {}, "execute": {}, "prepare": {},
	"listen": {}, "notify": {}, "lock": {},
}

// ValidateReadOnly enforces the console's guard: exactly one statement, a
// SELECT (or WITH … SELECT), no write/DDL/transaction keywords anywhere, and
// no system catalogs unless the caller is an admin.
func ValidateReadOnly(sql string, admin bool) error {
	trimmed := strings.TrimSpace(sql)
	trimmed = strings.TrimSuffix(trimmed, ";")
	if strings.TrimSpace(trimmed) == "" {
		return ErrEmptyQuery
	}
	if strings.Contains(trimmed, ";") {
		return ErrMultipleStatements
	}

	tokens := tokenize(trimmed)
	if len(tokens) == 0 {
		return ErrEmptyQuery
	}
	if tokens[0] != "select" && tokens[0] != "with" {
		return ErrNotSelect
	}

	for _, tok := range tokens {
		if _, bad := forbiddenKeywords[tok]; bad {
			return fmt.Errorf("%w: %s", ErrForbiddenKeyword, strings.ToUpper(tok))
		}
		if !admin && isSystemCatalog(tok) {
			return fmt.Errorf("%w: %s", ErrSystemCatalog, tok)
		}
	}
	return nil
}

func isSystemCatalog(token string) bool {
	return strings.HasPrefix(token, "pg_") || token == "information_schema"
}

// tokenize lowercases and splits on anything that can't be part of an SQL
// identifier. Dots separate so schema-qualified names check per part.
func tokenize(sql string) []string {
	return strings.FieldsFunc(strings.ToLower(sql), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return false
		}
		return true
	})
}
