package dbserver

import (
	"database/sql"
	"strings"
)

// looksLikeQuery decides whether sql should go through db.Query (which
// returns rows) rather than db.Exec. RETURNING clauses on an otherwise
// mutating statement (INSERT ... RETURNING id) also return rows, so the
// check isn't just the leading keyword.
func looksLikeQuery(s string) bool {
	trimmed := strings.TrimSpace(s)
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "SELECT") {
		return true
	}
	return strings.Contains(upper, "RETURNING")
}

// scanRows converts *sql.Rows into the [][]any shape dbproto.Response
// carries: one slice per row, column values in select-list order.
func scanRows(rows *sql.Rows) ([][]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out [][]any
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		// []byte values (TEXT columns via the sqlite3 driver) must be
		// converted to string so the JSON round trip to the Gateway
		// doesn't base64-encode them into something the caller's typed
		// helpers never expect.
		for i, v := range raw {
			if b, ok := v.([]byte); ok {
				raw[i] = string(b)
			}
		}
		out = append(out, raw)
	}
	return out, rows.Err()
}
