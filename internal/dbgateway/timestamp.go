package dbgateway

import "time"

// sqliteTimestampLayouts covers the formats SQLite's CURRENT_TIMESTAMP
// default and driver round-trip through as TEXT.
var sqliteTimestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
}

func parseSQLiteTimestamp(s string) time.Time {
	for _, layout := range sqliteTimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
