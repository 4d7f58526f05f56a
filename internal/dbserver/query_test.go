package dbserver

import "testing"

func TestLooksLikeQuery(t *testing.T) {
	cases := []struct {
		sql  string
		want bool
	}{
		{"SELECT * FROM User", true},
		{"  select id from Room", true},
		{"INSERT INTO User (name) VALUES (?) RETURNING id", true},
		{"UPDATE User SET status = ?", false},
		{"DELETE FROM Room WHERE id = ?", false},
	}
	for _, tc := range cases {
		if got := looksLikeQuery(tc.sql); got != tc.want {
			t.Errorf("looksLikeQuery(%q) = %v, want %v", tc.sql, got, tc.want)
		}
	}
}
