package dbgateway

// RecordPlayed marks that a user has played a game, idempotently, so the
// Match Controller can call it once per participant on every clean
// match exit without violating the played table's composite primary
// key. Nothing lobby-facing writes this table; only match completion
// does.
func (g *Gateway) RecordPlayed(gameID, userID int64) error {
	_, err := g.exec(`INSERT OR IGNORE INTO played (gameId, userId) VALUES (?, ?)`, []any{gameID, userID})
	return err
}

// CountPlayed returns the number of distinct users who have completed a
// match for a game, surfaced as show_game_data's play_count field.
func (g *Gateway) CountPlayed(gameID int64) (int, error) {
	rows, err := g.exec(`SELECT COUNT(*) AS c FROM played WHERE gameId = ?`, []any{gameID})
	if err != nil {
		return 0, err
	}
	n, _ := firstRowFirstCol(rows)
	return int(n), nil
}
