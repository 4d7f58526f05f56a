package dbgateway

import "github.com/lobbyforge/lobby/internal/model"

// InsertComment adds a user's rated comment on a game.
func (g *Gateway) InsertComment(gameID, userID int64, content string, score int) (int64, error) {
	rows, err := g.exec(`INSERT INTO comment (gameId, userId, content, score) VALUES (?, ?, ?, ?) RETURNING id`,
		[]any{gameID, userID, content, score})
	if err != nil {
		return 0, err
	}
	id, _ := firstRowFirstCol(rows)
	return id, nil
}

// GetCommentsByGameID lists a game's comments newest-first, joined with
// the commenting user's name.
func (g *Gateway) GetCommentsByGameID(gameID int64) ([]model.Comment, error) {
	sql := `
		SELECT C.id, U.name, C.content, C.score, C.timestamp
		FROM comment C
		JOIN User U ON C.userId = U.id
		WHERE C.gameId = ?
		ORDER BY C.timestamp DESC
	`
	rows, err := g.exec(sql, []any{gameID})
	if err != nil {
		return nil, err
	}
	out := make([]model.Comment, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Comment{
			ID:        toInt64(r[0]),
			GameID:    gameID,
			UserName:  toString(r[1]),
			Content:   toString(r[2]),
			Score:     int(toInt64(r[3])),
			Timestamp: parseSQLiteTimestamp(toString(r[4])),
		})
	}
	return out, nil
}
