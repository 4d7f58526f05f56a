package dbgateway

import "github.com/lobbyforge/lobby/internal/model"

// InsertRequest records a join request for a public room and returns
// its id.
func (g *Gateway) InsertRequest(roomID, fromID, toID int64) (int64, error) {
	rows, err := g.exec(`INSERT INTO request_join_list (roomId, fromId, toId) VALUES (?, ?, ?) RETURNING id`,
		[]any{roomID, fromID, toID})
	if err != nil {
		return 0, err
	}
	id, _ := firstRowFirstCol(rows)
	return id, nil
}

// GetRequestByID fetches a join request, optionally scoped to the
// recipient so a user cannot act on a request not addressed to them.
func (g *Gateway) GetRequestByID(requestID int64, toUserID *int64) (*model.JoinRequest, error) {
	sql := `SELECT id, roomId, fromId, toId FROM request_join_list WHERE id = ?`
	params := []any{requestID}
	if toUserID != nil {
		sql += ` AND toId = ?`
		params = append(params, *toUserID)
	}
	rows, err := g.exec(sql, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &model.JoinRequest{ID: toInt64(r[0]), RoomID: toInt64(r[1]), FromID: toInt64(r[2]), ToID: toInt64(r[3])}, nil
}

// ListRequests lists join requests addressed to a user (the room host),
// enriched with the requester's name.
func (g *Gateway) ListRequests(userID int64) ([]model.JoinRequest, error) {
	sql := `SELECT R.roomId, U.id, U.name, R.id FROM request_join_list R JOIN User U ON R.fromId = U.id WHERE R.toId = ?`
	rows, err := g.exec(sql, []any{userID})
	if err != nil {
		return nil, err
	}
	out := make([]model.JoinRequest, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.JoinRequest{
			RoomID:   toInt64(r[0]),
			FromID:   toInt64(r[1]),
			FromName: toString(r[2]),
			ID:       toInt64(r[3]),
		})
	}
	return out, nil
}

// RemoveRequestByID removes one join request.
func (g *Gateway) RemoveRequestByID(requestID int64) error {
	_, err := g.exec(`DELETE FROM request_join_list WHERE id = ? RETURNING id`, []any{requestID})
	return err
}

// RemoveRequestByFromID removes every join request sent by a user.
func (g *Gateway) RemoveRequestByFromID(userID int64) error {
	_, err := g.exec(`DELETE FROM request_join_list WHERE fromId = ? RETURNING id`, []any{userID})
	return err
}

// RemoveRequestByToID removes every join request addressed to a user,
// used during the user-lifecycle cascade.
func (g *Gateway) RemoveRequestByToID(userID int64) error {
	_, err := g.exec(`DELETE FROM request_join_list WHERE toId = ? RETURNING id`, []any{userID})
	return err
}
