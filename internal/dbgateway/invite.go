package dbgateway

import "github.com/lobbyforge/lobby/internal/model"

// AddInvite records a room invite and returns its id.
func (g *Gateway) AddInvite(roomID, fromID, toID int64) (int64, error) {
	rows, err := g.exec(`INSERT INTO invite_list (roomId, fromId, toId) VALUES (?, ?, ?) RETURNING id`,
		[]any{roomID, fromID, toID})
	if err != nil {
		return 0, err
	}
	id, _ := firstRowFirstCol(rows)
	return id, nil
}

// GetInviteByID fetches one invite.
func (g *Gateway) GetInviteByID(inviteID int64) (*model.Invite, error) {
	rows, err := g.exec(`SELECT id, roomId, fromId, toId FROM invite_list WHERE id = ?`, []any{inviteID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &model.Invite{ID: toInt64(r[0]), RoomID: toInt64(r[1]), FromID: toInt64(r[2]), ToID: toInt64(r[3])}, nil
}

// ListInvites lists pending invites addressed to a user, enriched with
// the sender's name and the target room/game names.
func (g *Gateway) ListInvites(userID int64) ([]model.Invite, error) {
	sql := `
		SELECT I.id, I.roomId, I.fromId, U.name, R.name, R.gameId, G.name
		FROM invite_list I
		JOIN User U ON I.fromId = U.id
		JOIN Room R ON I.roomId = R.id
		JOIN Game G ON R.gameId = G.id
		WHERE I.toId = ?
	`
	rows, err := g.exec(sql, []any{userID})
	if err != nil {
		return nil, err
	}
	out := make([]model.Invite, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Invite{
			ID:       toInt64(r[0]),
			RoomID:   toInt64(r[1]),
			FromID:   toInt64(r[2]),
			FromName: toString(r[3]),
			RoomName: toString(r[4]),
			GameID:   toInt64(r[5]),
			GameName: toString(r[6]),
		})
	}
	return out, nil
}

// RemoveInviteByID removes one invite.
func (g *Gateway) RemoveInviteByID(inviteID int64) error {
	_, err := g.exec(`DELETE FROM invite_list WHERE id = ? RETURNING id`, []any{inviteID})
	return err
}

// RemoveInviteByToID removes every invite addressed to a user, used
// during the user-lifecycle cascade.
func (g *Gateway) RemoveInviteByToID(userID int64) error {
	_, err := g.exec(`DELETE FROM invite_list WHERE toId = ? RETURNING id`, []any{userID})
	return err
}

// RemoveInviteByFromID removes every invite sent by a user.
func (g *Gateway) RemoveInviteByFromID(userID int64) error {
	_, err := g.exec(`DELETE FROM invite_list WHERE fromId = ? RETURNING id`, []any{userID})
	return err
}
