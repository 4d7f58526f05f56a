package dbgateway

import "github.com/lobbyforge/lobby/internal/model"

// ListAllRooms lists every room joined with its game's name.
func (g *Gateway) ListAllRooms() ([]model.Room, error) {
	rows, err := g.exec(`SELECT R.id, R.name, R.hostUserId, R.visibility, R.status, R.gameId, G.name FROM Room R JOIN Game G ON R.gameId = G.id`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.Room, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Room{
			ID:         toInt64(r[0]),
			Name:       toString(r[1]),
			HostUserID: toInt64(r[2]),
			Visibility: model.RoomVisibility(toString(r[3])),
			Status:     model.RoomStatus(toString(r[4])),
			GameID:     toInt64(r[5]),
			GameName:   toString(r[6]),
		})
	}
	return out, nil
}

// CreateRoom inserts a room and seats its host as one gateway call:
// insert Room, then insert the host's in_room row.
func (g *Gateway) CreateRoom(name string, hostUserID int64, visibility model.RoomVisibility, status model.RoomStatus, gameID int64) (int64, error) {
	rows, err := g.exec(`INSERT INTO Room (name, hostUserId, visibility, status, gameId) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		[]any{name, hostUserID, string(visibility), string(status), gameID})
	if err != nil {
		return 0, err
	}
	roomID, ok := firstRowFirstCol(rows)
	if !ok {
		return 0, &DBError{Message: "create room: no id returned"}
	}
	if _, err := g.exec(`INSERT INTO in_room (roomId, userId) VALUES (?, ?)`, []any{roomID, hostUserID}); err != nil {
		return 0, err
	}
	return roomID, nil
}

// CheckUserInRoom returns the room id a user currently occupies, if any.
func (g *Gateway) CheckUserInRoom(userID int64) (int64, bool, error) {
	rows, err := g.exec(`SELECT roomId FROM in_room WHERE userId = ?`, []any{userID})
	if err != nil {
		return 0, false, err
	}
	roomID, ok := firstRowFirstCol(rows)
	return roomID, ok, nil
}

// LeaveRoom removes a user's in_room membership and returns the room id
// they left, if they were seated anywhere.
func (g *Gateway) LeaveRoom(userID int64) (int64, bool, error) {
	rows, err := g.exec(`DELETE FROM in_room WHERE userId = ? RETURNING roomId`, []any{userID})
	if err != nil {
		return 0, false, err
	}
	roomID, ok := firstRowFirstCol(rows)
	return roomID, ok, nil
}

// ListUsersInRoom lists a room's seated members.
func (g *Gateway) ListUsersInRoom(roomID int64) ([]model.User, error) {
	rows, err := g.exec(`SELECT U.id, U.name FROM in_room I JOIN User U ON I.userId = U.id WHERE I.roomId = ?`, []any{roomID})
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.User{ID: toInt64(r[0]), Name: toString(r[1])})
	}
	return out, nil
}

// DeleteRoom removes a room by id, deleting the invites and join
// requests that reference it first.
func (g *Gateway) DeleteRoom(roomID int64) error {
	if _, err := g.exec(`DELETE FROM invite_list WHERE roomId = ?`, []any{roomID}); err != nil {
		return err
	}
	if _, err := g.exec(`DELETE FROM request_join_list WHERE roomId = ?`, []any{roomID}); err != nil {
		return err
	}
	_, err := g.exec(`DELETE FROM Room WHERE id = ? RETURNING id`, []any{roomID})
	return err
}

// DeleteRoomByHostID removes every room a user hosts, cascading their
// in_room, invite_list and request_join_list rows first since this
// schema declares foreign keys without ON DELETE CASCADE.
func (g *Gateway) DeleteRoomByHostID(hostUserID int64) error {
	for _, table := range []string{"in_room", "invite_list", "request_join_list"} {
		if _, err := g.exec(`DELETE FROM `+table+` WHERE roomId IN (SELECT id FROM Room WHERE hostUserId = ?)`, []any{hostUserID}); err != nil {
			return err
		}
	}
	_, err := g.exec(`DELETE FROM Room WHERE hostUserId = ?`, []any{hostUserID})
	return err
}

// GetRoomByID fetches a room, optionally filtered by visibility.
func (g *Gateway) GetRoomByID(roomID int64, visibility *model.RoomVisibility) (*model.Room, error) {
	sql := `SELECT id, name, hostUserId, visibility, status, gameId FROM Room WHERE id = ?`
	params := []any{roomID}
	if visibility != nil {
		sql += ` AND visibility = ?`
		params = append(params, string(*visibility))
	}
	rows, err := g.exec(sql, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &model.Room{
		ID:         toInt64(r[0]),
		Name:       toString(r[1]),
		HostUserID: toInt64(r[2]),
		Visibility: model.RoomVisibility(toString(r[3])),
		Status:     model.RoomStatus(toString(r[4])),
		GameID:     toInt64(r[5]),
	}, nil
}

// RoomUpdate carries the optional fields UpdateRoom may change.
type RoomUpdate struct {
	Name       *string
	HostUserID *int64
	Visibility *model.RoomVisibility
	Status     *model.RoomStatus
	GameID     *int64
}

// UpdateRoom applies a sparse set of field updates to a room.
func (g *Gateway) UpdateRoom(roomID int64, upd RoomUpdate) error {
	var fields []string
	var params []any
	if upd.Name != nil {
		fields = append(fields, "name = ?")
		params = append(params, *upd.Name)
	}
	if upd.HostUserID != nil {
		fields = append(fields, "hostUserId = ?")
		params = append(params, *upd.HostUserID)
	}
	if upd.Visibility != nil {
		fields = append(fields, "visibility = ?")
		params = append(params, string(*upd.Visibility))
	}
	if upd.Status != nil {
		fields = append(fields, "status = ?")
		params = append(params, string(*upd.Status))
	}
	if upd.GameID != nil {
		fields = append(fields, "gameId = ?")
		params = append(params, *upd.GameID)
	}
	if len(fields) == 0 {
		return nil
	}
	sql := "UPDATE Room SET "
	for i, f := range fields {
		if i > 0 {
			sql += ", "
		}
		sql += f
	}
	sql += " WHERE id = ?"
	params = append(params, roomID)
	_, err := g.exec(sql, params)
	return err
}

// AddUserToRoom seats a user in a room.
func (g *Gateway) AddUserToRoom(roomID, userID int64) error {
	_, err := g.exec(`INSERT INTO in_room (roomId, userId) VALUES (?, ?)`, []any{roomID, userID})
	return err
}
