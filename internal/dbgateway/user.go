package dbgateway

import "github.com/lobbyforge/lobby/internal/model"

func rowToUser(row []any) model.User {
	return model.User{
		ID:           toInt64(row[0]),
		Name:         toString(row[1]),
		PasswordHash: toString(row[2]),
		Status:       model.UserStatus(toString(row[3])),
		Role:         model.UserRole(toString(row[4])),
	}
}

// FindUserByName looks a user up by name only, used for the register
// existence check.
func (g *Gateway) FindUserByName(name string) (*model.User, error) {
	rows, err := g.exec(`SELECT id, name, passwordHash, status, role FROM User WHERE name = ? LIMIT 1`, []any{name})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	u := rowToUser(rows[0])
	return &u, nil
}

// FindUserByID looks a user up by id.
func (g *Gateway) FindUserByID(id int64) (*model.User, error) {
	rows, err := g.exec(`SELECT id, name, passwordHash, status, role FROM User WHERE id = ? LIMIT 1`, []any{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	u := rowToUser(rows[0])
	return &u, nil
}

// InsertUser creates a new user and returns its id.
func (g *Gateway) InsertUser(name, passwordHash string, role model.UserRole) (int64, error) {
	rows, err := g.exec(`INSERT INTO User (name, passwordHash, role) VALUES (?, ?, ?) RETURNING id`,
		[]any{name, passwordHash, string(role)})
	if err != nil {
		return 0, err
	}
	id, _ := firstRowFirstCol(rows)
	return id, nil
}

// UpdateUserStatus flips a user's online/offline status.
func (g *Gateway) UpdateUserStatus(id int64, status model.UserStatus) error {
	_, err := g.exec(`UPDATE User SET status = ? WHERE id = ?`, []any{string(status), id})
	return err
}

// UpdateUserPasswordHash replaces a user's stored password hash.
func (g *Gateway) UpdateUserPasswordHash(id int64, passwordHash string) error {
	_, err := g.exec(`UPDATE User SET passwordHash = ? WHERE id = ?`, []any{passwordHash, id})
	return err
}

// ListOnlineUsers lists users currently online, excluding developer
// accounts.
func (g *Gateway) ListOnlineUsers() ([]model.User, error) {
	rows, err := g.exec(`SELECT id, name, passwordHash, status, role FROM User WHERE status = 'online' AND role != 'developer'`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToUser(r))
	}
	return out, nil
}

// ListAllUsers lists every account regardless of status or role, for
// the admin observability dashboard's /users view.
func (g *Gateway) ListAllUsers() ([]model.User, error) {
	rows, err := g.exec(`SELECT id, name, passwordHash, status, role FROM User ORDER BY id`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToUser(r))
	}
	return out, nil
}
