package dbgateway

import "github.com/lobbyforge/lobby/internal/model"

const gameColumns = `id, name, description, OwnerId, LatestVersion, min_players, max_players`

func rowToGame(r []any) model.Game {
	return model.Game{
		ID:            toInt64(r[0]),
		Name:          toString(r[1]),
		Description:   toString(r[2]),
		OwnerID:       toInt64(r[3]),
		LatestVersion: toString(r[4]),
		MinPlayers:    int(toInt64(r[5])),
		MaxPlayers:    int(toInt64(r[6])),
	}
}

// ListAllGames lists every published game's id and name, matching the
// browse-catalogue summary view.
func (g *Gateway) ListAllGames() ([]model.Game, error) {
	rows, err := g.exec(`SELECT id, name FROM Game`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.Game, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Game{ID: toInt64(r[0]), Name: toString(r[1])})
	}
	return out, nil
}

// ListAllGamesFull lists every game with its full record, for the admin
// observability dashboard's /games view (the lobby-facing ListAllGames
// only needs id+name for browsing).
func (g *Gateway) ListAllGamesFull() ([]model.Game, error) {
	rows, err := g.exec(`SELECT `+gameColumns+` FROM Game ORDER BY id`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.Game, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToGame(r))
	}
	return out, nil
}

// GetGameByName fetches a game's full record by its unique name.
func (g *Gateway) GetGameByName(name string) (*model.Game, error) {
	rows, err := g.exec(`SELECT `+gameColumns+` FROM Game WHERE name = ? LIMIT 1`, []any{name})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	game := rowToGame(rows[0])
	return &game, nil
}

// GetGameByID fetches a game's full record by id.
func (g *Gateway) GetGameByID(gameID int64) (*model.Game, error) {
	rows, err := g.exec(`SELECT `+gameColumns+` FROM Game WHERE id = ? LIMIT 1`, []any{gameID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	game := rowToGame(rows[0])
	return &game, nil
}

// InsertGame creates a new game entry and returns its id. MinPlayers
// and MaxPlayers default to 2 at the schema level when both are zero.
func (g *Gateway) InsertGame(name, description string, ownerID int64, latestVersion string, minPlayers, maxPlayers int) (int64, error) {
	if minPlayers <= 0 && maxPlayers <= 0 {
		rows, err := g.exec(`INSERT INTO Game (name, description, OwnerId, LatestVersion) VALUES (?, ?, ?, ?) RETURNING id`,
			[]any{name, description, ownerID, latestVersion})
		if err != nil {
			return 0, err
		}
		id, _ := firstRowFirstCol(rows)
		return id, nil
	}
	rows, err := g.exec(`INSERT INTO Game (name, description, OwnerId, LatestVersion, min_players, max_players) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		[]any{name, description, ownerID, latestVersion, minPlayers, maxPlayers})
	if err != nil {
		return 0, err
	}
	id, _ := firstRowFirstCol(rows)
	return id, nil
}

// GameUpdate carries the optional fields UpdateGame may change.
type GameUpdate struct {
	LatestVersion *string
	Description   *string
	MinPlayers    *int
	MaxPlayers    *int
}

// UpdateGame applies a sparse set of field updates to a game.
func (g *Gateway) UpdateGame(gameID int64, upd GameUpdate) error {
	var fields []string
	var params []any
	if upd.LatestVersion != nil {
		fields = append(fields, "LatestVersion = ?")
		params = append(params, *upd.LatestVersion)
	}
	if upd.Description != nil {
		fields = append(fields, "description = ?")
		params = append(params, *upd.Description)
	}
	if upd.MinPlayers != nil {
		fields = append(fields, "min_players = ?")
		params = append(params, *upd.MinPlayers)
	}
	if upd.MaxPlayers != nil {
		fields = append(fields, "max_players = ?")
		params = append(params, *upd.MaxPlayers)
	}
	if len(fields) == 0 {
		return nil
	}
	sql := "UPDATE Game SET "
	for i, f := range fields {
		if i > 0 {
			sql += ", "
		}
		sql += f
	}
	sql += " WHERE id = ?"
	params = append(params, gameID)
	_, err := g.exec(sql, params)
	return err
}

// DeleteGameByID removes a game.
func (g *Gateway) DeleteGameByID(gameID int64) error {
	_, err := g.exec(`DELETE FROM Game WHERE id = ? RETURNING id`, []any{gameID})
	return err
}

// GetAllGamesByOwnerID lists every game a developer owns.
func (g *Gateway) GetAllGamesByOwnerID(ownerID int64) ([]model.Game, error) {
	rows, err := g.exec(`SELECT `+gameColumns+` FROM Game WHERE OwnerId = ?`, []any{ownerID})
	if err != nil {
		return nil, err
	}
	out := make([]model.Game, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToGame(r))
	}
	return out, nil
}

// InsertGameVersion records a new uploaded version and returns its id.
func (g *Gateway) InsertGameVersion(gameID int64, version, command string) (int64, error) {
	rows, err := g.exec(`INSERT INTO GameVersion (gameId, VersionNumber, Command) VALUES (?, ?, ?) RETURNING id`,
		[]any{gameID, version, command})
	if err != nil {
		return 0, err
	}
	id, _ := firstRowFirstCol(rows)
	return id, nil
}

// GetVersionByGameIDAndVersion fetches one version record.
func (g *Gateway) GetVersionByGameIDAndVersion(gameID int64, version string) (*model.GameVersion, error) {
	rows, err := g.exec(`SELECT id, gameId, VersionNumber, Command, UploadDate FROM GameVersion WHERE gameId = ? AND VersionNumber = ? LIMIT 1`,
		[]any{gameID, version})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToVersion(rows[0]), nil
}

// DeleteGameVersionByID removes a specific uploaded version.
func (g *Gateway) DeleteGameVersionByID(versionID int64) error {
	_, err := g.exec(`DELETE FROM GameVersion WHERE id = ? RETURNING id`, []any{versionID})
	return err
}

// GetOrderedVersionsByGameID lists a game's versions newest-first, used
// to pick the promotion candidate after the latest version is deleted.
func (g *Gateway) GetOrderedVersionsByGameID(gameID int64) ([]model.GameVersion, error) {
	rows, err := g.exec(`SELECT id, gameId, VersionNumber, Command, UploadDate FROM GameVersion WHERE gameId = ? ORDER BY UploadDate DESC`,
		[]any{gameID})
	if err != nil {
		return nil, err
	}
	out := make([]model.GameVersion, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToVersion(r))
	}
	return out, nil
}

// DeleteAllVersionsByGameID removes every version of a game, used when
// the game itself is deleted.
func (g *Gateway) DeleteAllVersionsByGameID(gameID int64) error {
	_, err := g.exec(`DELETE FROM GameVersion WHERE gameId = ? RETURNING id`, []any{gameID})
	return err
}

// GetVersionsByGameID lists just the version numbers of a game.
func (g *Gateway) GetVersionsByGameID(gameID int64) ([]string, error) {
	rows, err := g.exec(`SELECT VersionNumber FROM GameVersion WHERE gameId = ?`, []any{gameID})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return out, nil
}

func rowToVersion(r []any) *model.GameVersion {
	return &model.GameVersion{
		ID:            toInt64(r[0]),
		GameID:        toInt64(r[1]),
		VersionNumber: toString(r[2]),
		Command:       toString(r[3]),
		UploadDate:    parseSQLiteTimestamp(toString(r[4])),
	}
}
