package lobby

import (
	"github.com/lobbyforge/lobby/internal/dispatch"
	"github.com/lobbyforge/lobby/internal/model"
)

// ListRooms handles `list_rooms`: public rooms only.
func ListRooms(ctx *dispatch.Context) (dispatch.Result, error) {
	rooms, err := ctx.DB.ListAllRooms()
	if err != nil {
		return dispatch.Result{}, err
	}
	out := make([]map[string]any, 0, len(rooms))
	for _, r := range rooms {
		if r.Visibility != model.VisibilityPublic {
			continue
		}
		out = append(out, map[string]any{
			"roomId":   r.ID,
			"name":     r.Name,
			"hostId":   r.HostUserID,
			"status":   r.Status,
			"gameId":   r.GameID,
			"gameName": r.GameName,
		})
	}
	return dispatch.Result{}, ctx.Reply(map[string]any{"rooms": out})
}

// ListOnlineUsers handles `list_online_users`: players only, developer
// accounts are excluded at the query level.
func ListOnlineUsers(ctx *dispatch.Context) (dispatch.Result, error) {
	users, err := ctx.DB.ListOnlineUsers()
	if err != nil {
		return dispatch.Result{}, err
	}
	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]any{"id": u.ID, "name": u.Name})
	}
	return dispatch.Result{}, ctx.Reply(map[string]any{"users": out})
}

// ListGames handles `list_games`: the catalogue summary view.
func ListGames(ctx *dispatch.Context) (dispatch.Result, error) {
	games, err := ctx.DB.ListAllGames()
	if err != nil {
		return dispatch.Result{}, err
	}
	out := make([]map[string]any, 0, len(games))
	for _, g := range games {
		out = append(out, map[string]any{"game_id": g.ID, "name": g.Name})
	}
	return dispatch.Result{}, ctx.Reply(map[string]any{"games": out})
}

// ShowGameData handles `show_game_data {game_id}`. Clients use this as
// their version-existence check, so a missing game is an error, not an
// empty result.
func ShowGameData(ctx *dispatch.Context) (dispatch.Result, error) {
	gameID, ok := ctx.IntField("game_id")
	if !ok {
		return dispatch.Result{}, ctx.ReplyError("game_id is required")
	}
	game, err := ctx.DB.GetGameByID(gameID)
	if err != nil {
		return dispatch.Result{}, err
	}
	if game == nil {
		return dispatch.Result{}, ctx.ReplyError("No such game")
	}
	playCount, err := ctx.DB.CountPlayed(gameID)
	if err != nil {
		return dispatch.Result{}, err
	}
	return dispatch.Result{}, ctx.Reply(map[string]any{
		"id":             game.ID,
		"name":           game.Name,
		"description":    game.Description,
		"owner_id":       game.OwnerID,
		"latest_version": game.LatestVersion,
		"play_count":     playCount,
		"min_players":    game.MinPlayers,
		"max_players":    game.MaxPlayers,
	})
}

// ShowComment handles `show_comment {game_id}`.
func ShowComment(ctx *dispatch.Context) (dispatch.Result, error) {
	gameID, ok := ctx.IntField("game_id")
	if !ok {
		return dispatch.Result{}, ctx.ReplyError("game_id is required")
	}
	comments, err := ctx.DB.GetCommentsByGameID(gameID)
	if err != nil {
		return dispatch.Result{}, err
	}
	out := make([]map[string]any, 0, len(comments))
	var total int
	for _, c := range comments {
		out = append(out, map[string]any{
			"id":        c.ID,
			"userName":  c.UserName,
			"content":   c.Content,
			"score":     c.Score,
			"timestamp": c.Timestamp,
		})
		total += c.Score
	}
	average := 0.0
	if len(comments) > 0 {
		average = float64(total) / float64(len(comments))
	}
	return dispatch.Result{}, ctx.Reply(map[string]any{
		"comments":      out,
		"average_score": average,
	})
}

// AddComment handles `add_comment {game_id, content, score}`.
func AddComment(ctx *dispatch.Context) (dispatch.Result, error) {
	gameID, ok := ctx.IntField("game_id")
	if !ok {
		return dispatch.Result{}, ctx.ReplyError("game_id is required")
	}
	content, _ := ctx.StringField("content")
	score, ok := ctx.IntField("score")
	if !ok || score < 1 || score > 5 {
		return dispatch.Result{}, ctx.ReplyError("Score must be an integer between 1 and 5")
	}

	game, err := ctx.DB.GetGameByID(gameID)
	if err != nil {
		return dispatch.Result{}, err
	}
	if game == nil {
		return dispatch.Result{}, ctx.ReplyError("No such game")
	}

	id, err := ctx.DB.InsertComment(gameID, ctx.UserID, content, int(score))
	if err != nil {
		return dispatch.Result{}, err
	}
	return dispatch.Result{}, ctx.Reply(map[string]any{"id": id})
}
