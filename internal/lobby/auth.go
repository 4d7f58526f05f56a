package lobby

import (
	"errors"

	"github.com/lobbyforge/lobby/internal/auth"
	"github.com/lobbyforge/lobby/internal/dispatch"
	"github.com/lobbyforge/lobby/internal/model"
	"github.com/lobbyforge/lobby/internal/session"
)

// Register handles `register {name, passwordHash}`. The existence
// check is by name alone, so two registrations for the same name never
// both succeed regardless of what hash either one submits.
func Register(ctx *dispatch.Context) (dispatch.Result, error) {
	name, ok1 := ctx.StringField("name")
	clientHash, ok2 := ctx.StringField("passwordHash")
	if !ok1 || !ok2 || name == "" || clientHash == "" {
		return dispatch.Result{}, ctx.ReplyError("name and passwordHash are required")
	}

	existing, err := ctx.DB.FindUserByName(name)
	if err != nil {
		return dispatch.Result{}, err
	}
	if existing != nil {
		return dispatch.Result{}, ctx.ReplyError("User already exists")
	}

	stored, err := auth.HashClientHash(clientHash)
	if err != nil {
		if auth.IsPasswordValidationError(err) {
			return dispatch.Result{}, ctx.ReplyError(err.Error())
		}
		return dispatch.Result{}, err
	}

	id, err := ctx.DB.InsertUser(name, stored, model.RolePlayer)
	if err != nil {
		return dispatch.Result{}, err
	}

	if err := ctx.Reply(map[string]any{"id": id}); err != nil {
		return dispatch.Result{}, err
	}
	return dispatch.Result{}, nil
}

// Login handles `login {name, passwordHash}`. The bcrypt comparison
// always runs once, against either the real stored hash or
// auth.FakeHashForTiming, so "no such user" and "wrong hash" cost the
// same amount of wall-clock time.
func Login(ctx *dispatch.Context) (dispatch.Result, error) {
	name, ok1 := ctx.StringField("name")
	clientHash, ok2 := ctx.StringField("passwordHash")
	if !ok1 || !ok2 || name == "" || clientHash == "" {
		return dispatch.Result{}, ctx.ReplyError("name and passwordHash are required")
	}

	u, err := ctx.DB.FindUserByName(name)
	if err != nil {
		return dispatch.Result{}, err
	}

	storedHash := auth.FakeHashForTiming
	found := u != nil
	if found {
		storedHash = u.PasswordHash
	}
	cmpErr := auth.CompareClientHash(storedHash, clientHash)
	if !found || cmpErr != nil {
		return dispatch.Result{}, ctx.ReplyError("Invalid credentials")
	}
	if u.Role != model.RolePlayer {
		return dispatch.Result{}, ctx.ReplyError("Invalid credentials")
	}

	if err := ctx.DB.UpdateUserStatus(u.ID, model.StatusOnline); err != nil {
		return dispatch.Result{}, err
	}
	if err := ctx.Sessions.Bind(u.ID, ctx.Conn); err != nil {
		if errors.Is(err, session.ErrAlreadyBound) {
			return dispatch.Result{}, ctx.ReplyError("User already logged in")
		}
		return dispatch.Result{}, err
	}

	userID := u.ID
	if err := ctx.Reply(map[string]any{"id": userID}); err != nil {
		return dispatch.Result{}, err
	}
	return dispatch.Result{NewUserID: &userID}, nil
}

// Logout handles `logout`. It just tells the worker to disconnect;
// Worker.cleanup runs RunUserLifecycleCascade for every disconnecting
// session, logout included, so the cascade lives in exactly one place.
func Logout(ctx *dispatch.Context) (dispatch.Result, error) {
	return dispatch.Result{Disconnect: true}, nil
}

// Back handles `back {userId}`: re-binds an existing user id to a
// fresh connection, used when a client returns from an external
// game-server process without a full relogin. Unauthenticated (the
// connection has no session yet), so it is registered authRequired =
// false even though it only makes sense for a user who already logged
// in once this process lifetime.
func Back(ctx *dispatch.Context) (dispatch.Result, error) {
	userID, ok := ctx.IntField("userId")
	if !ok {
		return dispatch.Result{}, ctx.ReplyError("userId is required")
	}

	u, err := ctx.DB.FindUserByID(userID)
	if err != nil {
		return dispatch.Result{}, err
	}
	if u == nil {
		return dispatch.Result{}, ctx.ReplyError("No such user")
	}

	if err := ctx.Sessions.Bind(userID, ctx.Conn); err != nil {
		if errors.Is(err, session.ErrAlreadyBound) {
			return dispatch.Result{}, ctx.ReplyError("User already connected")
		}
		return dispatch.Result{}, err
	}

	if err := ctx.Reply(map[string]any{"id": userID}); err != nil {
		return dispatch.Result{}, err
	}
	return dispatch.Result{NewUserID: &userID}, nil
}
