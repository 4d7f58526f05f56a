// Package developer is the Developer Service's core: account auth for
// publisher accounts and the upload/update/remove/list game-management
// ops.
package developer

import (
	"errors"

	"github.com/lobbyforge/lobby/internal/auth"
	"github.com/lobbyforge/lobby/internal/dispatch"
	"github.com/lobbyforge/lobby/internal/model"
	"github.com/lobbyforge/lobby/internal/session"
)

// Register handles `register {name, passwordHash}` for developer
// accounts, mirroring internal/lobby.Register but stamping
// model.RoleDeveloper and seeding the account's storage directory.
func Register(ctx *dispatch.Context) (dispatch.Result, error) {
	name, ok1 := ctx.StringField("name")
	clientHash, ok2 := ctx.StringField("passwordHash")
	if !ok1 || !ok2 || name == "" || clientHash == "" {
		return dispatch.Result{}, ctx.ReplyError("missing username or passwordHash")
	}

	existing, err := ctx.DB.FindUserByName(name)
	if err != nil {
		return dispatch.Result{}, err
	}
	if existing != nil {
		return dispatch.Result{}, ctx.ReplyError("User exists")
	}

	stored, err := auth.HashClientHash(clientHash)
	if err != nil {
		if auth.IsPasswordValidationError(err) {
			return dispatch.Result{}, ctx.ReplyError(err.Error())
		}
		return dispatch.Result{}, err
	}

	id, err := ctx.DB.InsertUser(name, stored, model.RoleDeveloper)
	if err != nil {
		return dispatch.Result{}, err
	}
	if err := ensureOwnerStorageDir(ctx, id); err != nil {
		return dispatch.Result{}, err
	}

	return dispatch.Result{}, ctx.Reply(map[string]any{"message": "Registered successfully"})
}

// Login handles `login {name, passwordHash}`. Accounts whose role
// isn't "developer" are rejected.
func Login(ctx *dispatch.Context) (dispatch.Result, error) {
	name, ok1 := ctx.StringField("name")
	clientHash, ok2 := ctx.StringField("passwordHash")
	if !ok1 || !ok2 || name == "" || clientHash == "" {
		return dispatch.Result{}, ctx.ReplyError("missing username or passwordHash")
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
	if u.Role != model.RoleDeveloper {
		return dispatch.Result{}, ctx.ReplyError("Not a developer account")
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
	if err := ctx.Reply(map[string]any{"message": "Welcome " + name}); err != nil {
		return dispatch.Result{}, err
	}
	return dispatch.Result{NewUserID: &userID}, nil
}

// Logout handles `logout`: tells the worker to disconnect, which runs
// the shared cascade (mark offline) for whichever service calls it.
func Logout(ctx *dispatch.Context) (dispatch.Result, error) {
	return dispatch.Result{Disconnect: true}, nil
}
