// Package model holds the platform's shared entity types: User, Room,
// Game, GameVersion, Invite, JoinRequest, and Comment.
package model

import "time"

type UserRole string

const (
	RolePlayer    UserRole = "player"
	RoleDeveloper UserRole = "developer"
)

type UserStatus string

const (
	StatusOnline  UserStatus = "online"
	StatusOffline UserStatus = "offline"
)

type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Status       UserStatus `json:"status"`
	Role         UserRole   `json:"role"`
}

type RoomVisibility string

const (
	VisibilityPublic  RoomVisibility = "public"
	VisibilityPrivate RoomVisibility = "private"
)

type RoomStatus string

const (
	RoomIdle    RoomStatus = "idle"
	RoomPlaying RoomStatus = "playing"
)

type Room struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	HostUserID int64          `json:"hostUserId"`
	Visibility RoomVisibility `json:"visibility"`
	Status     RoomStatus     `json:"status"`
	GameID     int64          `json:"gameId"`
	GameName   string         `json:"gameName,omitempty"`
}

type Game struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	OwnerID       int64  `json:"ownerId"`
	LatestVersion string `json:"latestVersion"`
	MinPlayers    int    `json:"minPlayers"`
	MaxPlayers    int    `json:"maxPlayers"`
}

type GameVersion struct {
	ID            int64     `json:"id"`
	GameID        int64     `json:"gameId"`
	VersionNumber string    `json:"versionNumber"`
	Command       string    `json:"command"`
	UploadDate    time.Time `json:"uploadDate"`
}

type Invite struct {
	ID       int64  `json:"id"`
	RoomID   int64  `json:"roomId"`
	FromID   int64  `json:"fromId"`
	ToID     int64  `json:"toId"`
	FromName string `json:"fromName,omitempty"`
	RoomName string `json:"roomName,omitempty"`
	GameID   int64  `json:"gameId,omitempty"`
	GameName string `json:"gameName,omitempty"`
}

type JoinRequest struct {
	ID       int64  `json:"id"`
	RoomID   int64  `json:"roomId"`
	FromID   int64  `json:"fromId"`
	FromName string `json:"fromName,omitempty"`
	ToID     int64  `json:"toId"`
}

type Comment struct {
	ID        int64     `json:"id"`
	GameID    int64     `json:"gameId"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Content   string    `json:"content"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}
