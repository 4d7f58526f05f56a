package developer

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lobbyforge/lobby/internal/dbgateway"
	"github.com/lobbyforge/lobby/internal/dispatch"
)

// gameConfig models the required fields of a package's config.json:
// name, version, description, command.
type gameConfig struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Command     string `json:"command"`
}

// UploadGame handles `upload_game`, a file-carrying request whose body
// is a zip containing client/, server/, and config.json at its root (or
// one level down, if the uploader zipped a containing folder).
func UploadGame(ctx *dispatch.Context) (dispatch.Result, error) {
	if ctx.FilePath == "" {
		return dispatch.Result{}, ctx.ReplyError("No file")
	}

	extractDir, targetRoot, err := extractZip(ctx.FilePath, ctx.TempDir)
	if err != nil {
		return dispatch.Result{}, ctx.ReplyError(err.Error())
	}
	defer os.RemoveAll(extractDir)

	if err := checkFolderStructure(targetRoot); err != nil {
		return dispatch.Result{}, ctx.ReplyError(err.Error())
	}
	cfg, err := readGameConfig(targetRoot)
	if err != nil {
		return dispatch.Result{}, ctx.ReplyError(err.Error())
	}

	existing, err := ctx.DB.GetGameByName(cfg.Name)
	if err != nil {
		return dispatch.Result{}, err
	}
	if existing != nil {
		return dispatch.Result{}, ctx.ReplyError("Game exists.")
	}

	gameID, err := ctx.DB.InsertGame(cfg.Name, cfg.Description, ctx.UserID, cfg.Version, 0, 0)
	if err != nil {
		return dispatch.Result{}, err
	}
	if _, err := ctx.DB.InsertGameVersion(gameID, cfg.Version, cfg.Command); err != nil {
		return dispatch.Result{}, err
	}

	destPath := versionDir(ctx, ctx.UserID, cfg.Name, cfg.Version)
	if err := replaceDir(targetRoot, destPath); err != nil {
		return dispatch.Result{}, err
	}

	return dispatch.Result{}, ctx.Reply(map[string]any{
		"message": fmt.Sprintf("Uploaded %s v%s", cfg.Name, cfg.Version),
	})
}

// UpdateGame handles `update_game`: uploads a new version of a game the
// caller already owns, without touching its existing versions.
func UpdateGame(ctx *dispatch.Context) (dispatch.Result, error) {
	if ctx.FilePath == "" {
		return dispatch.Result{}, ctx.ReplyError("No file")
	}

	extractDir, targetRoot, err := extractZip(ctx.FilePath, ctx.TempDir)
	if err != nil {
		return dispatch.Result{}, ctx.ReplyError(err.Error())
	}
	defer os.RemoveAll(extractDir)

	if err := checkFolderStructure(targetRoot); err != nil {
		return dispatch.Result{}, ctx.ReplyError(err.Error())
	}
	cfg, err := readGameConfig(targetRoot)
	if err != nil {
		return dispatch.Result{}, ctx.ReplyError(err.Error())
	}

	game, err := ctx.DB.GetGameByName(cfg.Name)
	if err != nil {
		return dispatch.Result{}, err
	}
	if game == nil {
		return dispatch.Result{}, ctx.ReplyError("Game not found.")
	}
	if game.OwnerID != ctx.UserID {
		return dispatch.Result{}, ctx.ReplyError("Not the owner.")
	}
	existingVersion, err := ctx.DB.GetVersionByGameIDAndVersion(game.ID, cfg.Version)
	if err != nil {
		return dispatch.Result{}, err
	}
	if existingVersion != nil {
		return dispatch.Result{}, ctx.ReplyError("Version exists.")
	}

	latest := cfg.Version
	if err := ctx.DB.UpdateGame(game.ID, dbgateway.GameUpdate{LatestVersion: &latest}); err != nil {
		return dispatch.Result{}, err
	}
	if _, err := ctx.DB.InsertGameVersion(game.ID, cfg.Version, cfg.Command); err != nil {
		return dispatch.Result{}, err
	}

	destPath := versionDir(ctx, ctx.UserID, cfg.Name, cfg.Version)
	if err := replaceDir(targetRoot, destPath); err != nil {
		return dispatch.Result{}, err
	}

	return dispatch.Result{}, ctx.Reply(map[string]any{
		"message": fmt.Sprintf("Updated %s v%s", cfg.Name, cfg.Version),
	})
}

// RemoveGame handles `remove_game {game_name, version}`. When version
// is omitted the whole game and every version it has is deleted;
// otherwise only that version is removed, promoting the next-newest
// version to latest if the removed one was it.
func RemoveGame(ctx *dispatch.Context) (dispatch.Result, error) {
	gameName, ok := ctx.StringField("game_name")
	if !ok || gameName == "" {
		return dispatch.Result{}, ctx.ReplyError("Missing game_name")
	}
	versionToRemove, _ := ctx.StringField("version")

	game, err := ctx.DB.GetGameByName(gameName)
	if err != nil {
		return dispatch.Result{}, err
	}
	if game == nil {
		return dispatch.Result{}, ctx.ReplyError("Game not found.")
	}
	if game.OwnerID != ctx.UserID {
		return dispatch.Result{}, ctx.ReplyError("Not the owner.")
	}

	if versionToRemove == "" {
		if err := ctx.DB.DeleteAllVersionsByGameID(game.ID); err != nil {
			return dispatch.Result{}, err
		}
		if err := ctx.DB.DeleteGameByID(game.ID); err != nil {
			return dispatch.Result{}, err
		}
		os.RemoveAll(gameRootDir(ctx, ctx.UserID, gameName))
		return dispatch.Result{}, ctx.Reply(map[string]any{
			"message": fmt.Sprintf("Game '%s' and all versions deleted.", gameName),
		})
	}

	target, err := ctx.DB.GetVersionByGameIDAndVersion(game.ID, versionToRemove)
	if err != nil {
		return dispatch.Result{}, err
	}
	if target == nil {
		return dispatch.Result{}, ctx.ReplyError("Version not found.")
	}
	if err := ctx.DB.DeleteGameVersionByID(target.ID); err != nil {
		return dispatch.Result{}, err
	}
	os.RemoveAll(versionDir(ctx, ctx.UserID, gameName, versionToRemove))

	remaining, err := ctx.DB.GetOrderedVersionsByGameID(game.ID)
	if err != nil {
		return dispatch.Result{}, err
	}

	if len(remaining) == 0 {
		if err := ctx.DB.DeleteGameByID(game.ID); err != nil {
			return dispatch.Result{}, err
		}
		os.RemoveAll(gameRootDir(ctx, ctx.UserID, gameName))
		return dispatch.Result{}, ctx.Reply(map[string]any{
			"message": fmt.Sprintf("Removed version %s. No versions left, game deleted.", versionToRemove),
		})
	}

	if versionToRemove == game.LatestVersion {
		newLatest := remaining[0].VersionNumber
		if err := ctx.DB.UpdateGame(game.ID, dbgateway.GameUpdate{LatestVersion: &newLatest}); err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.Result{}, ctx.Reply(map[string]any{
			"message": fmt.Sprintf("Removed %s. Promoted %s to latest.", versionToRemove, newLatest),
		})
	}

	return dispatch.Result{}, ctx.Reply(map[string]any{
		"message": fmt.Sprintf("Removed version %s.", versionToRemove),
	})
}

// ListGames handles `list_games`: every game the caller owns.
func ListGames(ctx *dispatch.Context) (dispatch.Result, error) {
	games, err := ctx.DB.GetAllGamesByOwnerID(ctx.UserID)
	if err != nil {
		return dispatch.Result{}, err
	}
	out := make([]map[string]any, 0, len(games))
	for _, g := range games {
		out = append(out, map[string]any{
			"id":            g.ID,
			"name":          g.Name,
			"description":   g.Description,
			"ownerId":       g.OwnerID,
			"latestVersion": g.LatestVersion,
		})
	}
	return dispatch.Result{}, ctx.Reply(map[string]any{"data": out})
}

// ListVersions handles `list_versions {game_name}`.
func ListVersions(ctx *dispatch.Context) (dispatch.Result, error) {
	gameName, ok := ctx.StringField("game_name")
	if !ok || gameName == "" {
		return dispatch.Result{}, ctx.ReplyError("Missing game_name")
	}
	game, err := ctx.DB.GetGameByName(gameName)
	if err != nil {
		return dispatch.Result{}, err
	}
	if game == nil {
		return dispatch.Result{}, ctx.ReplyError("Game not found")
	}
	versions, err := ctx.DB.GetVersionsByGameID(game.ID)
	if err != nil {
		return dispatch.Result{}, err
	}
	return dispatch.Result{}, ctx.Reply(map[string]any{
		"versions": versions,
		"message":  fmt.Sprintf("Found %d versions", len(versions)),
	})
}

func versionDir(ctx *dispatch.Context, ownerID int64, gameName, version string) string {
	return filepath.Join(ctx.StorageDir, strconv.FormatInt(ownerID, 10), gameName, version)
}

func gameRootDir(ctx *dispatch.Context, ownerID int64, gameName string) string {
	return filepath.Join(ctx.StorageDir, strconv.FormatInt(ownerID, 10), gameName)
}

func ensureOwnerStorageDir(ctx *dispatch.Context, ownerID int64) error {
	return os.MkdirAll(filepath.Join(ctx.StorageDir, strconv.FormatInt(ownerID, 10)), 0o755)
}

// extractZip unpacks zipPath into a fresh directory under tempRoot and
// returns (extractDir, targetRoot): extractDir is the whole scratch
// directory to remove when done, targetRoot is the folder actually
// containing config.json — one level down from extractDir if the
// uploader zipped a single containing folder rather than its contents.
func extractZip(zipPath, tempRoot string) (extractDir, targetRoot string, err error) {
	extractDir, err = os.MkdirTemp(tempRoot, "upload-*")
	if err != nil {
		return "", "", err
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		os.RemoveAll(extractDir)
		return "", "", fmt.Errorf("File Error: Invalid zip archive.")
	}
	defer r.Close()

	for _, f := range r.File {
		if err := extractZipEntry(f, extractDir); err != nil {
			os.RemoveAll(extractDir)
			return "", "", err
		}
	}

	targetRoot = extractDir
	if _, err := os.Stat(filepath.Join(extractDir, "config.json")); os.IsNotExist(err) {
		entries, err := os.ReadDir(extractDir)
		if err != nil {
			os.RemoveAll(extractDir)
			return "", "", err
		}
		var valid []os.DirEntry
		for _, e := range entries {
			if !strings.HasPrefix(e.Name(), "__") {
				valid = append(valid, e)
			}
		}
		if len(valid) == 1 && valid[0].IsDir() {
			targetRoot = filepath.Join(extractDir, valid[0].Name())
		}
	}
	return extractDir, targetRoot, nil
}

func extractZipEntry(f *zip.File, destRoot string) error {
	destPath := filepath.Join(destRoot, f.Name)
	if !strings.HasPrefix(destPath, filepath.Clean(destRoot)+string(os.PathSeparator)) && destPath != filepath.Clean(destRoot) {
		return fmt.Errorf("File Error: zip entry escapes archive root: %s", f.Name)
	}
	if f.FileInfo().IsDir() {
		return os.MkdirAll(destPath, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, rc)
	return err
}

// checkFolderStructure validates the uploaded package's hierarchy:
// client/client_main.py and server/server_main.py must both exist under
// root. The check is independent of config.json's "command" field;
// it guards against a completely empty package, not against whatever
// entry point name the game actually invokes.
func checkFolderStructure(root string) error {
	clientMain := filepath.Join(root, "client", "client_main.py")
	serverMain := filepath.Join(root, "server", "server_main.py")
	if fi, err := os.Stat(clientMain); err != nil || fi.IsDir() {
		return fmt.Errorf("Structure Error: 'client/client_main.py' missing.")
	}
	if fi, err := os.Stat(serverMain); err != nil || fi.IsDir() {
		return fmt.Errorf("Structure Error: 'server/server_main.py' missing.")
	}
	return nil
}

// readGameConfig loads and validates root/config.json.
func readGameConfig(root string) (gameConfig, error) {
	data, err := os.ReadFile(filepath.Join(root, "config.json"))
	if err != nil {
		return gameConfig{}, fmt.Errorf("Config Error: 'config.json' missing from root.")
	}
	var cfg gameConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return gameConfig{}, fmt.Errorf("Config Error: 'config.json' is not valid JSON.")
	}
	var missing []string
	if cfg.Name == "" {
		missing = append(missing, "name")
	}
	if cfg.Version == "" {
		missing = append(missing, "version")
	}
	if cfg.Description == "" {
		missing = append(missing, "description")
	}
	if cfg.Command == "" {
		missing = append(missing, "command")
	}
	if len(missing) > 0 {
		return gameConfig{}, fmt.Errorf("Config Error: Missing required fields: %s", strings.Join(missing, ","))
	}
	return cfg, nil
}

// replaceDir moves src to dest, clearing out any stale directory
// already at dest first.
func replaceDir(src, dest string) error {
	if err := os.RemoveAll(dest); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.Rename(src, dest)
}
