package lobby

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lobbyforge/lobby/internal/dispatch"
)

// downloadManifest lists the paths staged into a download_game zip,
// relative to a version's storage directory. The server/ tree never
// reaches a downloading player.
var downloadManifest = []string{"client", "config.json", "pyproject.toml", "uv.lock"}

// DownloadGame handles `download_game {game_name}`: zips the
// dependency manifest and client code for a game's latest version and
// streams it back as a file-carrying frame with op "download_game".
func DownloadGame(ctx *dispatch.Context) (dispatch.Result, error) {
	gameName, ok := ctx.StringField("game_name")
	if !ok || gameName == "" {
		return dispatch.Result{}, ctx.ReplyError("game_name is required")
	}

	game, err := ctx.DB.GetGameByName(gameName)
	if err != nil {
		return dispatch.Result{}, err
	}
	if game == nil {
		return dispatch.Result{}, ctx.ReplyError("No such game")
	}

	versionDir := filepath.Join(ctx.StorageDir, strconv.FormatInt(game.OwnerID, 10), game.Name, game.LatestVersion)
	if _, err := os.Stat(versionDir); err != nil {
		return dispatch.Result{}, ctx.ReplyError("Game files missing on server")
	}

	zipPath := filepath.Join(ctx.TempDir, fmt.Sprintf("download-%s-%d.zip", game.Name, ctx.UserID))
	if err := zipManifest(versionDir, downloadManifest, zipPath); err != nil {
		return dispatch.Result{}, fmt.Errorf("stage download zip: %w", err)
	}
	defer os.Remove(zipPath)

	return dispatch.Result{}, ctx.ReplyFile(zipPath, map[string]any{
		"game_name": game.Name,
		"version":   game.LatestVersion,
	})
}

// zipManifest writes a zip at destPath containing each manifest entry
// found under srcDir (files included verbatim, directories walked
// recursively). Missing optional entries (e.g. no pyproject.toml) are
// skipped rather than treated as an error.
func zipManifest(srcDir string, manifest []string, destPath string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	for _, entry := range manifest {
		full := filepath.Join(srcDir, entry)
		info, err := os.Stat(full)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := addDirToZip(zw, full, entry); err != nil {
				return err
			}
			continue
		}
		if err := addFileToZip(zw, full, entry); err != nil {
			return err
		}
	}
	return nil
}

func addDirToZip(zw *zip.Writer, fullDir, archiveBase string) error {
	return filepath.Walk(fullDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(fullDir, path)
		if err != nil {
			return err
		}
		return addFileToZip(zw, path, filepath.ToSlash(filepath.Join(archiveBase, rel)))
	})
}

func addFileToZip(zw *zip.Writer, fullPath, archivePath string) error {
	f, err := os.Open(fullPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(filepath.ToSlash(archivePath))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
