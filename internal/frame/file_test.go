package frame

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSendFileRoundTrip(t *testing.T) {
	client, server := pipeConns(t)
	defer client.Close()
	defer server.Close()

	src := filepath.Join(t.TempDir(), "bundle.zip")
	content := bytes.Repeat([]byte("lobbyforge"), 1000)
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		done <- client.SendFile(src, map[string]any{"op": "download_game", "status": "ok"})
	}()

	saveDir := t.TempDir()
	header, savedPath, err := server.RecvFile(2*time.Second, saveDir)
	if err != nil {
		t.Fatalf("recv file: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("send file: %v", err)
	}

	if header["op"] != "download_game" {
		t.Errorf("header op = %v", header["op"])
	}
	if header["filename"] != "bundle.zip" {
		t.Errorf("header filename = %v", header["filename"])
	}
	if size, _ := numericField(header, "filesize"); size != int64(len(content)) {
		t.Errorf("header filesize = %d, want %d", size, len(content))
	}
	if filepath.Base(savedPath) != "bundle.zip" {
		t.Errorf("saved path = %q", savedPath)
	}
	got, err := os.ReadFile(savedPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("file content mismatch: %d bytes vs %d", len(got), len(content))
	}
}

func TestRecvFilePlainMessage(t *testing.T) {
	client, server := pipeConns(t)
	defer client.Close()
	defer server.Close()

	go func() { _ = client.Send(map[string]any{"op": "list_rooms"}) }()

	header, savedPath, err := server.RecvFile(time.Second, t.TempDir())
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if savedPath != "" {
		t.Fatalf("savedPath = %q for a frame with no file body", savedPath)
	}
	if header["op"] != "list_rooms" {
		t.Errorf("header op = %v", header["op"])
	}
}

func TestRecvFilePeerClosedMidBody(t *testing.T) {
	client, server := pipeConns(t)
	defer server.Close()

	go func() {
		// Header promises 100 bytes but the peer hangs up after 10.
		_ = client.Send(map[string]any{"op": "upload_game", "filename": "g.zip", "filesize": 100})
		raw := client.Raw()
		_, _ = raw.Write(bytes.Repeat([]byte("x"), 10))
		_ = client.Close()
	}()

	_, _, err := server.RecvFile(time.Second, t.TempDir())
	if err != ErrConnectionClosed {
		t.Fatalf("err = %v, want ErrConnectionClosed", err)
	}
}
