package frame

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// SendFile stamps filename/filesize onto header, writes it as the
// opening JSON frame, then streams the file's raw bytes immediately
// after. The receiving side knows the byte count up front from the
// header and never needs its own length prefix for the body.
func (c *Conn) SendFile(filePath string, header map[string]any) error {
	fi, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("frame: stat %s: %w", filePath, err)
	}
	if header == nil {
		header = map[string]any{}
	}
	header["filename"] = filepath.Base(filePath)
	header["filesize"] = fi.Size()

	if err := c.Send(header); err != nil {
		return err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("frame: open %s: %w", filePath, err)
	}
	defer f.Close()

	if err := c.nc.SetWriteDeadline(time.Now().Add(DefaultWriteTimeout)); err != nil {
		return err
	}
	_, err = io.Copy(c.nc, f)
	return err
}

// RecvFile reads one header frame and, if it carries filename/filesize
// fields, streams the following raw bytes into saveDir/filename and
// returns the saved path. A header with no file fields is returned as a
// plain message with an empty path.
func (c *Conn) RecvFile(deadline time.Duration, saveDir string) (header map[string]any, savedPath string, err error) {
	header, err = c.RecvMap(deadline)
	if err != nil {
		return nil, "", err
	}

	filename, _ := header["filename"].(string)
	sizeF, hasSize := numericField(header, "filesize")
	if filename == "" || !hasSize {
		return header, "", nil
	}

	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("frame: mkdir %s: %w", saveDir, err)
	}
	savedPath = filepath.Join(saveDir, filepath.Base(filename))

	out, err := os.Create(savedPath)
	if err != nil {
		return nil, "", fmt.Errorf("frame: create %s: %w", savedPath, err)
	}
	defer out.Close()

	if deadline > 0 {
		if err := c.nc.SetReadDeadline(time.Now().Add(deadline)); err != nil {
			return nil, "", err
		}
	} else {
		if err := c.nc.SetReadDeadline(time.Time{}); err != nil {
			return nil, "", err
		}
	}

	if _, err := io.CopyN(out, c.nc, int64(sizeF)); err != nil {
		os.Remove(savedPath)
		return nil, "", classifyReadErr(err)
	}
	return header, savedPath, nil
}

func numericField(m map[string]any, key string) (int64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
