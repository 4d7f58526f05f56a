package match

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

func marshalCompact(v any) ([]byte, error) {
	return json.Marshal(v)
}

// buildCommand splits a GameVersion's Command string (e.g. "python3
// server_main.py") the way a shell would and builds an *exec.Cmd rooted
// at dir, the game's uploaded server/ folder.
func buildCommand(ctx context.Context, command, dir string) (*exec.Cmd, error) {
	fields := splitShellWords(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Dir = dir
	return cmd, nil
}

// splitShellWords is a minimal whitespace/quote-aware tokenizer for the
// developer-supplied launch command, sufficient for the simple
// "<interpreter> <entrypoint> [args...]" commands config.json declares.
func splitShellWords(s string) []string {
	var out []string
	var cur strings.Builder
	inQuote := byte(0)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inQuote != 0:
			if ch == inQuote {
				inQuote = 0
			} else {
				cur.WriteByte(ch)
			}
		case ch == '\'' || ch == '"':
			inQuote = ch
		case ch == ' ' || ch == '\t':
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(ch)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
