// Package frame implements the platform's wire protocol: a 4-byte
// big-endian length prefix followed by a UTF-8 JSON payload, optionally
// followed by a raw file body. Every frame sent by this platform carries
// a shared-secret "token" field stamped from process configuration.
package frame

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

const (
	// DefaultWriteTimeout bounds how long a single frame write may block.
	DefaultWriteTimeout = 10 * time.Second
	maxFrameLen         = 64 << 20 // 64 MiB guards against a corrupt length prefix.
)

// Conn wraps a net.Conn with length-prefixed JSON framing and automatic
// token stamping on every outbound message.
type Conn struct {
	nc    net.Conn
	token string
}

// New wraps nc for framed JSON I/O. token is stamped onto every outbound
// message's "token" field, matching the shared-secret handshake every
// service on this platform expects.
func New(nc net.Conn, token string) *Conn {
	return &Conn{nc: nc, token: token}
}

// Raw returns the underlying net.Conn for address inspection or Close.
func (c *Conn) Raw() net.Conn { return c.nc }

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.nc.Close() }

// Send marshals v to JSON, stamps the connection's token onto it, and
// writes it as one length-prefixed frame. v must marshal to a JSON
// object (struct or map[string]any) since the token is merged in as a
// sibling field.
func (c *Conn) Send(v any) error {
	payload, err := stampToken(v, c.token)
	if err != nil {
		return fmt.Errorf("frame: encode: %w", err)
	}
	if err := c.nc.SetWriteDeadline(time.Now().Add(DefaultWriteTimeout)); err != nil {
		return err
	}
	return writeFrame(c.nc, payload)
}

// SendRaw writes v as a frame without token stamping, so the payload
// goes out exactly as v marshals.
func (c *Conn) SendRaw(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("frame: encode: %w", err)
	}
	if err := c.nc.SetWriteDeadline(time.Now().Add(DefaultWriteTimeout)); err != nil {
		return err
	}
	return writeFrame(c.nc, payload)
}

// Recv reads one frame and unmarshals it into out. A zero deadline
// blocks indefinitely; a positive deadline surfaces ErrTimeout once
// elapsed without a complete frame, and ErrConnectionClosed if the peer
// closes the socket mid-read.
func (c *Conn) Recv(deadline time.Duration, out any) error {
	data, err := c.recvRaw(deadline)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("frame: decode: %w", err)
	}
	return nil
}

// RecvMap reads one frame as a generic JSON object, letting callers
// inspect a discriminator field (e.g. an opcode) before deciding which
// concrete type to re-decode into.
func (c *Conn) RecvMap(deadline time.Duration) (map[string]any, error) {
	data, err := c.recvRaw(deadline)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("frame: decode: %w", err)
	}
	return m, nil
}

func (c *Conn) recvRaw(deadline time.Duration) ([]byte, error) {
	if deadline > 0 {
		if err := c.nc.SetReadDeadline(time.Now().Add(deadline)); err != nil {
			return nil, classifyReadErr(err)
		}
	} else {
		if err := c.nc.SetReadDeadline(time.Time{}); err != nil {
			return nil, classifyReadErr(err)
		}
	}
	return readFrame(c.nc)
}

func stampToken(v any, token string) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("stamp token: payload is not a JSON object: %w", err)
	}
	m["token"] = token
	return json.Marshal(m)
}

func writeFrame(w io.Writer, data []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, classifyReadErr(err)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameLen {
		return nil, fmt.Errorf("frame: length prefix %d exceeds max frame size", n)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, classifyReadErr(err)
	}
	return data, nil
}

func classifyReadErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
		return ErrConnectionClosed
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}
	return err
}
