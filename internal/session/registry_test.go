package session

import (
	"net"
	"testing"
	"time"

	"github.com/lobbyforge/lobby/internal/frame"
)

func boundRegistry(t *testing.T, userID int64) (*Registry, *frame.Conn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { a.Close(); b.Close() })
	r := NewRegistry()
	if err := r.Bind(userID, frame.New(a, "t")); err != nil {
		t.Fatalf("bind: %v", err)
	}
	return r, frame.New(b, "t")
}

func TestBindRejectsSecondSession(t *testing.T) {
	r, _ := boundRegistry(t, 1)
	a, _ := net.Pipe()
	defer a.Close()
	if err := r.Bind(1, frame.New(a, "t")); err != ErrAlreadyBound {
		t.Fatalf("second bind err = %v, want ErrAlreadyBound", err)
	}
}

func TestSendAsyncToUnboundUserIsDropped(t *testing.T) {
	r := NewRegistry()
	if err := r.SendAsync(42, map[string]any{"op": "receive_invite"}); err != nil {
		t.Fatalf("send to unbound user: %v", err)
	}
}

func TestWithSessionUnbound(t *testing.T) {
	r := NewRegistry()
	err := r.WithSession(42, func(conn *frame.Conn) error { return nil })
	if err != ErrNotBound {
		t.Fatalf("err = %v, want ErrNotBound", err)
	}
}

func TestSendAsyncDeliversInOrder(t *testing.T) {
	r, peer := boundRegistry(t, 7)

	const n = 25
	go func() {
		for i := 0; i < n; i++ {
			_ = r.SendAsync(7, map[string]any{"seq": i})
		}
	}()

	for i := 0; i < n; i++ {
		m, err := peer.RecvMap(time.Second)
		if err != nil {
			t.Fatalf("recv %d: %v", i, err)
		}
		if got := int(m["seq"].(float64)); got != i {
			t.Fatalf("message %d carried seq %d", i, got)
		}
	}
}

// Concurrent senders to one user must not interleave frame bytes: every
// frame the peer reads decodes cleanly with all its fields intact.
func TestConcurrentSendersKeepFramesIntact(t *testing.T) {
	r, peer := boundRegistry(t, 7)

	const senders, perSender = 4, 10
	for s := 0; s < senders; s++ {
		go func(s int) {
			for i := 0; i < perSender; i++ {
				_ = r.SendAsync(7, map[string]any{"sender": s, "seq": i, "pad": "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"})
			}
		}(s)
	}

	lastSeq := map[int]int{}
	for i := 0; i < senders*perSender; i++ {
		m, err := peer.RecvMap(2 * time.Second)
		if err != nil {
			t.Fatalf("recv %d: %v", i, err)
		}
		s := int(m["sender"].(float64))
		seq := int(m["seq"].(float64))
		if last, ok := lastSeq[s]; ok && seq != last+1 {
			t.Fatalf("sender %d: seq %d followed %d, want FIFO per caller", s, seq, last)
		} else if !ok && seq != 0 {
			t.Fatalf("sender %d: first observed seq %d, want 0", s, seq)
		}
		lastSeq[s] = seq
	}
}

func TestUnbindWaitsForInflightSend(t *testing.T) {
	r, _ := boundRegistry(t, 1)

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = r.WithSession(1, func(conn *frame.Conn) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	done := make(chan struct{})
	go func() {
		r.Unbind(1)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Unbind returned while a send was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Unbind never returned after the send drained")
	}
	if r.IsBound(1) {
		t.Fatal("user still bound after Unbind")
	}
}

func TestSendAfterUnbindIsDropped(t *testing.T) {
	r, _ := boundRegistry(t, 1)
	r.Unbind(1)
	if err := r.SendAsync(1, map[string]any{"op": "start"}); err != nil {
		t.Fatalf("send after unbind: %v", err)
	}
}
