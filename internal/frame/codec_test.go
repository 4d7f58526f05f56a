package frame

import (
	"net"
	"testing"
	"time"
)

func pipeConns(t *testing.T) (client, server *Conn) {
	t.Helper()
	a, b := net.Pipe()
	return New(a, "secret"), New(b, "secret")
}

func TestSendRecvStampsToken(t *testing.T) {
	client, server := pipeConns(t)
	defer client.Close()
	defer server.Close()

	done := make(chan error, 1)
	go func() {
		done <- client.Send(map[string]any{"op": "ping"})
	}()

	var got map[string]any
	if err := server.Recv(time.Second, &got); err != nil {
		t.Fatalf("recv: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("send: %v", err)
	}
	if got["op"] != "ping" {
		t.Fatalf("op = %v, want ping", got["op"])
	}
	if got["token"] != "secret" {
		t.Fatalf("token = %v, want secret", got["token"])
	}
}

func TestRecvTimeout(t *testing.T) {
	_, server := pipeConns(t)
	defer server.Close()

	_, err := server.RecvMap(50 * time.Millisecond)
	if err != ErrTimeout {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestRecvConnectionClosed(t *testing.T) {
	client, server := pipeConns(t)
	client.Close()

	_, err := server.RecvMap(time.Second)
	if err != ErrConnectionClosed {
		t.Fatalf("err = %v, want ErrConnectionClosed", err)
	}
}

func TestSendRawDoesNotStampToken(t *testing.T) {
	client, server := pipeConns(t)
	defer client.Close()
	defer server.Close()

	done := make(chan error, 1)
	go func() {
		done <- client.SendRaw(map[string]any{"status": "ok"})
	}()

	var got map[string]any
	if err := server.Recv(time.Second, &got); err != nil {
		t.Fatalf("recv: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, ok := got["token"]; ok {
		t.Fatalf("got token field on raw send: %v", got)
	}
}
