package netsrv

import (
	"bufio"
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"
)

func startTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:0"
	}
	s, err := Start(opts)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.Stop(ctx)
	})
	return s
}

func sendAndExpect(t *testing.T, conn net.Conn, send, want string) {
	t.Helper()
	if _, err := conn.Write([]byte(send)); err != nil {
		t.Fatalf("write error: %v", err)
	}
	buf := make([]byte, len(want))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := readFull(conn, buf); err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(buf) != want {
		t.Fatalf("got %q, want %q", buf, want)
	}
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func TestEndToEndPing(t *testing.T) {
	s := startTestServer(t, Options{})
	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.Close()

	sendAndExpect(t, conn, "*1\r\n$4\r\nPING\r\n", "+PONG\r\n")
}

func TestEndToEndSetGet(t *testing.T) {
	s := startTestServer(t, Options{})
	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.Close()

	sendAndExpect(t, conn,
		"*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n",
		"+OK\r\n")
	sendAndExpect(t, conn,
		"*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n",
		"$3\r\nbar\r\n")
}

func TestEndToEndGetMissingKeyIsNullBulk(t *testing.T) {
	s := startTestServer(t, Options{})
	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.Close()

	sendAndExpect(t, conn,
		"*2\r\n$3\r\nGET\r\n$6\r\nabsent\r\n",
		"$-1\r\n")
}

// TestEndToEndMalformedFrameKeepsConnectionOpen drives the spec's
// literal scenario-6 bytes: `*2\r\n$3\r\nGET\r\n` declares two
// elements but the buffer ends after one complete one. That's a hard
// parse error (LengthMismatchError, not ErrIncomplete -- the buffer
// isn't waiting on a child still arriving), so it gets a RESP Error
// reply, but the connection stays open for a subsequent PING.
func TestEndToEndMalformedFrameKeepsConnectionOpen(t *testing.T) {
	s := startTestServer(t, Options{})
	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("*2\r\n$3\r\nGET\r\n")); err != nil {
		t.Fatalf("write error: %v", err)
	}
	buf := make([]byte, 4096)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if n == 0 || buf[0] != '-' {
		t.Fatalf("got %q, want a RESP error reply", buf[:n])
	}

	sendAndExpect(t, conn, "*1\r\n$4\r\nPING\r\n", "+PONG\r\n")
}

func TestEndToEndMultipleCommandsOverOneConnection(t *testing.T) {
	s := startTestServer(t, Options{})
	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	conn.Write([]byte("*1\r\n$4\r\nPING\r\n*1\r\n$4\r\nPING\r\n"))

	for i := 0; i < 2; i++ {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read error: %v", err)
		}
		if line != "+PONG\r\n" {
			t.Fatalf("reply %d = %q, want +PONG\\r\\n", i, line)
		}
	}
}

func TestServerPersistsSnapshotOnStop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snap.json")

	s, err := Start(Options{Addr: "127.0.0.1:0", SnapshotPath: path})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	sendAndExpect(t, conn, "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n", "+OK\r\n")
	conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}

	restarted, err := Start(Options{Addr: "127.0.0.1:0", SnapshotPath: path})
	if err != nil {
		t.Fatalf("restart Start() error: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		restarted.Stop(ctx)
	}()

	conn2, err := net.Dial("tcp", restarted.Addr().String())
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn2.Close()
	sendAndExpect(t, conn2, "*2\r\n$3\r\nGET\r\n$1\r\nk\r\n", "$1\r\nv\r\n")
}
