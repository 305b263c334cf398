/*
file: respkv/internal/netsrv/conn.go
*/
package netsrv

import (
	"bufio"
	"errors"
	"io"
	"net"
	"time"

	"github.com/go-respkv/respkv/internal/command"
	"github.com/go-respkv/respkv/internal/logging"
	"github.com/go-respkv/respkv/internal/resp"
)

// readChunkSize is how much unread socket data conn.run tries to pull
// in per read ready event, matching a generous single-frame command.
const readChunkSize = 4096

// conn owns one client connection for its entire lifetime: the
// stream, the accumulating read buffer, and an idle deadline. It runs
// the Idle -> Reading -> Dispatch -> Responding state machine,
// generalizing the teacher's per-connection goroutine in
// cmd/main.go's handleOneConnection.
type conn struct {
	netConn     net.Conn
	ctx         *command.Context
	log         *logging.Logger
	idleTimeout time.Duration
	buf         []byte
	id          int
}

func newConn(id int, nc net.Conn, cmdCtx *command.Context, log *logging.Logger, idleTimeout time.Duration) *conn {
	return &conn{
		netConn:     nc,
		ctx:         cmdCtx,
		log:         log,
		idleTimeout: idleTimeout,
		id:          id,
	}
}

// run drives the state machine until the client disconnects, a
// stream-level error occurs, or the idle timer fires; a malformed
// frame gets a RESP Error reply and the connection carries on. It
// never returns an error to its caller: every termination reason is
// logged here, the way the teacher's handleOneConnection logs and
// simply returns.
func (c *conn) run() {
	defer c.netConn.Close()
	c.log.Info("[%d] accepted connection from %s", c.id, c.netConn.RemoteAddr())

	w := bufio.NewWriter(c.netConn)
	chunk := make([]byte, readChunkSize)

	for {
		value, ok := c.nextFrame(w, chunk)
		if !ok {
			break
		}

		reply := command.Dispatch(c.ctx, value)
		w.Write(resp.Serialize(reply))
		if err := w.Flush(); err != nil {
			c.log.Warn("[%d] write error: %v", c.id, err)
			break
		}
	}

	c.log.Info("[%d] connection closed: %s", c.id, c.netConn.RemoteAddr())
}

// nextFrame reads (Idle/Reading) until a complete command frame is
// buffered, or reports ok=false when the connection should terminate.
// A hard parse error is reported to the client as a RESP Error and
// the malformed bytes are discarded, but the connection itself stays
// open for the next frame -- only a stream-level error (EOF, read
// error, idle timeout, write failure) ends the task.
func (c *conn) nextFrame(w *bufio.Writer, chunk []byte) (resp.Value, bool) {
	for {
		v, consumed, err := resp.Deserialize(c.buf)
		switch {
		case err == nil:
			c.buf = c.buf[consumed:]
			return v, true
		case errors.Is(err, resp.ErrIncomplete), errors.Is(err, resp.ErrEmptyInput):
			// fall through to reading more bytes
		default:
			w.Write(resp.Serialize(resp.NewError("ERR Protocol error: " + err.Error())))
			if ferr := w.Flush(); ferr != nil {
				c.log.Warn("[%d] write error: %v", c.id, ferr)
				return resp.Value{}, false
			}
			// The malformed frame's true byte length is unknown (that's
			// exactly what failed to parse), so the only safe recovery
			// is to drop everything buffered and resynchronize on
			// whatever the client sends next.
			c.buf = c.buf[:0]
			continue
		}

		if err := c.netConn.SetReadDeadline(time.Now().Add(c.idleTimeout)); err != nil {
			return resp.Value{}, false
		}
		n, err := c.netConn.Read(chunk)
		if n > 0 {
			c.buf = append(c.buf, chunk[:n]...)
		}
		if err != nil {
			if n == 0 && (errors.Is(err, io.EOF) || isTimeout(err)) {
				return resp.Value{}, false
			}
			if n == 0 {
				c.log.Warn("[%d] read error: %v", c.id, err)
				return resp.Value{}, false
			}
		}
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
