/*
file: respkv/internal/netsrv/server.go
*/
package netsrv

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-respkv/respkv/internal/command"
	"github.com/go-respkv/respkv/internal/configstore"
	"github.com/go-respkv/respkv/internal/logging"
	"github.com/go-respkv/respkv/internal/store"
)

// Options configures a Server. It mirrors the slice of the teacher's
// Config that this narrower server actually needs: bind address,
// shard count, snapshot path/interval, and idle timeout.
type Options struct {
	Addr             string
	ShardCount       int
	SnapshotPath     string
	SnapshotInterval time.Duration
	IdleTimeout      time.Duration
	ShutdownGrace    time.Duration
}

func (o Options) withDefaults() Options {
	if o.ShardCount <= 0 {
		o.ShardCount = 16
	}
	if o.SnapshotInterval <= 0 {
		o.SnapshotInterval = 5 * time.Second
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = time.Second
	}
	if o.ShutdownGrace <= 0 {
		o.ShutdownGrace = 5 * time.Second
	}
	return o
}

// Server is the running instance: the listener, the keyspace, the
// config store, the snapshot loop, and the set of live connections --
// mirroring the teacher's AppState.ActiveConns / AddConn / RemoveConn
// / CloseAllConnections, generalized with golang.org/x/sync/errgroup
// for coordinated goroutine lifecycle and first-error propagation
// across the accept loop, the snapshot loop, and per-connection tasks.
type Server struct {
	opts     Options
	listener net.Listener
	keyspace *store.Keyspace
	config   *configstore.Store
	log      *logging.Logger

	connsMu sync.Mutex
	conns   map[int]net.Conn
	nextID  int64

	group  *errgroup.Group
	cancel context.CancelFunc
}

// Start binds the listener, loads any existing snapshot, and begins
// accepting connections. It returns immediately; the server runs in
// background goroutines until Stop is called.
func Start(opts Options) (*Server, error) {
	opts = opts.withDefaults()

	lg := logging.New()
	ks := store.NewKeyspace(opts.ShardCount)
	if opts.SnapshotPath != "" {
		if err := ks.Load(opts.SnapshotPath); err != nil {
			lg.Warn("snapshot load failed, starting with an empty keyspace: %v", err)
			ks = store.NewKeyspace(opts.ShardCount)
		}
	}

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:     opts,
		listener: ln,
		keyspace: ks,
		config:   configstore.New(),
		log:      lg,
		conns:    make(map[int]net.Conn),
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	group, gctx := errgroup.WithContext(ctx)
	s.group = group

	group.Go(func() error { return s.acceptLoop(gctx) })
	if opts.SnapshotPath != "" {
		group.Go(func() error { return s.snapshotLoop(gctx) })
	}

	s.log.Info("listening on %s", ln.Addr())
	return s, nil
}

// Addr reports the address the server is actually bound to, useful
// when Options.Addr used an ephemeral port ("127.0.0.1:0").
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		nc, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		id := int(atomic.AddInt64(&s.nextID, 1))
		s.addConn(id, nc)

		s.group.Go(func() error {
			defer s.removeConn(id)
			cmdCtx := &command.Context{Keyspace: s.keyspace, Config: s.config}
			c := newConn(id, nc, cmdCtx, s.log, s.opts.IdleTimeout)
			c.run()
			return nil
		})
	}
}

func (s *Server) snapshotLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.SnapshotInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.keyspace.Save(s.opts.SnapshotPath); err != nil {
				s.log.Warn("periodic snapshot failed: %v", err)
			}
		}
	}
}

func (s *Server) addConn(id int, nc net.Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	s.conns[id] = nc
}

func (s *Server) removeConn(id int) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	delete(s.conns, id)
}

// closeAllConnections force-closes every still-live connection,
// mirroring the teacher's AppState.CloseAllConnections.
func (s *Server) closeAllConnections() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for id, nc := range s.conns {
		nc.Close()
		delete(s.conns, id)
	}
}

// Stop closes the listener, gives in-flight connections up to
// Options.ShutdownGrace to finish on their own, force-closes whatever
// remains, writes a final snapshot if one is configured, and waits
// for every background goroutine to exit.
func (s *Server) Stop(ctx context.Context) error {
	s.listener.Close()
	s.cancel()

	done := make(chan error, 1)
	go func() { done <- s.group.Wait() }()

	grace := time.NewTimer(s.opts.ShutdownGrace)
	defer grace.Stop()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-grace.C:
		s.closeAllConnections()
		<-done
	case <-ctx.Done():
		s.closeAllConnections()
		<-done
		if s.opts.SnapshotPath != "" {
			if err := s.keyspace.Save(s.opts.SnapshotPath); err != nil {
				return err
			}
		}
		return ctx.Err()
	}

	if s.opts.SnapshotPath != "" {
		return s.keyspace.Save(s.opts.SnapshotPath)
	}
	return nil
}
