/*
file: respkv/respkv.go
*/

// Package respkv implements an in-memory, RESP-over-TCP key-value
// server: PING/ECHO for liveness, GET/SET (with the full EX/PX/EXAT/
// PXAT/NX/XX/KEEPTTL/GET option matrix) for the keyspace, and
// CONFIG GET/SET for runtime parameters. The keyspace is sharded for
// concurrent access and optionally persisted to a JSON snapshot file
// on an interval and at shutdown.
//
// Start is the only entry point; the returned Server is the only
// control surface, mirroring the teacher's single AppState handle
// rather than exposing internals like the keyspace or config store
// directly.
package respkv

import (
	"context"
	"net"
	"time"

	"github.com/go-respkv/respkv/internal/netsrv"
)

// Config is the startup configuration for a Server.
type Config struct {
	// Addr is the TCP address to listen on, e.g. ":6379" or
	// "127.0.0.1:0" for an ephemeral port.
	Addr string

	// ShardCount is the number of independent keyspace partitions.
	// Defaults to 16 if zero or negative.
	ShardCount int

	// SnapshotPath, if non-empty, is where the keyspace is loaded
	// from at startup and periodically (and finally) saved to. If
	// empty, the server runs purely in-memory with no persistence.
	SnapshotPath string

	// SnapshotInterval is how often a snapshot is written while the
	// server runs. Defaults to 5 seconds if zero or negative.
	SnapshotInterval time.Duration

	// IdleTimeout bounds how long a connection may go without a
	// readable byte before its task exits. Defaults to 1 second if
	// zero or negative.
	IdleTimeout time.Duration

	// ShutdownGrace bounds how long Stop waits for in-flight
	// connections to finish on their own before force-closing them.
	// Defaults to 5 seconds if zero or negative.
	ShutdownGrace time.Duration
}

// Server is a running respkv instance.
type Server struct {
	inner *netsrv.Server
}

// Start binds the listener and begins accepting connections in the
// background. It returns as soon as the listener is bound; call Stop
// for a graceful shutdown.
func Start(cfg Config) (*Server, error) {
	inner, err := netsrv.Start(netsrv.Options{
		Addr:             cfg.Addr,
		ShardCount:       cfg.ShardCount,
		SnapshotPath:     cfg.SnapshotPath,
		SnapshotInterval: cfg.SnapshotInterval,
		IdleTimeout:      cfg.IdleTimeout,
		ShutdownGrace:    cfg.ShutdownGrace,
	})
	if err != nil {
		return nil, err
	}
	return &Server{inner: inner}, nil
}

// Addr returns the address the server is bound to.
func (s *Server) Addr() net.Addr {
	return s.inner.Addr()
}

// Stop closes the listener, drains in-flight connections within the
// configured grace period, writes a final snapshot if configured, and
// returns once everything has shut down or ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	return s.inner.Stop(ctx)
}
