/*
file: respkv/cmd/respkv/main.go
*/

// Command respkv is the launcher: it reads a config file and
// environment overrides, starts the server, waits for a termination
// signal, and drains it gracefully -- mirroring the teacher's
// cmd/main.go startup sequence (banner, config read, listener bind,
// signal handling, final persistence save) adapted to this server's
// narrower surface.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-respkv/respkv"
	"github.com/go-respkv/respkv/internal/conffile"
)

const banner = ">>>> respkv server <<<<"

// Exit codes:
//
//	0 - graceful shutdown
//	1 - bad usage
//	2 - listener bind / fatal startup error
func main() {
	fmt.Println(banner)

	configFilePath := "./config/respkv.conf"
	dataDirectoryPath := ""

	args := os.Args[1:]
	if len(args) > 0 {
		configFilePath = args[0]
	}
	if len(args) > 1 {
		dataDirectoryPath = args[1]
	}
	if len(args) > 2 {
		log.Println("usage: respkv [config-file] [data-directory]")
		os.Exit(1)
	}

	log.Printf("reading config file: %s\n", configFilePath)
	cfg := conffile.ApplyEnv(conffile.Read(configFilePath))

	if dataDirectoryPath != "" {
		cfg.Dir = dataDirectoryPath
	}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			log.Printf("failed to create data directory %q: %v\n", cfg.Dir, err)
			os.Exit(2)
		}
	}

	snapshotPath := ""
	if cfg.SnapshotFilename != "" {
		dir := cfg.Dir
		if dir == "" {
			dir = "."
		}
		snapshotPath = filepath.Join(dir, cfg.SnapshotFilename)
	}

	server, err := respkv.Start(respkv.Config{
		Addr:             fmt.Sprintf(":%d", cfg.Port),
		ShardCount:       cfg.ShardCount,
		SnapshotPath:     snapshotPath,
		SnapshotInterval: cfg.SnapshotInterval,
		IdleTimeout:      cfg.IdleTimeout,
	})
	if err != nil {
		log.Printf("failed to start server: %v\n", err)
		os.Exit(2)
	}
	log.Printf("listening on %s\n", server.Addr())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("signal received, starting graceful shutdown...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Printf("error during shutdown: %v\n", err)
		os.Exit(2)
	}
	log.Println("graceful shutdown complete. goodbye!")
}
