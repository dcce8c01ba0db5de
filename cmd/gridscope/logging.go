package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

const logPath = "logs/gridscope.log"

// setupLogging routes the standard logger to a file when debug is set, otherwise discards it
// The terminal is owned by the view, so nothing may log to stderr while it runs
func setupLogging(debug bool) (func(), error) {
	if !debug {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Printf("=== gridscope %s started ===", version)
	return func() {
		log.SetOutput(io.Discard)
		f.Close()
	}, nil
}
