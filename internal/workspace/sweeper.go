package workspace

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultSweepInterval = time.Hour
	DefaultMaxAge        = time.Hour
)

// StartSweeper periodically removes workspace directories under root that
// are older than maxAge. The per-request cleanup path never relies on it;
// it exists to reclaim directories orphaned by a crash or kill -9.
func StartSweeper(ctx context.Context, root string, maxAge, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	go sweepLoop(ctx, root, maxAge, interval)
}

func sweepLoop(ctx context.Context, root string, maxAge, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sweepOnce(root, maxAge); err != nil {
				log.Printf("sweep workspaces error: %v", err)
			}
		}
	}
}

func sweepOnce(root string, maxAge time.Duration) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("remove orphaned workspace %s failed: %v", dir, err)
			continue
		}
		log.Printf("removed orphaned workspace %s", dir)
	}
	return nil
}
