package diffserver

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceTime = 100 * time.Millisecond

// startWatcher watches every file in the server's Target for writes
// and debounces bursts of events (editors that write via
// rename-into-place often fire two or three in a row) into a single
// recompute.
func (s *Server) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, path := range s.watchedPaths() {
		dir := filepath.Dir(path)
		if err := watcher.Add(dir); err != nil {
			s.logger.Warn("Failed to watch directory", "dir", dir, "err", err)
		}
	}

	s.wg.Add(1)
	go s.watchLoop(watcher)

	s.logger.Info("Watching files for changes", "paths", s.watchedPaths())
	return nil
}

func (s *Server) watchedPaths() []string {
	if s.mode == ModeMerge {
		return []string{s.target.Base, s.target.Side1, s.target.Side2}
	}
	return []string{s.target.LHS, s.target.RHS}
}

func (s *Server) watchLoop(watcher *fsnotify.Watcher) {
	defer s.wg.Done()
	defer func() {
		if err := watcher.Close(); err != nil {
			s.logger.Error("Failed to close watcher", "err", err)
		}
	}()

	watched := make(map[string]bool)
	for _, p := range s.watchedPaths() {
		abs, err := filepath.Abs(p)
		if err == nil {
			watched[abs] = true
		}
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-s.ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}

			s.logger.Debug("Change detected", "file", filepath.Base(event.Name), "op", event.Op.String())

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceTime, func() {
				if s.ctx.Err() != nil {
					return
				}
				s.recomputeAndBroadcast()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("Watcher error", "err", err)
		}
	}
}
