package repl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a burst of file events must be quiet before the files
// are evaluated again, so that half-written files are not read.
const settle = 10 * time.Millisecond

// Watch evaluates files in order and evaluates them again in a fresh root
// scope whenever one of them changes. It returns when ctx is done.
func Watch(ctx context.Context, s *Session, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, f := range files {
		if err := watcher.Add(f); err != nil {
			return fmt.Errorf("failed to watch %s: %w", f, err)
		}
	}
	s.runAll(files)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			slog.Debug("watch event", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			drain(watcher.Events)

			// editors that save by rename drop the watch
			for _, f := range files {
				if err := watcher.Add(f); err != nil {
					slog.Warn("watch re-add failed", slog.String("file", f), slog.Any("error", err))
				}
			}
			slog.Info("watch reload", slog.String("file", event.Name))
			s.resetEnv()
			s.runAll(files)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", slog.Any("error", err))
		}
	}
}

func drain(events <-chan fsnotify.Event) {
	for {
		time.Sleep(settle)
		select {
		case <-events:
		default:
			return
		}
	}
}

func (s *Session) runAll(files []string) {
	for _, f := range files {
		if err := s.Script(f); err != nil {
			return
		}
	}
}
