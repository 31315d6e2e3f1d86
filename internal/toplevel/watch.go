package toplevel

import (
	"github.com/fsnotify/fsnotify"
)

// Watch re-runs reload whenever any file in paths changes on disk, per
// SPEC_FULL.md §4.6's watch-mode expansion. Each re-run is a fresh,
// complete pass — it never runs concurrently with a Driver.Run in
// progress, so the single-threaded evaluator invariant of spec.md §5 holds
// even under -watch. Grounded on the teacher's fsnotify wiring in
// internal/runtime/vfs/watch_fsnotify.go.
func Watch(paths []string, reload func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			return err
		}
	}

	if err := reload(); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if err := reload(); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			if err != nil {
				return err
			}
		}
	}
}
