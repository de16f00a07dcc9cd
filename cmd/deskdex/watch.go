package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/deskdex/internal/engine"
)

// watchCommand re-runs an incremental indexing pass whenever the
// watched trees change, debounced so a burst of saves collapses into
// one pass. Grounded on the teacher's internal/indexing/watcher.go
// debouncer, simplified because this module's core only exposes
// whole-pass incremental indexing rather than per-path update hooks.
var watchCommand = &cli.Command{
	Name:  "watch",
	Usage: "index once, then re-index incrementally as files change",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "print every path as it is handled",
		},
	},
	Action: func(c *cli.Context) error {
		eng, root, err := loadEngine(c)
		if err != nil {
			return err
		}

		var progress func(string)
		if c.Bool("verbose") {
			progress = func(path string) { fmt.Println(path) }
		}

		added, removed, updated, err := eng.Run(false, progress)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d added, %d updated, %d removed (initial pass)\n", root, added, updated, removed)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()

		if err := addWatches(watcher, eng); err != nil {
			return err
		}

		debounce := time.Duration(eng.Config().DebounceMs) * time.Millisecond
		d := newDebouncer(debounce, func() {
			added, removed, updated, err := eng.Run(true, progress)
			if err != nil {
				log.Printf("deskdex: incremental pass failed: %v", err)
				return
			}
			if added+removed+updated > 0 {
				fmt.Printf("%d added, %d updated, %d removed\n", added, updated, removed)
			}
		})

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&fsnotify.Create != 0 {
					if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				d.trigger()
			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Printf("deskdex: watcher error: %v", werr)
			}
		}
	},
}

// addWatches registers every directory under every configured root
// with watcher, matching the teacher's recursive filepath.Walk
// approach in FileWatcher.addWatches.
func addWatches(watcher *fsnotify.Watcher, eng *engine.Engine) error {
	for _, roots := range eng.Config().GroupMap() {
		for _, root := range roots {
			err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil
				}
				if info.IsDir() {
					if addErr := watcher.Add(path); addErr != nil {
						log.Printf("deskdex: failed to watch %s: %v", path, addErr)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// debouncer collapses a burst of triggers occurring within window into
// a single call to fire, run once after the burst goes quiet.
type debouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	window time.Duration
	fire   func()
}

func newDebouncer(window time.Duration, fire func()) *debouncer {
	return &debouncer{window: window, fire: fire}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}
