package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/milk9111/scrollanim/anim"
)

// Update is a reloaded config file.
type Update struct {
	Path     string
	Fragment anim.ConfigFragment
}

// settleDelay is how long a file must stay quiet before it is reloaded, so
// a save that truncates then writes is read once, complete.
const settleDelay = 100 * time.Millisecond

// Watcher reloads config files when they change. The directories holding
// the files are watched so editors that replace files on save are seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	Updates chan Update
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches the given files.
func NewWatcher(files ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
		dirs[dir] = true
	}

	watcher := &Watcher{
		watcher: w,
		files:   watched,
		Updates: make(chan Update, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops watching. Updates and Errors are closed once the watcher
// goroutine has exited.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

// Drain returns every pending update in arrival order without blocking.
func (w *Watcher) Drain() []Update {
	var out []Update
	for {
		select {
		case u, open := <-w.Updates:
			if !open {
				return out
			}
			out = append(out, u)
		default:
			return out
		}
	}
}

func (w *Watcher) run() {
	defer func() {
		close(w.Updates)
		close(w.Errors)
		close(w.done)
	}()
	pending := make(map[string]bool)
	settle := time.NewTimer(settleDelay)
	settle.Stop()
	defer settle.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			pending[name] = true
			settle.Reset(settleDelay)
		case <-settle.C:
			for name := range pending {
				delete(pending, name)
				frag, err := Load(name)
				if err != nil {
					w.sendErr(err)
					continue
				}
				select {
				case w.Updates <- Update{Path: name, Fragment: frag}:
				case <-w.closeCh:
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		case <-w.closeCh:
			return
		}
	}
}

// sendErr reports err unless an earlier error is still unread.
func (w *Watcher) sendErr(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
