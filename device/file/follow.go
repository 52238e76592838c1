package file

import (
	"context"
	"errors"
	"io"

	"github.com/fsnotify/fsnotify"
	"github.com/gobeaver/streamkit"
)

// Follower is an input device that keeps reading a growing file. At the end
// of the data it waits for the file to be written instead of reporting
// EOF, like tail -f. It reports EOF once ctx is done or the file is
// removed or renamed. A file truncated below the read cursor is read again
// from the start.
type Follower struct {
	ctx     context.Context
	src     *Source
	watcher *fsnotify.Watcher
	ended   bool
}

// Follow opens path for following.
func Follow(ctx context.Context, path string, opts ...Option) (*Follower, error) {
	src, err := OpenSource(path, streamkit.Binary, opts...)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		_ = src.Close()
		return nil, pathError("watch", path, err)
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		_ = src.Close()
		return nil, pathError("watch", path, err)
	}

	return &Follower{ctx: ctx, src: src, watcher: w}, nil
}

// Category implements streamkit.Component.
func (f *Follower) Category() streamkit.Category {
	return streamkit.CatInput | streamkit.CatEOF | streamkit.CatStatus
}

// Read returns available bytes, waiting for writes when there are none.
func (f *Follower) Read(p []byte) (int, error) {
	if f.ended {
		return 0, io.EOF
	}
	for {
		n, err := f.src.Read(p)
		if n > 0 || !errors.Is(err, io.EOF) {
			return n, err
		}
		if err := f.wait(); err != nil {
			if errors.Is(err, io.EOF) {
				f.ended = true
			}
			return 0, err
		}
	}
}

// wait blocks until the file changes. It returns io.EOF when following
// should stop.
func (f *Follower) wait() error {
	select {
	case <-f.ctx.Done():
		return io.EOF
	case ev, ok := <-f.watcher.Events:
		if !ok || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
			return io.EOF
		}
		if size := f.src.Size(); size < f.src.rpos {
			streamkit.Logger().Debug("followed file truncated", "path", f.src.Path(), "size", size)
			f.src.rpos = 0
		}
		return nil
	case err, ok := <-f.watcher.Errors:
		if !ok {
			return io.EOF
		}
		return pathError("watch", f.src.Path(), err)
	}
}

// EOF reports whether following has ended.
func (f *Follower) EOF() bool { return f.ended }

// Good reports whether the follower is still reading.
func (f *Follower) Good() bool { return !f.ended && !f.src.Fail() }

// Fail reports whether the last read failed.
func (f *Follower) Fail() bool { return f.src.Fail() }

// Close stops watching and closes the file.
func (f *Follower) Close() error {
	werr := f.watcher.Close()
	if err := f.src.Close(); err != nil {
		return err
	}
	return werr
}

// Verify interface compliance at compile time
var (
	_ streamkit.Component = (*Follower)(nil)
	_ io.ReadCloser       = (*Follower)(nil)
)
