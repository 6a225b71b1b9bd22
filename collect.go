package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

type collectOptions struct {
	stripRoot      bool
	followSymlinks bool
}

// collector enumerates regular files in depth-first, pre-order, directory
// order. Nothing is sorted: the order entries are found in is the order
// they are written.
type collector struct {
	opts    collectOptions
	logger  *log.Logger
	entries []*entry
}

// dirFrame is a directory whose entries are being consumed. Frames replace
// recursion so deep trees don't grow the goroutine stack.
type dirFrame struct {
	path    string
	name    string
	info    fs.FileInfo
	entries []fs.DirEntry
	next    int
}

func newCollector(opts collectOptions, logger *log.Logger) *collector {
	return &collector{
		opts:   opts,
		logger: logger,
	}
}

// collect appends the files found under each root, left to right.
func (c *collector) collect(roots []string) []*entry {
	for _, root := range roots {
		c.addRoot(root)
	}

	return c.entries
}

func (c *collector) addRoot(root string) {
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		c.logger.Warn("skipping root", "path", root, "err", err)
		return
	}

	switch {
	case info.IsDir():
		name := rootName(root)
		if c.opts.stripRoot {
			name = ""
		}
		c.walk(root, name)
	case info.Mode().IsRegular():
		name := rootName(root)
		if c.opts.stripRoot {
			name = filepath.Base(root)
		}
		c.add(root, name)
	default:
		c.logger.Warn("skipping root", "path", root, "err", ErrNotRegular)
	}
}

func (c *collector) walk(root, name string) {
	top, ok := c.openDir(root, name)
	if !ok {
		return
	}
	stack := []*dirFrame{top}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		if dir.next == len(dir.entries) {
			stack = stack[:len(stack)-1]
			continue
		}

		d := dir.entries[dir.next]
		dir.next++

		p := filepath.Join(dir.path, d.Name())
		if strings.HasPrefix(d.Name(), ".") {
			c.logger.Debug("skipping hidden", "path", p)
			continue
		}

		typ := d.Type()
		if typ&fs.ModeSymlink != 0 {
			if !c.opts.followSymlinks {
				c.logger.Debug("skipping symlink", "path", p)
				continue
			}
			target, err := os.Stat(p)
			if err != nil {
				c.logger.Debug("skipping dangling symlink", "path", p, "err", err)
				continue
			}
			typ = target.Mode().Type()
		}

		switch {
		case typ.IsDir():
			sub, ok := c.openDir(p, joinName(dir.name, d.Name()))
			if !ok {
				continue
			}
			if c.opts.followSymlinks && onStack(stack, sub.info) {
				c.logger.Debug("skipping directory cycle", "path", p)
				continue
			}
			stack = append(stack, sub)
		case typ.IsRegular():
			c.add(p, joinName(dir.name, d.Name()))
		default:
			c.logger.Debug("skipping non-regular file", "path", p, "mode", typ)
		}
	}
}

// openDir reads all entries of a directory in the order the filesystem
// returns them. Unreadable directories are skipped, not reported.
func (c *collector) openDir(path, name string) (*dirFrame, bool) {
	f, err := os.Open(path)
	if err != nil {
		c.logger.Debug("skipping unreadable directory", "path", path, "err", err)
		return nil, false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		c.logger.Debug("skipping unreadable directory", "path", path, "err", err)
		return nil, false
	}

	entries, err := f.ReadDir(-1)
	if err != nil {
		c.logger.Debug("partial directory read", "path", path, "read", len(entries), "err", err)
	}

	return &dirFrame{
		path:    path,
		name:    name,
		info:    info,
		entries: entries,
	}, true
}

func (c *collector) add(path, name string) {
	c.entries = append(c.entries, &entry{
		path: path,
		name: name,
	})
}

func onStack(stack []*dirFrame, info fs.FileInfo) bool {
	for _, f := range stack {
		if os.SameFile(f.info, info) {
			return true
		}
	}
	return false
}

// rootName is the archive name prefix contributed by a root as typed on
// the command line: "." adds nothing and absolute roots lose the leading '/'.
func rootName(root string) string {
	name := filepath.ToSlash(root)
	if name == "." {
		return ""
	}
	return strings.TrimLeft(name, "/")
}

func joinName(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "/" + child
}
