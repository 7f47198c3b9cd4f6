package journal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Backend persists the raw record lines of journals.
//
// Load returns found=false and no error for a journal that does not exist.
// Replace overwrites the whole record list of a journal, creating it when
// needed. List returns known journal ids in ascending order.
type Backend interface {
	Load(ctx context.Context, id string) (lines []string, found bool, err error)
	Replace(ctx context.Context, id string, lines []string) error
	List(ctx context.Context) ([]string, error)
}

// DirBackend stores each journal as a newline-delimited text file named
// after its id inside Dir.
type DirBackend struct {
	Dir string
}

// NewDirBackend returns a DirBackend rooted at dir, creating dir if needed.
func NewDirBackend(dir string) (*DirBackend, error) {
	if dir == "" {
		return nil, errors.New("journal directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	return &DirBackend{Dir: dir}, nil
}

func (b *DirBackend) path(id string) string {
	return filepath.Join(b.Dir, id)
}

// Load reads every record line of a journal file.
func (b *DirBackend) Load(ctx context.Context, id string) ([]string, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	f, err := os.Open(b.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open journal %s: %w", id, err)
	}
	defer f.Close()

	lines := []string{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, false, fmt.Errorf("read journal %s: %w", id, err)
	}
	return lines, true, nil
}

// Replace rewrites a journal file. The new content is written to a
// temporary file in the same directory and renamed over the old one, so
// readers see either the old or the new list.
func (b *DirBackend) Replace(ctx context.Context, id string, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.Dir, "."+id+".*.tmp")
	if err != nil {
		return fmt.Errorf("rewrite journal %s: %w", id, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // No-op after a successful rename

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("rewrite journal %s: %w", id, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("rewrite journal %s: sync: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("rewrite journal %s: close: %w", id, err)
	}
	if err := os.Rename(tmpName, b.path(id)); err != nil {
		return fmt.Errorf("rewrite journal %s: rename: %w", id, err)
	}
	return nil
}

// List enumerates journal files in Dir. A missing directory lists as empty.
func (b *DirBackend) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(b.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}

	ids := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Suffix) {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}
