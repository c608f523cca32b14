package logdir

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aquatix/whosthere/internal/ports"
	"github.com/spf13/afero"
)

const logSuffix = ".log"

// Source serves "<prefix>*.log" files from one directory. Names embed the
// date, so lexical order is chronological order.
type Source struct {
	fs     afero.Fs
	dir    string
	prefix string
}

var _ ports.LogSource = (*Source)(nil)

func NewSource(fs afero.Fs, dir string, prefix string) *Source {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Source{fs: fs, dir: filepath.Clean(dir), prefix: prefix}
}

func (s *Source) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("read log directory %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, s.prefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// ReadLines returns the newline-terminated lines of a log file. An
// unterminated last line of the newest file is still being written and is
// left for the next run; in older files it is returned as a complete line.
func (s *Source) ReadLines(ctx context.Context, name string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.pathForName(name)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read log file %s: %w", name, err)
	}

	content := string(data)
	if content == "" {
		return []string{}, nil
	}

	lines := strings.Split(content, "\n")
	tail := lines[len(lines)-1]
	lines = lines[:len(lines)-1]
	if tail == "" {
		return lines, nil
	}

	newest, err := s.isNewest(ctx, name)
	if err != nil {
		return nil, err
	}
	if !newest {
		lines = append(lines, tail)
	}

	return lines, nil
}

func (s *Source) isNewest(ctx context.Context, name string) (bool, error) {
	names, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	if len(names) == 0 {
		return true, nil
	}

	return names[len(names)-1] <= name, nil
}

func (s *Source) pathForName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errors.New("log file name is empty")
	}
	if trimmed != filepath.Base(trimmed) || trimmed == "." || trimmed == ".." {
		return "", fmt.Errorf("invalid log file name %q", name)
	}

	return filepath.Join(s.dir, trimmed), nil
}
