package names

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aquatix/whosthere/internal/domain"
	"github.com/aquatix/whosthere/internal/ports"
	"github.com/spf13/afero"
)

// Directory reads a "<client id>=<label>" file. Lines starting with # and
// blank lines are ignored; client ids are matched case-insensitively.
type Directory struct {
	fs   afero.Fs
	path string
}

var _ ports.NameDirectory = (*Directory)(nil)

func NewDirectory(fs afero.Fs, path string) *Directory {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Directory{fs: fs, path: path}
}

func (d *Directory) Names(ctx context.Context) (map[domain.ClientID]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := map[domain.ClientID]string{}
	if strings.TrimSpace(d.path) == "" {
		return result, nil
	}

	data, err := afero.ReadFile(d.fs, d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return result, nil
		}
		return nil, fmt.Errorf("read name mapping %s: %w", d.path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("name mapping %s:%d: expected <client id>=<name>", d.path, lineNumber)
		}
		result[domain.ClientID(key).Canonical()] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan name mapping %s: %w", d.path, err)
	}

	return result, nil
}
