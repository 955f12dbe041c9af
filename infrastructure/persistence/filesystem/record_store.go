package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"memebrowser/application/ports"
	"memebrowser/domain/core/valueobjects"
	pkgerrors "memebrowser/pkg/errors"

	"go.uber.org/zap"
)

const (
	dataDirName   = ".memes"
	recordDirName = "memes"
	imageDirName  = "images"
)

// Layout names the three directories of a meme store
type Layout struct {
	Base    string
	Records string
	Images  string
}

// NewLayout resolves the store layout under baseDir:
//
//	<baseDir>/.memes/memes/<id>.json
//	<baseDir>/.memes/images/<name>
func NewLayout(baseDir string) Layout {
	base := filepath.Join(baseDir, dataDirName)
	return Layout{
		Base:    base,
		Records: filepath.Join(base, recordDirName),
		Images:  filepath.Join(base, imageDirName),
	}
}

// RecordStore is a directory-backed, read-only meme store
type RecordStore struct {
	layout Layout
	logger *zap.Logger
}

var _ ports.MemeStore = (*RecordStore)(nil)

// NewRecordStore creates the store, creating any missing directories
func NewRecordStore(baseDir string, logger *zap.Logger) (*RecordStore, error) {
	layout := NewLayout(baseDir)
	for _, dir := range []string{layout.Base, layout.Records, layout.Images} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, pkgerrors.NewStoreIOError("mkdir", fmt.Errorf("%s: %w", dir, err))
		}
	}

	logger.Debug("Meme store ready",
		zap.String("records", layout.Records),
		zap.String("images", layout.Images),
	)

	return &RecordStore{layout: layout, logger: logger}, nil
}

// Layout returns the resolved directories
func (s *RecordStore) Layout() Layout {
	return s.layout
}

// ListIDs scans the record directory. Entries that are not "<unsigned int>.json" in
// canonical form are skipped, so every listed id can be read back by ReadRecord.
// An empty directory yields an empty slice.
func (s *RecordStore) ListIDs(ctx context.Context) ([]valueobjects.MemeID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.layout.Records)
	if err != nil {
		return nil, pkgerrors.NewStoreIOError("list records", err)
	}

	ids := make([]valueobjects.MemeID, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := valueobjects.MemeIDFromFileName(entry.Name()); ok {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids, nil
}

// ReadRecord returns the raw bytes of one record
func (s *RecordStore) ReadRecord(ctx context.Context, id valueobjects.MemeID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.layout.Records, id.FileName()))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.NewNotFoundError("meme " + id.String()).WithCause(err)
		}
		return nil, pkgerrors.NewStoreIOError("read record", err)
	}
	return data, nil
}

// ResolveImagePath maps an image name to its path inside the image directory.
// Names that could escape the directory resolve to NotFound.
func (s *RecordStore) ResolveImagePath(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", pkgerrors.NewNotFoundError("image " + name)
	}
	return filepath.Join(s.layout.Images, name), nil
}

// OpenImage opens a regular image file for streaming
func (s *RecordStore) OpenImage(ctx context.Context, name string) (*ports.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.ResolveImagePath(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.NewNotFoundError("image " + name).WithCause(err)
		}
		return nil, pkgerrors.NewStoreIOError("open image", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, pkgerrors.NewStoreIOError("stat image", err)
	}
	if !info.Mode().IsRegular() {
		file.Close()
		return nil, pkgerrors.NewNotFoundError("image " + name)
	}

	return &ports.Image{
		ReadCloser: file,
		Name:       name,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
	}, nil
}

// Ping checks that the record directory can be listed
func (s *RecordStore) Ping(ctx context.Context) error {
	_, err := s.ListIDs(ctx)
	return err
}
