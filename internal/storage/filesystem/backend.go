package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

const (
	snapshotExt  = ".json"
	lockFileName = ".lock"
	dirPerm      = 0o755
	filePerm     = 0o644
)

// ErrLocked — каталог данных уже занят другим процессом.
var ErrLocked = errors.New("data directory is locked by another process")

// Backend хранит каждую коллекцию в файле <dir>/<name>.json.
type Backend struct {
	fs     afero.Fs
	dir    string
	lock   *flock.Flock
	logger *log.Entry
}

// New создаёт backend поверх произвольной afero.Fs без файловой блокировки.
func New(fsys afero.Fs, dir string) (*Backend, error) {
	if dir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := fsys.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return &Backend{
		fs:     fsys,
		dir:    dir,
		logger: log.WithField("component", "fs-backend"),
	}, nil
}

// Open создаёт backend на файловой системе ОС и берёт эксклюзивную
// блокировку каталога: второй процесс над тем же каталогом не стартует.
func Open(dir string) (*Backend, error) {
	b, err := New(afero.NewOsFs(), dir)
	if err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data directory %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	b.lock = lock
	return b, nil
}

// Dir возвращает каталог данных.
func (b *Backend) Dir() string { return b.dir }

// LoadAll читает все файлы *.json каталога. Временные и служебные файлы
// (начинаются с точки) пропускаются.
func (b *Backend) LoadAll(_ context.Context) (map[string]collection.Records, error) {
	entries, err := afero.ReadDir(b.fs, b.dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory %s: %w", b.dir, err)
	}

	result := make(map[string]collection.Records)
	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || strings.HasPrefix(fileName, ".") || !strings.HasSuffix(fileName, snapshotExt) {
			continue
		}
		name := strings.TrimSuffix(fileName, snapshotExt)
		if !collection.ValidName(name) {
			b.logger.WithField("file", fileName).Warn("skipping file with unsupported collection name")
			continue
		}

		data, err := afero.ReadFile(b.fs, b.path(name))
		if err != nil {
			return nil, fmt.Errorf("read snapshot %s: %w", fileName, err)
		}
		records, err := collection.DecodeSnapshot(name, data)
		if err != nil {
			return nil, err
		}
		result[name] = records
	}
	return result, nil
}

// Save пишет снимок во временный файл и атомарно переименовывает его,
// так что после сбоя на диске остаётся последний полностью записанный снимок.
func (b *Backend) Save(_ context.Context, name string, records collection.Records) error {
	data, err := collection.EncodeSnapshot(records)
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(b.fs, b.dir, "."+name+snapshotExt+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = b.fs.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync snapshot %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close snapshot %s: %w", name, err)
	}
	if err := b.fs.Chmod(tmpName, filePerm); err != nil {
		cleanup()
		return fmt.Errorf("chmod snapshot %s: %w", name, err)
	}
	if err := b.fs.Rename(tmpName, b.path(name)); err != nil {
		cleanup()
		return fmt.Errorf("replace snapshot %s: %w", name, err)
	}
	return nil
}

// Remove удаляет файл коллекции, если он есть.
func (b *Backend) Remove(_ context.Context, name string) error {
	if err := b.fs.Remove(b.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot %s: %w", name, err)
	}
	return nil
}

// Close снимает блокировку каталога.
func (b *Backend) Close() error {
	if b.lock == nil {
		return nil
	}
	if err := b.lock.Unlock(); err != nil {
		return fmt.Errorf("unlock data directory: %w", err)
	}
	return nil
}

// Ping проверяет, что каталог данных по-прежнему доступен.
func (b *Backend) Ping(_ context.Context) error {
	info, err := b.fs.Stat(b.dir)
	if err != nil {
		return fmt.Errorf("stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", b.dir)
	}
	return nil
}

func (b *Backend) path(name string) string {
	return filepath.Join(b.dir, name+snapshotExt)
}

var _ collection.Backend = (*Backend)(nil)
