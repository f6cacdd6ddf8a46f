package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"quill/internal/diag"
	"quill/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// CacheKey identifies a cached check outcome.
type CacheKey [sha256.Size]byte

// DiskCache хранит результаты проверки файлов на диске, по ключу из
// хеша нормализованного содержимого и опций.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the stored outcome of one file check.
type DiskPayload struct {
	Schema      uint16
	Status      uint8
	Diagnostics []diag.Diagnostic
	Dropped     int
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// KeyFor derives the cache key for a file under the given salt.
func KeyFor(file *source.File, maxDiagnostics int, salt string) CacheKey {
	h := sha256.New()
	var hdr [10]byte
	binary.LittleEndian.PutUint16(hdr[:2], diskCacheSchemaVersion)
	binary.LittleEndian.PutUint64(hdr[2:], uint64(int64(maxDiagnostics)))
	h.Write(hdr[:])
	h.Write(file.Hash[:])
	h.Write([]byte(salt))
	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}

func (c *DiskCache) pathFor(key CacheKey) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первым двум символам, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key CacheKey, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload. A missing entry or a payload from
// another schema version is a miss, not an error.
func (c *DiskCache) Get(key CacheKey, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог, чтобы параллельный процесс не увидел полуудалённое состояние
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// payloadFor snapshots a finished run for storage.
func payloadFor(res *RunResult) *DiskPayload {
	return &DiskPayload{
		Status:      uint8(res.Status),
		Diagnostics: res.Bag.Items(),
		Dropped:     res.Bag.Dropped(),
	}
}

// replay rebuilds the status and bag of a cached outcome. Stored spans carry the FileID
// of the run that produced them; they are rebased onto file.
func replay(payload *DiskPayload, file *source.File, limit int) (Status, *diag.Bag) {
	bag := diag.NewBag(limit)
	for _, d := range payload.Diagnostics {
		bag.Add(rebase(d, file.ID))
	}
	bag.NoteDropped(payload.Dropped)
	return Status(payload.Status), bag
}

func rebase(d diag.Diagnostic, id source.FileID) diag.Diagnostic {
	d.Primary.File = id
	if len(d.Labels) > 0 {
		labels := make([]diag.Label, len(d.Labels))
		for i, l := range d.Labels {
			l.Span.File = id
			labels[i] = l
		}
		d.Labels = labels
	}
	if len(d.Notes) > 0 {
		notes := make([]diag.Note, len(d.Notes))
		for i, n := range d.Notes {
			n.Span.File = id
			notes[i] = n
		}
		d.Notes = notes
	}
	if len(d.Fixes) > 0 {
		fixes := make([]diag.Fix, len(d.Fixes))
		for i, fx := range d.Fixes {
			edits := make([]diag.FixEdit, len(fx.Edits))
			for j, e := range fx.Edits {
				e.Span.File = id
				edits[j] = e
			}
			fixes[i] = diag.Fix{Title: fx.Title, Edits: edits}
		}
		d.Fixes = fixes
	}
	return d
}
