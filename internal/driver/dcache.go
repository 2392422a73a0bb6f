package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"strata/internal/lang"
	"strata/internal/source"
	"strata/internal/structure"
	"strata/internal/token"
)

// Schema version, increment when DiskPayload format changes.
const diskCacheSchemaVersion uint16 = 1

// Digest identifies cached content by SHA-256 of the file bytes.
type Digest [sha256.Size]byte

// HashContent computes the cache key for a buffer.
func HashContent(content []byte) Digest {
	return sha256.Sum256(content)
}

// DiskCache хранит потоки токенов и границы по хэшу содержимого файла.
// Повторный скан неизменённого файла читает их с диска вместо лексера.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// TokenRecord is the serialized form of one token. Text is not stored: it
// is a view into the source and can be re-sliced from the span.
type TokenRecord struct {
	Kind  uint8  `msgpack:"k"`
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
	Depth uint16 `msgpack:"d"`
	Flags uint8  `msgpack:"f"`
}

// BoundaryRecord is the serialized form of one boundary.
type BoundaryRecord struct {
	Start      uint32  `msgpack:"s"`
	End        uint32  `msgpack:"e"`
	Depth      uint16  `msgpack:"d"`
	Kind       uint8   `msgpack:"k"`
	Confidence float64 `msgpack:"c"`
	Balanced   bool    `msgpack:"b"`
}

// DiskPayload stores the cacheable pipeline artifacts for one file.
type DiskPayload struct {
	Schema     uint16           `msgpack:"schema"`
	Language   string           `msgpack:"language"`
	Tokens     []TokenRecord    `msgpack:"tokens"`
	Boundaries []BoundaryRecord `msgpack:"boundaries"`
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
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог "scans" для удобства очистки.
	return filepath.Join(c.dir, "scans", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A schema
// mismatch reads as a miss.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// PackPayload converts pipeline results to their disk form.
func PackPayload(language string, tokens []token.Token, boundaries []structure.Boundary) *DiskPayload {
	payload := &DiskPayload{
		Schema:     diskCacheSchemaVersion,
		Language:   language,
		Tokens:     make([]TokenRecord, len(tokens)),
		Boundaries: make([]BoundaryRecord, len(boundaries)),
	}
	for i, tok := range tokens {
		payload.Tokens[i] = TokenRecord{
			Kind:  uint8(tok.Kind),
			Start: tok.Span.Start,
			End:   tok.Span.End,
			Depth: tok.Depth,
			Flags: uint8(tok.Flags),
		}
	}
	for i, b := range boundaries {
		payload.Boundaries[i] = BoundaryRecord{
			Start:      b.Span.Start,
			End:        b.Span.End,
			Depth:      b.Depth,
			Kind:       uint8(b.Kind),
			Confidence: b.Confidence,
			Balanced:   b.Balanced,
		}
	}
	return payload
}

// UnpackPayload restores tokens and boundaries, re-slicing token text from
// content.
func UnpackPayload(payload *DiskPayload, content []byte) ([]token.Token, []structure.Boundary) {
	tokens := make([]token.Token, len(payload.Tokens))
	for i, r := range payload.Tokens {
		tok := token.Token{
			Kind:  token.Kind(r.Kind),
			Span:  source.Span{Start: r.Start, End: r.End},
			Depth: r.Depth,
			Flags: token.Flags(r.Flags),
		}
		if int(r.End) <= len(content) && r.Start <= r.End {
			tok.Text = string(content[r.Start:r.End])
		}
		tokens[i] = tok
	}
	boundaries := make([]structure.Boundary, len(payload.Boundaries))
	for i, r := range payload.Boundaries {
		boundaries[i] = structure.Boundary{
			Span:       source.Span{Start: r.Start, End: r.End},
			Depth:      r.Depth,
			Kind:       lang.PairTag(r.Kind),
			Confidence: r.Confidence,
			Balanced:   r.Balanced,
		}
	}
	return tokens, boundaries
}
