package driver

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"waldo/internal/diag"
	"waldo/internal/document"
	"waldo/internal/project"
	"waldo/internal/source"
	"waldo/internal/universe"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores check outcomes on disk, keyed by the document content
// and the digest of the universe it was resolved against.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached outcome of checking one document. Either
// Error is set or the document fields are.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16
	Path   string
	Broken bool
	Error  *CachedError

	Components     []string
	Instances      []CachedInstance
	Instantiations []CachedInstantiation
}

// CachedError is a *diag.Error without its file. Spans are byte offsets
// into the document that produced it.
type CachedError struct {
	Code    uint16
	Message string
	Start   uint32
	End     uint32
	Symbol  string
	Name    string
	Notes   []CachedNote
}

type CachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

type CachedInstance struct {
	Local string
	Name  string
	Type  uint32
}

type CachedInstantiation struct {
	Name      string
	Component string
	Args      []CachedArg
}

type CachedArg struct {
	Name     string
	Kind     uint8
	Instance string
	Export   string
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

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := key.String()
	// подкаталог по первому байту, чтобы не раздувать одну директорию
	return filepath.Join(c.dir, "docs", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
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
	renamed := false
	defer func() {
		if renamed {
			return
		}
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			Logger().Warn("failed to remove temp file", zap.String("path", f.Name()), zap.Error(rmErr))
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	renamed = true
	return nil
}

// Get reads and deserializes a payload from the disk cache. A payload
// written with another schema version is reported as a miss.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
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
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// cacheKey is H(content || universe digest). The universe must expose a
// digest, otherwise results are not cacheable.
func cacheKey(file *source.File, u universe.Universe) (project.Digest, bool) {
	d, ok := u.(universe.Digester)
	if !ok {
		return project.Digest{}, false
	}
	return project.Combine(project.Digest(file.Hash), project.Digest(d.Digest())), true
}

func documentToDiskPayload(path string, doc *document.Document) *DiskPayload {
	payload := &DiskPayload{
		Schema:     diskCacheSchemaVersion,
		Path:       path,
		Components: slices.Clone(doc.Imports.ComponentNames.Keys()),
	}
	for local, id := range doc.Imports.InstanceNames.All() {
		inst := doc.Imports.Instance(id)
		payload.Instances = append(payload.Instances, CachedInstance{
			Local: local,
			Name:  inst.Name,
			Type:  uint32(inst.Type),
		})
	}

	// локальные имена экземпляров идут в порядке выделения id
	instances := doc.Imports.InstanceNames.Keys()
	for name, inst := range doc.Instantiations.All() {
		ci := CachedInstantiation{
			Name:      name,
			Component: doc.Imports.Component(inst.Component).Name,
		}
		for argName, arg := range inst.Arguments.All() {
			ci.Args = append(ci.Args, CachedArg{
				Name:     argName,
				Kind:     uint8(arg.Kind),
				Instance: instances[arg.Instance-1],
				Export:   arg.Export,
			})
		}
		payload.Instantiations = append(payload.Instantiations, ci)
	}
	return payload
}

func errorToDiskPayload(path string, e *diag.Error) *DiskPayload {
	ce := &CachedError{
		Code:    uint16(e.Code),
		Message: e.Message,
		Start:   e.Span.Start,
		End:     e.Span.End,
		Symbol:  e.Symbol,
		Name:    e.Name,
	}
	for _, n := range e.Notes {
		ce.Notes = append(ce.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
	}
	return &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Path:   path,
		Broken: true,
		Error:  ce,
	}
}

// diskPayloadToDocument rebuilds the document. Imports are re-added in
// their original order so ids match the ones a fresh resolve assigns.
func diskPayloadToDocument(payload *DiskPayload) (*document.Document, error) {
	doc := document.New()
	for _, name := range payload.Components {
		doc.Imports.AddComponent(document.ComponentImport{Name: name})
	}
	for _, inst := range payload.Instances {
		doc.Imports.AddInstance(inst.Local, document.InstanceImport{
			Name: inst.Name,
			Type: universe.InterfaceID(inst.Type),
		})
	}
	for _, ci := range payload.Instantiations {
		component, ok := doc.Imports.ComponentNames.Get(ci.Component)
		if !ok {
			return nil, errCorruptPayload
		}
		inst := &document.Instantiation{Component: component}
		for _, arg := range ci.Args {
			instance, ok := doc.Imports.InstanceNames.Get(arg.Instance)
			if !ok {
				return nil, errCorruptPayload
			}
			inst.Arguments.Set(arg.Name, document.InstantiationArg{
				Kind:     document.ArgKind(arg.Kind),
				Instance: instance,
				Export:   arg.Export,
			})
		}
		doc.Instantiations.Set(ci.Name, inst)
	}
	return doc, nil
}

// diskPayloadToError rebuilds the error against file; Rewrite still has
// to run on the result.
func diskPayloadToError(payload *DiskPayload, file source.FileID) *diag.Error {
	ce := payload.Error
	e := diag.Errorf(diag.Code(ce.Code), source.Span{File: file, Start: ce.Start, End: ce.End}, "%s", ce.Message)
	if ce.Symbol != "" || ce.Name != "" {
		e.WithSymbol(ce.Symbol, ce.Name)
	}
	for _, n := range ce.Notes {
		e.WithNote(source.Span{File: file, Start: n.Start, End: n.End}, n.Msg)
	}
	return e
}

var errCorruptPayload = errors.New("corrupt cache payload")
