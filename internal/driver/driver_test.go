package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"waldo/internal/diag"
	"waldo/internal/document"
	"waldo/internal/project"
	"waldo/internal/token"
	"waldo/internal/universe"
)

func testUniverse() *universe.Static {
	u := universe.NewStatic()
	logging := u.AddPackage("wasi:logging@0.1.0")
	u.AddInterface(logging, "logging")
	pkg := u.AddPackage("pkg:name")
	u.AddInterface(pkg, "iface")
	return u
}

// undigested hides Static's Digest so results are not cacheable.
type undigested struct{ universe.Universe }

const goodDoc = `import app: component;
import log: interface(wasi:logging/logging@0.1.0);
import other: interface(pkg:name/iface);
let a = instantiate(app, logging: log, extra: other.thing);
let b = instantiate(app);
`

const badDoc = `import app: component;
import app: component;
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTokenizeCollectsAllLexErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lex.wld", "let # x $ ;")
	res, err := Tokenize(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Bag.Len(); got != 2 {
		t.Fatalf("bag has %d diagnostics, want 2", got)
	}
	if last := res.Tokens[len(res.Tokens)-1]; last.Kind != token.EOF {
		t.Fatalf("last token = %v, want EOF", last.Kind)
	}
}

func TestTokenizeMissingFile(t *testing.T) {
	if _, err := Tokenize(filepath.Join(t.TempDir(), "nope.wld"), 10); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	res, err := Parse(writeFile(t, dir, "ok.wld", goodDoc))
	if err != nil {
		t.Fatal(err)
	}
	if res.Err != nil {
		t.Fatalf("unexpected parse error: %v", res.Err)
	}
	if got := len(res.Builder.Files.Get(res.FileID).Items); got != 5 {
		t.Fatalf("parsed %d items, want 5", got)
	}

	res, err = Parse(writeFile(t, dir, "bad.wld", "import a component;"))
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(res.Err, diag.ErrParse) {
		t.Fatalf("expected a parse error, got %v", res.Err)
	}
	if !strings.Contains(res.Err.Error(), "bad.wld:1:10:") {
		t.Fatalf("error not rewritten: %q", res.Err.Error())
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	res, err := Check(ctx, testUniverse(), writeFile(t, dir, "ok.wld", goodDoc), CheckOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() || res.Document == nil {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if got := strings.Join(res.Document.Instantiations.Keys(), ","); got != "a,b" {
		t.Fatalf("instantiations = %s", got)
	}
	if len(res.Timing.Phases) != 2 {
		t.Fatalf("timing phases = %+v", res.Timing.Phases)
	}

	res, err = Check(ctx, testUniverse(), writeFile(t, dir, "bad.wld", badDoc), CheckOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(res.Err, diag.ErrDuplicateName) || res.Document != nil {
		t.Fatalf("expected DuplicateName, got %v", res.Err)
	}

	if _, err := Check(ctx, testUniverse(), filepath.Join(dir, "missing.wld"), CheckOptions{}); err == nil {
		t.Fatal("expected an I/O error")
	}
	if _, err := Check(ctx, nil, filepath.Join(dir, "ok.wld"), CheckOptions{}); err == nil {
		t.Fatal("expected an error without a universe")
	}
}

func TestCheckCanceled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ok.wld", goodDoc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Check(ctx, testUniverse(), path, CheckOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCheckCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	u := testUniverse()
	ctx := context.Background()
	opts := CheckOptions{Cache: cache}

	tests := []struct {
		name string
		src  string
	}{
		{"ok.wld", goodDoc},
		{"bad.wld", badDoc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name, tt.src)
			first, err := Check(ctx, u, path, opts)
			if err != nil {
				t.Fatal(err)
			}
			if first.Cached {
				t.Fatal("first check must not be cached")
			}
			second, err := Check(ctx, u, path, opts)
			if err != nil {
				t.Fatal(err)
			}
			if !second.Cached {
				t.Fatal("second check should hit the cache")
			}
			if (first.Err == nil) != (second.Err == nil) {
				t.Fatalf("errors differ: %v vs %v", first.Err, second.Err)
			}
			if first.Err != nil {
				if first.Err.Error() != second.Err.Error() {
					t.Fatalf("cached error text differs:\n%s\n---\n%s", first.Err, second.Err)
				}
				if !errors.Is(second.Err, diag.ErrDuplicateName) {
					t.Fatalf("cached error lost its kind: %v", second.Err)
				}
				return
			}
			assertSameDocument(t, first.Document, second.Document)
		})
	}
}

func TestCheckCacheKeyedByUniverse(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, dir, "ok.wld", goodDoc)
	ctx := context.Background()
	opts := CheckOptions{Cache: cache}

	if _, err := Check(ctx, testUniverse(), path, opts); err != nil {
		t.Fatal(err)
	}

	// в другой вселенной интерфейса нет, кэш не должен отвечать
	other := universe.NewStatic()
	other.AddPackage("wasi:logging@0.1.0")
	res, err := Check(ctx, other, path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached || !errors.Is(res.Err, diag.ErrUnresolvedName) {
		t.Fatalf("cached=%v err=%v", res.Cached, res.Err)
	}

	res, err = Check(ctx, undigested{testUniverse()}, path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Fatal("a universe without a digest must bypass the cache")
	}
}

func TestDiskCacheSchemaAndDrop(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	key := project.Combine(project.Digest{1}, project.Digest{2})

	var out DiskPayload
	if hit, err := cache.Get(key, &out); err != nil || hit {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}
	if err := cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion + 1, Path: "x.wld"}); err != nil {
		t.Fatal(err)
	}
	if hit, err := cache.Get(key, &out); err != nil || hit {
		t.Fatalf("stale schema: hit=%v err=%v", hit, err)
	}
	if err := cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion, Path: "x.wld"}); err != nil {
		t.Fatal(err)
	}
	if hit, err := cache.Get(key, &out); err != nil || !hit || out.Path != "x.wld" {
		t.Fatalf("hit=%v err=%v payload=%+v", hit, err, out)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if hit, _ := cache.Get(key, &out); hit {
		t.Fatal("DropAll left the entry behind")
	}

	var nilCache *DiskCache
	if err := nilCache.Put(key, &out); err != nil {
		t.Fatal(err)
	}
	if hit, err := nilCache.Get(key, &out); hit || err != nil {
		t.Fatal("nil cache must always miss")
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.wld", goodDoc)
	writeFile(t, dir, "a.wld", badDoc)
	writeFile(t, dir, "nested/c.wld", "let x = instantiate(missing);")
	writeFile(t, dir, "notes.txt", "ignored")

	sink := &recordingSink{}
	results, err := CheckDir(context.Background(), testUniverse(), dir, CheckOptions{Jobs: 2, Progress: sink})
	if err != nil {
		t.Fatal(err)
	}

	var paths []string
	for _, r := range results {
		rel, _ := filepath.Rel(dir, r.Path)
		paths = append(paths, filepath.ToSlash(rel))
	}
	if got := strings.Join(paths, ","); got != "a.wld,b.wld,nested/c.wld" {
		t.Fatalf("result order = %s", got)
	}
	if failed, cached := Summary(results); failed != 2 || cached != 0 {
		t.Fatalf("failed=%d cached=%d", failed, cached)
	}
	if !strings.HasPrefix(results[2].Err.Error(), "nested/c.wld:1:21:") {
		t.Fatalf("path not relative to dir: %q", results[2].Err.Error())
	}

	final := map[string]Status{}
	for _, e := range sink.events {
		if e.Status == StatusDone || e.Status == StatusError {
			final[e.File] = e.Status
		}
	}
	if len(final) != 3 {
		t.Fatalf("final events = %v", final)
	}
	if final[results[1].Path] != StatusDone || final[results[0].Path] != StatusError {
		t.Fatalf("final events = %v", final)
	}
}

func TestCheckDirEmpty(t *testing.T) {
	results, err := CheckDir(context.Background(), testUniverse(), t.TempDir(), CheckOptions{})
	if err != nil || len(results) != 0 {
		t.Fatalf("results=%v err=%v", results, err)
	}
}

func assertSameDocument(t *testing.T, want, got *document.Document) {
	t.Helper()
	if a, b := strings.Join(want.Imports.ComponentNames.Keys(), ","), strings.Join(got.Imports.ComponentNames.Keys(), ","); a != b {
		t.Fatalf("components %s != %s", a, b)
	}
	for local, id := range want.Imports.InstanceNames.All() {
		gid, ok := got.Imports.InstanceNames.Get(local)
		if !ok || gid != id || *got.Imports.Instance(gid) != *want.Imports.Instance(id) {
			t.Fatalf("instance %s differs", local)
		}
	}
	if a, b := strings.Join(want.Instantiations.Keys(), ","), strings.Join(got.Instantiations.Keys(), ","); a != b {
		t.Fatalf("instantiations %s != %s", a, b)
	}
	for name, inst := range want.Instantiations.All() {
		other, _ := got.Instantiations.Get(name)
		if other.Component != inst.Component || other.Arguments.Len() != inst.Arguments.Len() {
			t.Fatalf("instantiation %s differs", name)
		}
		for arg, v := range inst.Arguments.All() {
			if ov, ok := other.Arguments.Get(arg); !ok || ov != v {
				t.Fatalf("%s.%s = %+v, want %+v", name, arg, ov, v)
			}
		}
	}
}
