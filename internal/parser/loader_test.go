package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docchunk/internal/document"
)

func TestLoader_LocalTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thoughts.txt")
	if err := os.WriteFile(path, []byte("Line one.\n\nLine two."), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(time.Second, 1024, Options{})
	got, err := l.Load(context.Background(), document.Document{Source: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Line one.\n\nLine two." {
		t.Errorf("unexpected text %q", got)
	}
}

func TestLoader_URLDefaultsToHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<body><p>Hello <a href="/x">there</a>.</p></body>`))
	}))
	defer srv.Close()

	l := NewLoader(time.Second, 1024, Options{})
	got, err := l.Load(context.Background(), document.Document{Source: srv.URL + "/page"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello there." {
		t.Errorf("expected %q, got %q", "Hello there.", got)
	}
}

func TestLoader_URLErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	l := NewLoader(time.Second, 1024, Options{})
	_, err := l.Load(context.Background(), document.Document{Source: srv.URL + "/missing.html"})
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status 404 error, got %v", err)
	}
}

func TestLoader_SizeLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("a", 100)), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(time.Second, 10, Options{})
	if _, err := l.Load(context.Background(), document.Document{Source: path}); err == nil {
		t.Fatal("expected size limit error")
	}
}

func TestLoader_UnsupportedKind(t *testing.T) {
	l := NewLoader(time.Second, 1024, Options{})
	if _, err := l.Load(context.Background(), document.Document{Source: "archive.zip"}); err == nil {
		t.Fatal("expected unsupported kind error")
	}
}

func TestLoader_ExtractUploadedBytes(t *testing.T) {
	l := NewLoader(time.Second, 1024, Options{})
	got, err := l.Extract([]byte("# Head\n\nBody."), document.Document{Source: "upload.md"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Head\n\nBody." {
		t.Errorf("expected %q, got %q", "Head\n\nBody.", got)
	}
}

func TestForKind(t *testing.T) {
	for kind := range SupportedKinds {
		if _, err := ForKind(kind, Options{}); err != nil {
			t.Errorf("kind %q: unexpected error %v", kind, err)
		}
	}
	if IsSupported("zip") {
		t.Error("expected zip to be unsupported")
	}
}

func TestLoader_ConfinedWithoutRootRefusesLocalPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("Hidden."), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(time.Second, 1024, Options{}).Confine(Confinement{})
	_, err := l.Load(context.Background(), document.Document{Source: path})
	if !errors.Is(err, ErrSourceNotAllowed) {
		t.Fatalf("expected ErrSourceNotAllowed, got %v", err)
	}
}

func TestLoader_ConfinedToDocumentRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "inside.txt"), []byte("Inside."), 0o644); err != nil {
		t.Fatal(err)
	}
	outside := filepath.Join(t.TempDir(), "outside.txt")
	if err := os.WriteFile(outside, []byte("Outside."), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "escape.txt")); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(time.Second, 1024, Options{}).Confine(Confinement{DocumentRoot: root})

	got, err := l.Load(context.Background(), document.Document{Source: "inside.txt"})
	if err != nil {
		t.Fatalf("relative path inside root: %v", err)
	}
	if got != "Inside." {
		t.Errorf("unexpected text %q", got)
	}
	if _, err := l.Load(context.Background(), document.Document{Source: filepath.Join(root, "inside.txt")}); err != nil {
		t.Fatalf("absolute path inside root: %v", err)
	}

	refused := []string{
		"/etc/passwd",
		outside,
		"../outside.txt",
		filepath.Join(root, "..", "outside.txt"),
		filepath.Join(root, "escape.txt"),
	}
	for _, src := range refused {
		doc := document.Document{Source: src, Kind: "txt"}
		if err := l.CheckSource(doc); !errors.Is(err, ErrSourceNotAllowed) {
			t.Errorf("CheckSource(%s): expected ErrSourceNotAllowed, got %v", src, err)
		}
		if _, err := l.Load(context.Background(), doc); !errors.Is(err, ErrSourceNotAllowed) {
			t.Errorf("Load(%s): expected ErrSourceNotAllowed, got %v", src, err)
		}
	}
}

func TestLoader_ConfinedRefusesPrivateAddresses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<body><p>Internal.</p></body>`))
	}))
	defer srv.Close()
	doc := document.Document{Source: srv.URL + "/page"}

	l := NewLoader(time.Second, 1024, Options{}).Confine(Confinement{})
	if err := l.CheckSource(doc); err != nil {
		t.Fatalf("URLs pass CheckSource, got %v", err)
	}
	if _, err := l.Load(context.Background(), doc); !errors.Is(err, ErrSourceNotAllowed) {
		t.Fatalf("expected ErrSourceNotAllowed for loopback fetch, got %v", err)
	}

	open := NewLoader(time.Second, 1024, Options{}).Confine(Confinement{AllowPrivateNetworks: true})
	got, err := open.Load(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Internal." {
		t.Errorf("unexpected text %q", got)
	}
}
