package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dgallion1/docchunk/internal/document"
)

// ErrSourceNotAllowed is returned when a confined Loader refuses a source.
var ErrSourceNotAllowed = errors.New("source not allowed")

// Confinement limits what a Loader reads on behalf of remote callers.
type Confinement struct {
	// DocumentRoot is the only directory local paths may resolve into.
	// Empty refuses every local path.
	DocumentRoot string
	// AllowPrivateNetworks permits fetching loopback, private and
	// link-local addresses.
	AllowPrivateNetworks bool
}

// Loader reads a document from a local path or URL and extracts its raw text.
type Loader struct {
	httpClient *http.Client
	maxBytes   int64
	opts       Options

	confined bool
	root     string
}

func NewLoader(timeout time.Duration, maxBytes int64, opts Options) *Loader {
	return &Loader{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
		opts:       opts,
	}
}

// Load fetches the document's bytes and extracts its raw text.
func (l *Loader) Load(ctx context.Context, doc document.Document) (string, error) {
	p, err := ForKind(doc.ResolvedKind(), l.opts)
	if err != nil {
		return "", err
	}

	var data []byte
	if document.IsURL(doc.Source) {
		data, err = l.fetch(ctx, doc.Source)
	} else {
		var path string
		if path, err = l.localPath(doc.Source); err != nil {
			return "", err
		}
		data, err = l.readFile(path)
	}
	if err != nil {
		return "", err
	}

	text, err := p.Parse(bytes.NewReader(data), filepath.Base(doc.Source))
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", doc.Source, err)
	}
	return text, nil
}

// Confine returns a copy of l that only reads local paths under
// c.DocumentRoot and, unless allowed, refuses private network addresses.
func (l *Loader) Confine(c Confinement) *Loader {
	cl := *l
	cl.confined = true
	cl.root = c.DocumentRoot
	if !c.AllowPrivateNetworks {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = nil
		transport.DialContext = (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
			Control:   refusePrivateAddr,
		}).DialContext
		cl.httpClient = &http.Client{Timeout: l.httpClient.Timeout, Transport: transport}
	}
	return &cl
}

// CheckSource reports whether Load may read doc.Source, without reading it.
func (l *Loader) CheckSource(doc document.Document) error {
	if document.IsURL(doc.Source) {
		return nil
	}
	_, err := l.localPath(doc.Source)
	return err
}

// localPath resolves a local source, enforcing the document root when
// confined. Relative paths are taken relative to the root.
func (l *Loader) localPath(source string) (string, error) {
	if !l.confined {
		return source, nil
	}
	if l.root == "" {
		return "", fmt.Errorf("%w: local paths are disabled", ErrSourceNotAllowed)
	}

	root, err := filepath.Abs(l.root)
	if err != nil {
		return "", fmt.Errorf("resolve document root: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	target := filepath.Clean(source)
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	resolved, err := filepath.EvalSymlinks(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Let the open fail normally, but only inside the root.
		if dir, derr := filepath.EvalSymlinks(filepath.Dir(target)); derr == nil {
			resolved = filepath.Join(dir, filepath.Base(target))
		} else {
			resolved = target
		}
	case err != nil:
		return "", fmt.Errorf("resolve %s: %w", source, err)
	}

	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside the document root", ErrSourceNotAllowed, source)
	}
	return resolved, nil
}

// refusePrivateAddr runs after name resolution, so it also covers hosts that
// resolve to internal addresses and redirects to them.
func refusePrivateAddr(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceNotAllowed, address)
	}
	ip := ap.Addr().Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified() || ip.IsMulticast() {
		return fmt.Errorf("%w: %s is a private address", ErrSourceNotAllowed, ip)
	}
	return nil
}

// Extract parses already-loaded bytes, e.g. an upload.
func (l *Loader) Extract(data []byte, doc document.Document) (string, error) {
	p, err := ForKind(doc.ResolvedKind(), l.opts)
	if err != nil {
		return "", err
	}
	text, err := p.Parse(bytes.NewReader(data), filepath.Base(doc.Source))
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", doc.Source, err)
	}
	return text, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return l.readLimited(f, path)
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	return l.readLimited(resp.Body, rawURL)
}

func (l *Loader) readLimited(r io.Reader, name string) ([]byte, error) {
	if l.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%s exceeds max size (%d bytes)", name, l.maxBytes)
	}
	return data, nil
}
