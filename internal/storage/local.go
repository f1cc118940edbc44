package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"star-admin-api/pkg/uid"
)

// PublicPrefix is the URL path uploads are served under.
const PublicPrefix = "/uploads/"

var (
	// ErrUnsupportedType is returned when the upload's content is not allowed.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrEmptyFile is returned for a zero-byte upload.
	ErrEmptyFile = errors.New("empty file")

	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Kind restricts what may be stored.
type Kind int

const (
	KindImage Kind = iota
	KindPDF
)

// Stored describes a saved upload.
type Stored struct {
	Category string
	Filename string
	// Path is the URL path, e.g. /uploads/support/1700000000000-a.png
	Path string
}

// URL builds the absolute URL for s as seen by the client of r.
func (s Stored) URL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host + s.Path
}

// FilesOnly wraps fsys so directories read as missing. http.FileServer then
// answers 404 instead of rendering an index of every upload.
func FilesOnly(fsys http.FileSystem) http.FileSystem {
	return filesOnly{fsys}
}

type filesOnly struct {
	fsys http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fsys.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

// Local stores uploads on the local filesystem below a root directory.
type Local struct {
	root string
	now  func() time.Time
}

// NewLocal creates the root directory if needed.
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Local{root: root, now: time.Now}, nil
}

// Root returns the directory served under PublicPrefix.
func (l *Local) Root() string {
	return l.root
}

// Save writes src to <root>/<category>/<unixms>-<name> after checking its
// content against kind.
func (l *Local) Save(category, name string, kind Kind, src io.Reader) (Stored, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Stored{}, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return Stored{}, ErrEmptyFile
	}
	if !allowed(kind, name, http.DetectContentType(head)) {
		return Stored{}, ErrUnsupportedType
	}

	dir := filepath.Join(l.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Stored{}, fmt.Errorf("failed to create upload dir: %w", err)
	}

	filename := strconv.FormatInt(l.now().UnixMilli(), 10) + "-" + SanitizeName(name)
	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return Stored{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(head); err != nil {
		return Stored{}, fmt.Errorf("failed to write file: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		return Stored{}, fmt.Errorf("failed to write file: %w", err)
	}

	return Stored{
		Category: category,
		Filename: filename,
		Path:     path.Join(PublicPrefix, category, filename),
	}, nil
}

// SanitizeName replaces whitespace with underscores and drops anything that
// is not safe in a URL path segment.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" || name == "." || name == ".." {
		return uid.New()
	}
	return name
}

func allowed(kind Kind, name, contentType string) bool {
	switch kind {
	case KindImage:
		return strings.HasPrefix(contentType, "image/")
	case KindPDF:
		return contentType == "application/pdf" && strings.EqualFold(filepath.Ext(name), ".pdf")
	default:
		return false
	}
}
