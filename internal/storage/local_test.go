package storage

import (
	"bytes"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"star-admin-api/pkg/uid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	l.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return l
}

func TestLocal_SaveImage(t *testing.T) {
	l := newTestLocal(t)

	s, err := l.Save("support", "my avatar.png", KindImage, bytes.NewReader(pngHeader))
	require.NoError(t, err)

	assert.Equal(t, "1700000000000-my_avatar.png", s.Filename)
	assert.Equal(t, "/uploads/support/1700000000000-my_avatar.png", s.Path)

	data, err := os.ReadFile(filepath.Join(l.Root(), "support", s.Filename))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestLocal_SavePDF(t *testing.T) {
	l := newTestLocal(t)
	pdf := []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n")

	s, err := l.Save("policyDocuments", "Terms of Service.pdf", KindPDF, bytes.NewReader(pdf))
	require.NoError(t, err)
	assert.Equal(t, "1700000000000-Terms_of_Service.pdf", s.Filename)

	_, err = l.Save("policyDocuments", "terms.txt", KindPDF, bytes.NewReader(pdf))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocal_RejectsWrongContent(t *testing.T) {
	l := newTestLocal(t)

	_, err := l.Save("support", "fake.png", KindImage, strings.NewReader("just text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = l.Save("support", "empty.png", KindImage, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "passwd", SanitizeName("../../etc/passwd"))
	assert.Equal(t, "a_b_c.pdf", SanitizeName("  a b\tc.pdf "))
	assert.Equal(t, "x.png", SanitizeName(`C:\temp\x.png`))
	assert.True(t, uid.IsValid(SanitizeName("")))
}

func TestStored_URL(t *testing.T) {
	s := Stored{Path: "/uploads/star/1-a.png"}

	r := httptest.NewRequest("POST", "/api/starManager/image", nil)
	r.Host = "admin.example.com"
	assert.Equal(t, "http://admin.example.com/uploads/star/1-a.png", s.URL(r))

	r.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://admin.example.com/uploads/star/1-a.png", s.URL(r))
}

func TestFilesOnly_HidesDirectories(t *testing.T) {
	l := newTestLocal(t)
	s, err := l.Save("support", "face.png", KindImage, bytes.NewReader(pngHeader))
	require.NoError(t, err)

	srv := http.StripPrefix(PublicPrefix, http.FileServer(FilesOnly(http.Dir(l.Root()))))

	tests := []struct {
		path string
		want int
	}{
		{s.Path, http.StatusOK},
		{PublicPrefix, http.StatusNotFound},
		{PublicPrefix + "support/", http.StatusNotFound},
		{PublicPrefix + "support", http.StatusNotFound},
		{PublicPrefix + "support/missing.png", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.want, rec.Code)
			assert.NotContains(t, rec.Body.String(), s.Filename)
			if tt.want == http.StatusOK {
				assert.Equal(t, pngHeader, rec.Body.Bytes())
			}
		})
	}
}
