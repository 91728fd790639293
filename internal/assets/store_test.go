package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), "/uploads", 5*time.Second, newTestLogger())
}

// testPNG renders a small solid rectangle so the store has real pixels to
// decode and resize.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func imageServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRelativePath(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	tests := []struct {
		word string
		want string
	}{
		{"apple", "a/apple.jpg"},
		{"Apple", "a/apple.jpg"},
		{"  zebra  ", "z/zebra.jpg"},
		{"ice cream", "i/ice-cream.jpg"},
		{"o'clock", "o/o'clock.jpg"},
		{"42", "other/42.jpg"},
		{"../../etc/passwd", "e/etcpasswd.jpg"},
		{"苹果", "u/unnamed-91036441.jpg"},
	}

	for _, tt := range tests {
		if got := s.RelativePath(tt.word); got != tt.want {
			t.Errorf("RelativePath(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestRelativePath_StrippedWordsDoNotCollide(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	first := s.RelativePath("苹果")
	second := s.RelativePath("犬")
	if first == second {
		t.Errorf("distinct non-ASCII words share a path: %q", first)
	}
	if first != s.RelativePath("苹果") {
		t.Error("hash-suffixed path is not deterministic")
	}
}

func TestRelativePath_Deterministic(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	first := s.RelativePath("butterfly")
	second := s.RelativePath("Butterfly ")
	if first != second {
		t.Errorf("same word produced different paths: %q vs %q", first, second)
	}
}

func TestStoreImage_DownloadsResizesAndBuckets(t *testing.T) {
	t.Parallel()

	srv := imageServer(t, testPNG(t, 640, 480))

	root := t.TempDir()
	s := New(root, "/uploads/", 5*time.Second, newTestLogger())

	got, ok := s.StoreImage(context.Background(), "apple", srv.URL+"/img.png")
	if !ok {
		t.Fatal("StoreImage returned ok=false")
	}
	if got != "/uploads/a/apple.jpg" {
		t.Errorf("public URL = %q, want /uploads/a/apple.jpg", got)
	}

	absPath := filepath.Join(root, "a", "apple.jpg")
	f, err := os.Open(absPath)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	defer f.Close()

	stored, err := imaging.Decode(f)
	if err != nil {
		t.Fatalf("decode stored file: %v", err)
	}
	if b := stored.Bounds(); b.Dx() != imageSize || b.Dy() != imageSize {
		t.Errorf("stored size = %dx%d, want %dx%d", b.Dx(), b.Dy(), imageSize, imageSize)
	}

	entries, err := os.ReadDir(filepath.Join(root, "a"))
	if err != nil {
		t.Fatalf("read bucket dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("bucket contains %d files, want 1 (no leftover temp files)", len(entries))
	}
}

func TestStoreImage_OverwritesInPlace(t *testing.T) {
	t.Parallel()

	srv := imageServer(t, testPNG(t, 100, 100))

	root := t.TempDir()
	s := New(root, "/uploads", 5*time.Second, newTestLogger())

	first, ok := s.StoreImage(context.Background(), "apple", srv.URL+"/one.png")
	if !ok {
		t.Fatal("first StoreImage failed")
	}
	second, ok := s.StoreImage(context.Background(), "apple", srv.URL+"/two.png")
	if !ok {
		t.Fatal("second StoreImage failed")
	}
	if first != second {
		t.Errorf("repeated store produced different URLs: %q vs %q", first, second)
	}

	entries, err := os.ReadDir(filepath.Join(root, "a"))
	if err != nil {
		t.Fatalf("read bucket dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("bucket contains %d files, want 1", len(entries))
	}
}

func TestStoreImage_Failures(t *testing.T) {
	t.Parallel()

	badStatus := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(badStatus.Close)

	notAnImage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not an image</html>"))
	}))
	t.Cleanup(notAnImage.Close)

	s := newTestStore(t)

	tests := []struct {
		name      string
		word      string
		sourceURL string
	}{
		{"empty word", "", "http://example.com/img.png"},
		{"empty url", "apple", ""},
		{"unreachable host", "apple", "http://127.0.0.1:1/img.png"},
		{"upstream 404", "apple", badStatus.URL + "/img.png"},
		{"undecodable body", "apple", notAnImage.URL + "/img.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, ok := s.StoreImage(context.Background(), tt.word, tt.sourceURL); ok {
				t.Error("StoreImage returned ok=true, want false")
			}
		})
	}
}
