// Package assets stores downloaded word illustrations on local disk under a
// deterministic, letter-bucketed path, normalized to a fixed square size. The
// same word always resolves to the same file, so repeated enrichment
// overwrites in place instead of accumulating duplicates.
package assets

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/wordnest/wordnest-backend/internal/domain"
)

const (
	// imageSize is the square raster size every stored image is normalized to.
	imageSize = 300

	// jpegQuality is the fixed re-encode quality.
	jpegQuality = 85

	// otherBucket holds words whose first character is non-alphabetic.
	otherBucket = "other"

	// maxDownloadBytes caps the response body read during download.
	maxDownloadBytes = 20 << 20
)

// Store writes normalized word images under root and serves them back under
// publicPrefix.
type Store struct {
	root         string
	publicPrefix string
	httpClient   *http.Client
	log          *slog.Logger
}

// New creates a Store rooted at root. Downloaded bytes are fetched with the
// given timeout. publicPrefix is the URL prefix clients use to retrieve
// stored files.
func New(root, publicPrefix string, downloadTimeout time.Duration, logger *slog.Logger) *Store {
	return &Store{
		root:         root,
		publicPrefix: strings.TrimSuffix(publicPrefix, "/"),
		httpClient:   &http.Client{Timeout: downloadTimeout},
		log:          logger.With("component", "assets"),
	}
}

// StoreImage downloads the image at sourceURL, normalizes it to a
// 300x300 JPEG, and writes it to the deterministic path for word. It returns
// the public URL of the stored file and true, or ("", false) on any download,
// decode, or write failure. Failures are logged, never propagated.
func (s *Store) StoreImage(ctx context.Context, word, sourceURL string) (string, bool) {
	if strings.TrimSpace(word) == "" || strings.TrimSpace(sourceURL) == "" {
		return "", false
	}

	img, err := s.download(ctx, sourceURL)
	if err != nil {
		s.log.WarnContext(ctx, "image download failed",
			slog.String("word", word),
			slog.String("url", sourceURL),
			slog.String("error", err.Error()),
		)
		return "", false
	}

	// Center-crop to a square and scale to the fixed size.
	normalized := imaging.Fill(img, imageSize, imageSize, imaging.Center, imaging.Lanczos)

	relPath := s.RelativePath(word)
	absPath := filepath.Join(s.root, filepath.FromSlash(relPath))

	if err := s.writeAtomic(absPath, normalized); err != nil {
		s.log.WarnContext(ctx, "image write failed",
			slog.String("word", word),
			slog.String("path", absPath),
			slog.String("error", err.Error()),
		)
		return "", false
	}

	return s.publicPrefix + "/" + relPath, true
}

// RelativePath returns the deterministic storage path for word, relative to
// the store root, in slash form: "<bucket>/<sanitized-word>.jpg".
func (s *Store) RelativePath(word string) string {
	name := sanitizeFilename(domain.NormalizeWord(word))
	return path.Join(bucketFor(name), name+".jpg")
}

func (s *Store) download(ctx context.Context, sourceURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// writeAtomic encodes the image to a temp file in the target directory and
// renames it over the final path, so a concurrent reader never sees a partial
// file. Concurrent writers for the same word race on the rename; last write
// wins, which is acceptable since output is idempotent per word.
func (s *Store) writeAtomic(absPath string, img image.Image) error {
	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmpPath := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}

	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmpPath, absPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// bucketFor returns the lowercase first alphabetic character of name, or the
// "other" bucket for anything else (digits, punctuation, non-ASCII).
func bucketFor(name string) string {
	if name == "" {
		return otherBucket
	}
	c := name[0]
	if c >= 'a' && c <= 'z' {
		return string(c)
	}
	return otherBucket
}

// sanitizeFilename keeps letters, digits, hyphens, apostrophes and spaces
// (spaces become hyphens) and drops everything else, including path
// separators and dots, so a hostile word cannot traverse out of the bucket.
// A word stripped to nothing gets a hash-suffixed placeholder so distinct
// words never collapse onto the same file.
func sanitizeFilename(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '\'':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		h := fnv.New32a()
		h.Write([]byte(word))
		return fmt.Sprintf("unnamed-%08x", h.Sum32())
	}
	return b.String()
}
