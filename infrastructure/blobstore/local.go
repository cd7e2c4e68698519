package blobstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"tiktok-studio/domain/repository"
	"tiktok-studio/infrastructure/logger"
)

// Local stages media on the local disk, served under baseURL. TikTok pulls
// carousel images from these URLs, so the serving route must stay on the
// app's verified domain.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates the staging directory if needed. baseURL is the public
// prefix the stored files are served under, e.g. https://host/files.
func NewLocal(dir, baseURL string) (repository.IBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put stores the content under a random-suffixed name and returns its URL.
func (l *Local) Put(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	stored := randomizeName(name)
	f, err := os.Create(filepath.Join(l.dir, stored))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return l.baseURL + "/" + stored, nil
}

// Delete removes staged blobs by URL. Unknown or foreign URLs are skipped.
func (l *Local) Delete(urls []string) error {
	var firstErr error
	for _, u := range urls {
		name, ok := l.storedName(u)
		if !ok {
			continue
		}
		if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ScheduleDelete removes the blobs after delay, giving the remote platform
// time to pull them first. Fire-and-forget: there is no result channel.
func (l *Local) ScheduleDelete(urls []string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if err := l.Delete(urls); err != nil {
			logger.GetLogger().WithField("error", err).Debug("Delayed staging cleanup incomplete")
		}
	})
}

func (l *Local) storedName(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" || strings.Contains(name, "..") {
		return "", false
	}
	return name, true
}

func randomizeName(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" || stem == "." {
		stem = "blob"
	}
	suffix := make([]byte, 8)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("%s-%s%s", stem, hex.EncodeToString(suffix), ext)
}
