package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"trainings/internal/domain"
)

// Media is an ingested payload ready to be stored.
type Media struct {
	BlockID   string
	MIME      string // e.g. image/png
	Extension string // e.g. .png
	Data      []byte
}

// InlineMediaStore keeps media inside the document as data URLs.
type InlineMediaStore struct{}

func (InlineMediaStore) Put(_ context.Context, m Media) (string, error) {
	return "data:" + m.MIME + ";base64," + base64.StdEncoding.EncodeToString(m.Data), nil
}

// DiskMediaStore writes media files under Dir. References are BaseURL plus
// the file name, or a file:// URL when BaseURL is empty.
type DiskMediaStore struct {
	Dir     string
	BaseURL string
}

func NewDiskMediaStore(dir, baseURL string) (*DiskMediaStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &DiskMediaStore{Dir: dir, BaseURL: baseURL}, nil
}

func (s *DiskMediaStore) Put(_ context.Context, m Media) (string, error) {
	name := m.BlockID + "-" + domain.NewID() + m.Extension
	path := filepath.Join(s.Dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, m.Data, 0644); err != nil {
		return "", fmt.Errorf("write media: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write media: %w", err)
	}
	if s.BaseURL == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", err
		}
		return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
	}
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + url.PathEscape(name), nil
}
