// Package media stores uploaded images and records them in the files
// table that banners and icon badges reference.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"github.com/sona-group/institution-cms/internal/banner"
)

// URLPrefix is where uploaded files are served from.
const URLPrefix = "/uploads"

// MaxUploadSize caps a single upload.
const MaxUploadSize = 10 << 20

var (
	ErrEmptyFile   = errors.New("file is empty")
	ErrTooLarge    = errors.New("file exceeds the upload limit")
	ErrUnsupported = errors.New("only jpeg, png, webp and gif images can be uploaded")
)

type Store interface {
	Create(ctx context.Context, f banner.ImageRef) (banner.ImageRef, error)
}

type Service struct {
	store  Store
	dir    string
	logger *zap.Logger
}

func NewService(store Store, dir string, logger *zap.Logger) *Service {
	return &Service{store: store, dir: dir, logger: logger}
}

// Upload detects the content type of data, writes it under the upload
// directory and records it. name is the client's file name.
func (s *Service) Upload(ctx context.Context, name string, data []byte) (banner.ImageRef, error) {
	if len(data) == 0 {
		return banner.ImageRef{}, ErrEmptyFile
	}
	if len(data) > MaxUploadSize {
		return banner.ImageRef{}, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	mime := strings.SplitN(mt.String(), ";", 2)[0]
	if !banner.IsAllowedMime(mime) {
		return banner.ImageRef{}, fmt.Errorf("%w (got %s)", ErrUnsupported, mime)
	}

	ref := banner.ImageRef{
		Name: filepath.Base(name),
		Mime: mime,
		// sizes are kept in kilobytes
		Size: math.Round(float64(len(data))/1024*100) / 100,
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		ref.Width, ref.Height = &cfg.Width, &cfg.Height
	} else {
		s.logger.Warn("could not read image dimensions", zap.String("name", name), zap.Error(err))
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return banner.ImageRef{}, err
	}
	stored := uuid.NewString() + mt.Extension()
	if err := os.WriteFile(filepath.Join(s.dir, stored), data, 0o644); err != nil {
		return banner.ImageRef{}, err
	}
	ref.URL = URLPrefix + "/" + stored

	created, err := s.store.Create(ctx, ref)
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, stored))
		return banner.ImageRef{}, err
	}
	s.logger.Info("media uploaded", zap.Int("id", created.ID), zap.String("url", created.URL), zap.String("mime", mime))
	return created, nil
}
