package usecase

import (
	"context"

	"github.com/Hrishith30/marketplace/internal/listing/domain"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/Hrishith30/marketplace/internal/platform/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxPhotosPerListing caps how many photos one listing may carry.
	MaxPhotosPerListing = 5
	// MaxPhotoSizeBytes is the per-file upload cap (10MB).
	MaxPhotoSizeBytes = 10 << 20
)

// PhotoFile is one photo to be stored, as received from the client.
type PhotoFile struct {
	Name string
	Data []byte
}

// PhotoUsecase uploads listing photos to object storage.
type PhotoUsecase struct {
	storage domain.Storage
	metrics *metrics.Manager
	logger  *logger.Logger
}

func NewPhotoUsecase(storage domain.Storage, m *metrics.Manager, log *logger.Logger) *PhotoUsecase {
	return &PhotoUsecase{
		storage: storage,
		metrics: m,
		logger:  log.Named("PhotoUsecase"),
	}
}

// UploadPhotos validates the batch, then uploads every file concurrently
// and waits for all of them. The returned URLs preserve the input order,
// so the first file stays the cover photo. If any upload fails the whole
// batch fails; files that did upload are removed so none are orphaned.
func (uc *PhotoUsecase) UploadPhotos(ctx context.Context, files []PhotoFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > MaxPhotosPerListing {
		return nil, domain.NewInvalidInput("at most %d photos per listing, got %d", MaxPhotosPerListing, len(files))
	}
	for _, f := range files {
		if len(f.Data) == 0 {
			return nil, domain.NewInvalidInput("photo %q is empty", f.Name)
		}
		if len(f.Data) > MaxPhotoSizeBytes {
			return nil, domain.NewInvalidInput("photo %q exceeds the %dMB limit", f.Name, MaxPhotoSizeBytes>>20)
		}
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			url, err := uc.storage.Upload(gctx, f.Name, f.Data)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uc.logger.Error("Photo batch upload failed", zap.Int("count", len(files)), zap.Error(err))
		var uploaded []string
		for _, u := range urls {
			if u != "" {
				uploaded = append(uploaded, u)
			}
		}
		uc.RemovePhotos(ctx, uploaded)
		return nil, err
	}

	uc.metrics.PhotosUploadedTotal.Add(float64(len(files)))
	uc.logger.Info("Photo batch uploaded", zap.Int("count", len(files)))
	return urls, nil
}

// RemovePhotos deletes previously uploaded objects. It is the compensation
// step for a failed insert: each failure is logged and the rest of the
// batch is still attempted, but nothing is retried.
func (uc *PhotoUsecase) RemovePhotos(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := uc.storage.Remove(ctx, url); err != nil {
			uc.logger.Error("Failed to remove uploaded photo during rollback", zap.String("url", url), zap.Error(err))
			continue
		}
		uc.metrics.UploadRollbacksTotal.Inc()
	}
}
