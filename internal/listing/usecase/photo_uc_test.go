package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Hrishith30/marketplace/internal/listing/domain"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/Hrishith30/marketplace/internal/platform/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPhotoUsecase(store *MockStorage) *PhotoUsecase {
	return NewPhotoUsecase(store, metrics.NewManager("test"), logger.NewNop())
}

func TestUploadPhotos_PreservesOrder(t *testing.T) {
	store := &MockStorage{}
	store.On("Upload", mock.Anything, "first.jpg", mock.Anything).Return("http://s/first", nil)
	store.On("Upload", mock.Anything, "second.jpg", mock.Anything).Return("http://s/second", nil)
	store.On("Upload", mock.Anything, "third.jpg", mock.Anything).Return("http://s/third", nil)

	uc := newPhotoUsecase(store)
	urls, err := uc.UploadPhotos(context.Background(), []PhotoFile{
		{Name: "first.jpg", Data: []byte("1")},
		{Name: "second.jpg", Data: []byte("2")},
		{Name: "third.jpg", Data: []byte("3")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"http://s/first", "http://s/second", "http://s/third"}, urls)
}

func TestUploadPhotos_EmptyBatch(t *testing.T) {
	uc := newPhotoUsecase(&MockStorage{})
	urls, err := uc.UploadPhotos(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, urls)
}

func TestUploadPhotos_RejectsTooManyFiles(t *testing.T) {
	store := &MockStorage{}
	uc := newPhotoUsecase(store)

	files := make([]PhotoFile, MaxPhotosPerListing+1)
	for i := range files {
		files[i] = PhotoFile{Name: "f.jpg", Data: []byte("x")}
	}
	_, err := uc.UploadPhotos(context.Background(), files)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadPhotos_RejectsOversizedFile(t *testing.T) {
	store := &MockStorage{}
	uc := newPhotoUsecase(store)

	big := bytes.Repeat([]byte("x"), MaxPhotoSizeBytes+1)
	_, err := uc.UploadPhotos(context.Background(), []PhotoFile{{Name: "big.jpg", Data: big}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadPhotos_RejectsEmptyFile(t *testing.T) {
	uc := newPhotoUsecase(&MockStorage{})
	_, err := uc.UploadPhotos(context.Background(), []PhotoFile{{Name: "empty.jpg"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUploadPhotos_PartialFailureCleansUp(t *testing.T) {
	store := &MockStorage{}
	store.On("Upload", mock.Anything, "ok.jpg", mock.Anything).Return("http://s/ok", nil)
	store.On("Upload", mock.Anything, "bad.jpg", mock.Anything).Return("", errors.New("storage down"))
	store.On("Remove", mock.Anything, "http://s/ok").Return(nil)

	uc := newPhotoUsecase(store)
	_, err := uc.UploadPhotos(context.Background(), []PhotoFile{
		{Name: "ok.jpg", Data: []byte("1")},
		{Name: "bad.jpg", Data: []byte("2")},
	})
	require.Error(t, err)
	store.AssertCalled(t, "Remove", mock.Anything, "http://s/ok")
}
