package cron

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/mpesa-statement-api/pkg/storage"
)

type fakeStorage struct {
	files   []*storage.FileInfo
	deleted []uuid.UUID

	listErr   error
	deleteErr map[uuid.UUID]error
}

func (f *fakeStorage) Upload(context.Context, string, string, io.Reader) (*storage.FileInfo, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStorage) Delete(_ context.Context, id uuid.UUID) error {
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStorage) List(context.Context) ([]*storage.FileInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files, nil
}

func (f *fakeStorage) GetInfo(context.Context, uuid.UUID) (*storage.FileInfo, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStorage) Location(context.Context, uuid.UUID) (string, error) {
	return "", errors.New("not implemented")
}

func fileAged(age time.Duration) *storage.FileInfo {
	return &storage.FileInfo{
		ID:        uuid.New(),
		Name:      "statement.pdf",
		CreatedAt: time.Now().Add(-age),
	}
}

func TestScheduler_CleanupExpiredUploads(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("deletes only uploads past the ttl", func(t *testing.T) {
		expired := fileAged(25 * time.Hour)
		fresh := fileAged(time.Hour)
		files := &fakeStorage{files: []*storage.FileInfo{expired, fresh}}

		s := NewScheduler(files, 24*time.Hour, logger)
		s.cleanupExpiredUploads()

		assert.Equal(t, []uuid.UUID{expired.ID}, files.deleted)
	})

	t.Run("a failed delete does not stop the sweep", func(t *testing.T) {
		stuck := fileAged(48 * time.Hour)
		expired := fileAged(48 * time.Hour)
		files := &fakeStorage{
			files:     []*storage.FileInfo{stuck, expired},
			deleteErr: map[uuid.UUID]error{stuck.ID: errors.New("file locked")},
		}

		s := NewScheduler(files, 24*time.Hour, logger)
		s.cleanupExpiredUploads()

		assert.Equal(t, []uuid.UUID{expired.ID}, files.deleted)
	})

	t.Run("a listing failure deletes nothing", func(t *testing.T) {
		files := &fakeStorage{listErr: errors.New("disk gone")}

		s := NewScheduler(files, 24*time.Hour, logger)
		s.cleanupExpiredUploads()

		assert.Empty(t, files.deleted)
	})
}

func TestScheduler_StartStop(t *testing.T) {
	files := &fakeStorage{}
	s := NewScheduler(files, 24*time.Hour, slog.New(slog.DiscardHandler))

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)

	done := s.Stop()
	select {
	case <-done.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
