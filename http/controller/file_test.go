package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/bqtran/filevault/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeFileStore struct {
	files   map[int64]entity.File
	deleted []int64
}

func (f *fakeFileStore) FindByID(id int64) (*entity.File, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &file, nil
}

func (f *fakeFileStore) Delete(id int64) error {
	delete(f.files, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeObjectRemover struct {
	removed []string
	err     error
}

func (f *fakeObjectRemover) RemoveObject(ctx context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, key)
	return nil
}

func TestRemoveFileDeletesObjectThenRow(t *testing.T) {
	files := &fakeFileStore{files: map[int64]entity.File{
		7: {ID: 7, FileName: "report.pdf", StorageKey: "k7/report.pdf"},
	}}
	store := &fakeObjectRemover{}

	file, err := removeFile(context.Background(), store, files, 7)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", file.FileName)
	assert.Equal(t, []string{"k7/report.pdf"}, store.removed)
	assert.Equal(t, []int64{7}, files.deleted)
	assert.NotContains(t, files.files, int64(7))
}

func TestRemoveFileUnknownIDLeavesStoresUntouched(t *testing.T) {
	files := &fakeFileStore{files: map[int64]entity.File{
		7: {ID: 7, FileName: "report.pdf", StorageKey: "k7/report.pdf"},
	}}
	store := &fakeObjectRemover{}

	_, err := removeFile(context.Background(), store, files, 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, store.removed)
	assert.Empty(t, files.deleted)
	assert.Len(t, files.files, 1)
}

func TestRemoveFileKeepsRowWhenObjectDeleteFails(t *testing.T) {
	files := &fakeFileStore{files: map[int64]entity.File{
		7: {ID: 7, FileName: "report.pdf", StorageKey: "k7/report.pdf"},
	}}
	store := &fakeObjectRemover{err: errors.New("storage unavailable")}

	_, err := removeFile(context.Background(), store, files, 7)
	require.Error(t, err)
	assert.Empty(t, files.deleted)
	assert.Contains(t, files.files, int64(7))
}
