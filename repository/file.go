package repository

import (
	"strings"

	"github.com/bqtran/filevault/entity"
	"gorm.io/gorm"
)

// Sortable listing columns. ORDER BY cannot use bound parameters, so the
// column and direction are validated against these whitelists before they
// are interpolated into the query. Any new sortable column must be added
// here as well.
var allowedSortColumns = map[string]bool{
	"file_name":   true,
	"uploaded_at": true,
	"size_bytes":  true,
	"extension":   true,
}

const (
	defaultSortColumn = "uploaded_at"
	defaultSortOrder  = "DESC"
)

// NormalizeSort maps untrusted sort parameters onto the whitelist. Unknown
// columns fall back to uploaded_at, unknown directions to DESC.
func NormalizeSort(sortBy, sortOrder string) (string, string) {
	column := sortBy
	if !allowedSortColumns[column] {
		column = defaultSortColumn
	}

	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = defaultSortOrder
	}

	return column, order
}

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// BulkCreate inserts all rows of an upload batch in a single multi-row
// parameterized INSERT. Either every row is committed or none is.
func (r *FileRepository) BulkCreate(files []entity.File) error {
	if len(files) == 0 {
		return nil
	}
	return r.db.Create(&files).Error
}

// List returns all files ordered by a column/direction pair that must have
// passed through NormalizeSort.
func (r *FileRepository) List(orderBy, order string) ([]entity.File, error) {
	var files []entity.File
	err := r.db.Order(orderBy + " " + order).Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepository) FindByID(id int64) (*entity.File, error) {
	var file entity.File
	err := r.db.Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// FindByIDs resolves an id set with one membership query, ordered by id so
// export output stays deterministic.
func (r *FileRepository) FindByIDs(ids []int64) ([]entity.File, error) {
	var files []entity.File
	err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepository) Delete(id int64) error {
	return r.db.Delete(&entity.File{}, "id = ?", id).Error
}
