package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bqtran/filevault/entity"
	"github.com/bqtran/filevault/repository"
	"github.com/bqtran/filevault/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ObjectRemover is the slice of the object store the delete path needs.
type ObjectRemover interface {
	RemoveObject(ctx context.Context, key string) error
}

// FileStore is the slice of the metadata store the delete path needs.
type FileStore interface {
	FindByID(id int64) (*entity.File, error)
	Delete(id int64) error
}

func (ctrl *Controller) ListFiles(c *gin.Context) {
	ctx := c.Request.Context()

	orderBy, order := repository.NormalizeSort(c.Query("sort"), c.Query("order"))

	files, err := ctrl.Repository.FileRepo.List(orderBy, order)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to list files: %v", err)
		utils.JSON500(c, "Failed to load file list")
		return
	}

	c.HTML(http.StatusOK, "file_list.html", gin.H{
		"Files":        files,
		"CurrentSort":  orderBy,
		"CurrentOrder": order,
	})
}

func (ctrl *Controller) DeleteFile(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[File] Invalid file id %q", c.Param("id"))
		utils.JSON400(c, "Invalid file id")
		return
	}

	file, err := removeFile(ctx, ctrl.Infra.Minio, ctrl.Repository.FileRepo, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[File] File %d not found", id)
			utils.JSON404(c, "File not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to delete file %d: %v", id, err)
		utils.JSON500(c, "Failed to delete file")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[File] Deleted file %d (%s)", id, file.FileName)
	c.Redirect(http.StatusSeeOther, "/files")
}

// removeFile deletes the object first, then the metadata row. A missing
// object counts as deleted, so a dangling metadata row can never survive a
// partial delete. An unknown id surfaces as gorm.ErrRecordNotFound.
func removeFile(ctx context.Context, store ObjectRemover, files FileStore, id int64) (*entity.File, error) {
	file, err := files.FindByID(id)
	if err != nil {
		return nil, err
	}

	if err := store.RemoveObject(ctx, file.StorageKey); err != nil {
		return nil, fmt.Errorf("remove object %q: %w", file.StorageKey, err)
	}

	if err := files.Delete(id); err != nil {
		return nil, fmt.Errorf("delete metadata for file %d: %w", id, err)
	}
	return file, nil
}
