package controller

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/bqtran/filevault/entity"
	"github.com/bqtran/filevault/utils"
	"github.com/gin-gonic/gin"
)

// ObjectWriter is the slice of the object store the upload pipeline needs.
type ObjectWriter interface {
	PutObjectStream(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error)
}

func (ctrl *Controller) UploadFiles(c *gin.Context) {
	ctx := c.Request.Context()

	form, err := c.MultipartForm()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to parse multipart form: %v", err)
		utils.JSON400(c, "Invalid multipart form")
		return
	}

	parts := form.File["files"]
	if len(parts) == 0 {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] No files provided")
		utils.JSON400(c, "No files provided")
		return
	}

	ctx, span := tracer.Start(ctx, "upload.batch")
	defer span.End()

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Upload] Uploading batch of %d files", len(parts))

	records, storedKeys, err := buildBatch(ctx, ctrl.Infra.Minio, parts)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Batch aborted: %v", err)
		ctrl.queueOrphans(ctx, storedKeys, "object store write failed mid-batch")
		utils.JSON500(c, "Failed to store uploaded files")
		return
	}

	if err := ctrl.Repository.FileRepo.BulkCreate(records); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to persist metadata for %d files: %v", len(records), err)
		ctrl.queueOrphans(ctx, storedKeys, "metadata insert failed")
		utils.JSON500(c, "Failed to save file metadata")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Upload] Committed %d files", len(records))
	c.Redirect(http.StatusSeeOther, "/files")
}

// buildBatch uploads every part to the object store in order and collects
// the metadata rows for the single bulk insert that follows. The first
// failed write aborts the batch; the keys written so far are returned so
// the caller can queue them for cleanup.
func buildBatch(ctx context.Context, store ObjectWriter, parts []*multipart.FileHeader) ([]entity.File, []string, error) {
	records := make([]entity.File, 0, len(parts))
	storedKeys := make([]string, 0, len(parts))

	for _, part := range parts {
		fileName := utils.RepairFilename(part.Filename)
		storageKey := utils.NewStorageKey(fileName)

		contentType := part.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		src, err := part.Open()
		if err != nil {
			return nil, storedKeys, fmt.Errorf("open part %q: %w", fileName, err)
		}

		blobURL, err := store.PutObjectStream(ctx, storageKey, src, part.Size, contentType)
		src.Close()
		if err != nil {
			return nil, storedKeys, fmt.Errorf("store %q: %w", fileName, err)
		}

		storedKeys = append(storedKeys, storageKey)
		records = append(records, entity.File{
			FileName:   fileName,
			Extension:  utils.DeriveExtension(fileName),
			StorageKey: storageKey,
			BlobURL:    blobURL,
			SizeBytes:  part.Size,
		})
	}

	return records, storedKeys, nil
}

// queueOrphans hands blobs without metadata to the async cleanup consumer.
// The pipeline itself never deletes; reconciliation happens out of band.
func (ctrl *Controller) queueOrphans(ctx context.Context, storageKeys []string, reason string) {
	if len(storageKeys) == 0 {
		return
	}
	if err := ctrl.Infra.Produce.Cleanup.PublishOrphanedBlobs(ctx, storageKeys, reason); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to queue %d orphaned blobs: %v", len(storageKeys), err)
	}
}
