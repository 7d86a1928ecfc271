package controller

import (
	"archive/zip"
	"compress/flate"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bqtran/filevault/entity"
	"github.com/bqtran/filevault/infra"
	"github.com/bqtran/filevault/utils"
	"github.com/gin-gonic/gin"
)

// ObjectReader is the slice of the object store the archive export needs.
type ObjectReader interface {
	GetObjectStream(ctx context.Context, key string) (io.ReadCloser, int64, error)
}

func (ctrl *Controller) DownloadMultiple(c *gin.Context) {
	ctx := c.Request.Context()

	ids := parseIDList(c.Query("ids"))
	if len(ids) == 0 {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Export] No valid ids in %q", c.Query("ids"))
		utils.JSON400(c, "No file ids provided")
		return
	}

	ctx, span := tracer.Start(ctx, "export.archive")
	defer span.End()

	records, err := ctrl.Repository.FileRepo.FindByIDs(ids)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Export] Failed to resolve %d ids: %v", len(ids), err)
		utils.JSON500(c, "Failed to load file metadata")
		return
	}

	streamArchive(ctx, c, ctrl.Infra.Minio, ctrl.Infra.Logger, records)
}

// streamArchive sends the zip response. Headers go out before the first
// entry; the archive is built on the response stream, never assembled in
// memory. Once headers are sent a failure can only be reported by dropping
// the connection, so the handler panics with http.ErrAbortHandler, which
// net/http turns into an abrupt close instead of a second response.
func streamArchive(ctx context.Context, c *gin.Context, store ObjectReader, logger *infra.LoggerClient, records []entity.File) {
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="files.zip"`)
	c.Status(http.StatusOK)

	written, err := writeArchive(ctx, c.Writer, store, logger, records)
	if err != nil {
		logger.ErrorWithContextf(ctx, err, "[Export] Archive aborted after %d entries: %v", written, err)
		panic(http.ErrAbortHandler)
	}

	logger.InfoWithContextf(ctx, "[Export] Streamed archive with %d/%d entries", written, len(records))
}

// parseIDList splits a comma-separated id list, dropping empty and
// non-numeric entries and duplicates while preserving order.
func parseIDList(raw string) []int64 {
	seen := make(map[int64]bool)
	ids := make([]int64, 0)
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// writeArchive streams each record's object into one zip on w, fetching one
// file at a time so peak memory stays around a single file plus compressor
// buffers. A failed fetch skips that entry; a failed write to the archive
// aborts the export. Returns the number of entries written.
func writeArchive(ctx context.Context, w io.Writer, store ObjectReader, logger *infra.LoggerClient, records []entity.File) (int, error) {
	zw := zip.NewWriter(w)
	// Low-frequency, user-initiated exports: favor size over CPU.
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	written := 0
	for _, record := range records {
		obj, _, err := store.GetObjectStream(ctx, record.StorageKey)
		if err != nil {
			logger.WarningWithContextf(ctx, "[Export] Skipping %q (key %q): %v", record.FileName, record.StorageKey, err)
			continue
		}

		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     record.FileName,
			Method:   zip.Deflate,
			Modified: record.UploadedAt,
		})
		if err != nil {
			obj.Close()
			zw.Close()
			return written, fmt.Errorf("create entry %q: %w", record.FileName, err)
		}

		if _, err := io.Copy(entry, obj); err != nil {
			obj.Close()
			zw.Close()
			return written, fmt.Errorf("write entry %q: %w", record.FileName, err)
		}
		obj.Close()
		written++
	}

	if err := zw.Close(); err != nil {
		return written, fmt.Errorf("finalize archive: %w", err)
	}
	return written, nil
}
