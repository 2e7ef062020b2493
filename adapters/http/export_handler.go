package http

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/career-planner/adapters/respstore"
	"github.com/khoahotran/career-planner/internal/application/usecase/export"
	"github.com/khoahotran/career-planner/pkg/apperror"
)

var exportContentTypes = map[string]string{
	".json": "application/json",
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type ExportHandler struct {
	exportUC *export.ExportUseCase
	store    *respstore.LocalStore
}

func NewExportHandler(uc *export.ExportUseCase, store *respstore.LocalStore) *ExportHandler {
	return &ExportHandler{exportUC: uc, store: store}
}

// Export writes the export file for one resource and returns its name
// and a summary. Format comes from ?format= (json when omitted); the
// file itself is fetched through Download.
func (h *ExportHandler) Export(resource export.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := GetOwnerIDFromGinContext(c)
		if !ok {
			c.Error(apperror.NewPermissionDenied("owner not found in context"))
			return
		}

		out, err := h.exportUC.Execute(c.Request.Context(), export.ExportInput{
			OwnerID:  ownerID,
			Resource: resource,
			Format:   export.Format(c.DefaultQuery("format", "json")),
		})
		if err != nil {
			c.Error(err)
			return
		}

		resp := gin.H{
			"message":   "export completed",
			"file_path": out.FileName,
			"format":    out.Format,
		}
		if out.DataSummary != nil {
			resp["data_summary"] = out.DataSummary
		} else {
			resp["count"] = out.Count
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Download streams a previously generated export or response file.
// Generated names embed the owner id, so a file without the caller's
// id in its name is not theirs.
func (h *ExportHandler) Download(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	fileName := c.Param("name")
	if !strings.Contains(fileName, ownerID.String()) {
		c.Error(apperror.NewNotFound("file", filepath.Base(fileName)))
		return
	}
	f, err := h.store.Open(fileName)
	if err != nil {
		c.Error(err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		c.Error(apperror.NewStorage("cannot stat export file", err))
		return
	}

	contentType := exportContentTypes[filepath.Ext(fileName)]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filepath.Base(fileName)+`"`)
	c.DataFromReader(http.StatusOK, info.Size(), contentType, f, nil)
}
