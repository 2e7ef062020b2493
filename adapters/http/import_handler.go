package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/career-planner/internal/application/usecase/importing"
	"github.com/khoahotran/career-planner/internal/domain/importrec"
	"github.com/khoahotran/career-planner/pkg/apperror"
)

// 10 MB cap on uploaded import files.
const maxImportFileSize = 10 << 20

type ImportHandler struct {
	runUC  *importing.RunImportUseCase
	listUC *importing.ListImportsUseCase
	getUC  *importing.GetImportUseCase
}

func NewImportHandler(runUC *importing.RunImportUseCase, listUC *importing.ListImportsUseCase, getUC *importing.GetImportUseCase) *ImportHandler {
	return &ImportHandler{runUC: runUC, listUC: listUC, getUC: getUC}
}

// Upload runs a bulk import from a multipart file. Form fields:
// file, import_type, file_type, skip_errors, overwrite.
func (h *ImportHandler) Upload(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("file form field is required", err))
		return
	}
	if fileHeader.Size > maxImportFileSize {
		c.Error(apperror.NewInvalidInput("file exceeds the 10 MB limit", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot open uploaded file", err))
		return
	}
	defer file.Close()

	skipErrors, _ := strconv.ParseBool(c.PostForm("skip_errors"))
	overwrite, _ := strconv.ParseBool(c.PostForm("overwrite_existing"))

	out, err := h.runUC.Execute(c.Request.Context(), importing.RunImportInput{
		OwnerID:    ownerID,
		ImportType: importrec.ImportType(c.PostForm("import_type")),
		FileType:   importrec.FileType(c.PostForm("file_type")),
		FileName:   fileHeader.Filename,
		SkipErrors: skipErrors,
		Overwrite:  overwrite,
		File:       file,
	})
	if err != nil {
		c.Error(err)
		return
	}

	status := http.StatusOK
	if out.Outcome == importrec.OutcomeAborted {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, out)
}

// BulkJSONRequest carries inline records instead of a file upload.
type BulkJSONRequest struct {
	ImportType string          `json:"import_type" binding:"required"`
	SkipErrors bool            `json:"skip_errors"`
	Overwrite  bool            `json:"overwrite_existing"`
	Data       json.RawMessage `json:"data" binding:"required"`
}

func (h *ImportHandler) BulkJSON(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	var req BulkJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid bulk import payload", err))
		return
	}

	out, err := h.runUC.Execute(c.Request.Context(), importing.RunImportInput{
		OwnerID:    ownerID,
		ImportType: importrec.ImportType(req.ImportType),
		FileType:   importrec.FileJSON,
		FileName:   "inline.json",
		SkipErrors: req.SkipErrors,
		Overwrite:  req.Overwrite,
		File:       bytes.NewReader(req.Data),
	})
	if err != nil {
		c.Error(err)
		return
	}

	status := http.StatusOK
	if out.Outcome == importrec.OutcomeAborted {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, out)
}

func (h *ImportHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	limit, offset := paginationParams(c)
	entries, err := h.listUC.Execute(c.Request.Context(), importing.ListImportsInput{
		OwnerID:    ownerID,
		ImportType: importrec.ImportType(c.Query("import_type")),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]ImportHistoryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, ImportHistoryDTO{
			Job:    ToImportJobDTO(e.Job),
			Result: ToImportResultDTO(e.Result),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": dtos})
}

func (h *ImportHandler) Get(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("owner not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid import job id", err))
		return
	}

	entry, err := h.getUC.Execute(c.Request.Context(), id, ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ImportHistoryDTO{
		Job:    ToImportJobDTO(entry.Job),
		Result: ToImportResultDTO(entry.Result),
	})
}
