package controller

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"eco-ui/web/middleware"
	"eco-ui/web/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AttachmentController struct {
	attachments *service.AttachmentService
	maxUpload   int64
}

func NewAttachmentController(authed *gin.RouterGroup, attachments *service.AttachmentService, maxUpload int64) *AttachmentController {
	a := &AttachmentController{attachments: attachments, maxUpload: maxUpload}
	authed.POST("/ecos/:id/attachments", a.upload)
	authed.GET("/ecos/:id/attachments/:filename", a.download)
	return a
}

// upload streams the multipart file to a temporary location, then hands it
// to the attachment store. Oversized uploads are refused before the core
// ever sees them.
func (a *AttachmentController) upload(c *gin.Context) {
	id, ok := ecoId(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.maxUpload)
	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			pureJsonMsg(c, http.StatusRequestEntityTooLarge, false, "file exceeds the upload limit")
			return
		}
		pureJsonMsg(c, http.StatusBadRequest, false, "file is required")
		return
	}
	if file.Size > a.maxUpload {
		pureJsonMsg(c, http.StatusRequestEntityTooLarge, false, "file exceeds the upload limit")
		return
	}

	tmpPath := filepath.Join(os.TempDir(), "ecoui_upload_"+uuid.NewString())
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		jsonMsg(c, "store upload", err)
		return
	}
	defer os.Remove(tmpPath)

	user := middleware.GetUser(c)
	if err := a.attachments.AddAttachment(id, file.Filename, tmpPath, service.TrustedActor(user.Username)); err != nil {
		jsonMsg(c, "add attachment", err)
		return
	}
	jsonMsg(c, "attachment added", nil)
}

func (a *AttachmentController) download(c *gin.Context) {
	id, ok := ecoId(c)
	if !ok {
		return
	}
	filename := c.Param("filename")

	path, err := a.attachments.AttachmentPath(id, filename)
	if err != nil {
		jsonMsg(c, "get attachment", err)
		return
	}
	if _, err := os.Stat(path); err != nil {
		jsonMsg(c, "get attachment", service.ErrNotFound)
		return
	}
	c.FileAttachment(path, filename)
}
