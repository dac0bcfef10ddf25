// Package job contains the scheduled maintenance jobs of the web server.
package job

import (
	"eco-ui/logger"
	"eco-ui/web/service"
)

// CheckAttachmentJob prunes attachment metadata whose backing file has gone
// missing. A row without its file is invalid and must not be served.
type CheckAttachmentJob struct {
	attachments *service.AttachmentService
}

func NewCheckAttachmentJob(attachments *service.AttachmentService) *CheckAttachmentJob {
	return &CheckAttachmentJob{attachments: attachments}
}

func (j *CheckAttachmentJob) Run() {
	pruned, err := j.attachments.Sweep()
	if err != nil {
		logger.Warning("attachment sweep failed:", err)
		return
	}
	if pruned > 0 {
		logger.Infof("attachment sweep pruned %d orphaned metadata rows", pruned)
	}
}
