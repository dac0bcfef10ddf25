package service

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"eco-ui/logger"
)

const reportTimeFormat = time.RFC3339

// ReportService renders a change order into a markdown document.
type ReportService struct {
	ecos *EcoService
}

func NewReportService(ecos *EcoService) *ReportService {
	return &ReportService{ecos: ecos}
}

// GenerateReport writes the report for one change order to outputPath. The
// document is rendered into a buffer first and flushed in a single write, so
// a failure never leaves a partial file. ErrNotFound if the ECO is absent;
// in that case no output is created.
func (s *ReportService) GenerateReport(ecoID int, outputPath string) error {
	details, err := s.ecos.GetEcoDetails(ecoID)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, Render(details), 0o644); err != nil {
		logger.Errorf("failed to write report for ECO %d: %v", ecoID, err)
		return err
	}
	return nil
}

// Render produces the report document: header, description, attachments
// table and history table.
func Render(details *EcoDetails) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# ECO Report: %s\n\n", details.Title)
	fmt.Fprintf(&buf, "**ID:** %d  \n", details.Id)
	fmt.Fprintf(&buf, "**Status:** %s  \n", details.Status)
	fmt.Fprintf(&buf, "**Created By:** %s on %s  \n", details.CreatedBy, details.CreatedAt.Format(reportTimeFormat))
	fmt.Fprintf(&buf, "**Last Updated:** %s  \n\n", details.UpdatedAt.Format(reportTimeFormat))

	buf.WriteString("## Description\n\n")
	fmt.Fprintf(&buf, "%s\n\n", details.Description)

	buf.WriteString("## Attachments\n\n")
	if len(details.Attachments) > 0 {
		buf.WriteString("| Filename | Uploaded By | Date |\n")
		buf.WriteString("| --- | --- | --- |\n")
		for _, a := range details.Attachments {
			fmt.Fprintf(&buf, "| %s | %s | %s |\n", a.Filename, a.UploadedBy, a.UploadedAt.Format(reportTimeFormat))
		}
	} else {
		buf.WriteString("No attachments.\n")
	}
	buf.WriteString("\n")

	buf.WriteString("## History\n\n")
	if len(details.History) > 0 {
		buf.WriteString("| Action | User | Date | Comment |\n")
		buf.WriteString("| --- | --- | --- | --- |\n")
		for _, h := range details.History {
			fmt.Fprintf(&buf, "| %s | %s | %s | %s |\n", h.Action, h.Username, h.PerformedAt.Format(reportTimeFormat), h.Comment)
		}
	} else {
		buf.WriteString("No history.\n")
	}

	return buf.Bytes()
}
