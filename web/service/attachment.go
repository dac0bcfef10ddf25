package service

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"eco-ui/database"
	"eco-ui/database/model"
	"eco-ui/logger"

	"gorm.io/gorm"
)

const defaultMimeType = "application/octet-stream"

// MimeResolver maps a filename to a MIME type. Pluggable so tests and
// deployments can override the extension-based default.
type MimeResolver func(filename string) string

// DefaultMimeResolver guesses from the filename extension, falling back to
// application/octet-stream.
func DefaultMimeResolver(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return defaultMimeType
}

// AttachmentService copies uploaded files into the managed attachment
// directory and keeps their metadata rows. The file and its row are created
// together; the consistency sweep prunes rows whose file went missing.
type AttachmentService struct {
	db          *gorm.DB
	dir         string
	users       *UserService
	ResolveMime MimeResolver
}

func NewAttachmentService(db *gorm.DB, dir string, users *UserService) *AttachmentService {
	return &AttachmentService{db: db, dir: dir, users: users, ResolveMime: DefaultMimeResolver}
}

// AddAttachment copies srcPath into the attachment directory under
// "<ecoID>_<basename>" and records the metadata. The caller-supplied display
// name is authoritative for both the stored name and the MIME guess. I/O
// failures are logged and returned.
func (s *AttachmentService) AddAttachment(ecoID int, filename, srcPath string, actor TrustedActor) error {
	user, err := s.users.GetOrCreateUser(string(actor))
	if err != nil {
		return err
	}

	if _, err := os.Stat(srcPath); err != nil {
		return ErrNotFound
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		logger.Errorf("failed to create attachment folder %s: %v", s.dir, err)
		return err
	}

	safeName := filepath.Base(filename)
	destPath := filepath.Join(s.dir, fmt.Sprintf("%d_%s", ecoID, safeName))
	if err := copyFile(srcPath, destPath); err != nil {
		logger.Errorf("failed to add attachment '%s' to ECO %d: %v", filename, ecoID, err)
		return err
	}

	info, err := os.Stat(destPath)
	if err != nil {
		logger.Errorf("failed to stat attachment '%s': %v", destPath, err)
		return err
	}

	attachment := &model.Attachment{
		EcoId:      ecoID,
		Filename:   safeName,
		MimeType:   s.ResolveMime(safeName),
		FilePath:   destPath,
		FileSize:   info.Size(),
		UploadedBy: user.Id,
		UploadedAt: time.Now(),
	}
	if err := s.db.Create(attachment).Error; err != nil {
		logger.Errorf("failed to record attachment '%s' for ECO %d: %v", safeName, ecoID, err)
		return err
	}
	return nil
}

// AttachmentPath looks up the storage path by ECO id and stored display
// filename.
func (s *AttachmentService) AttachmentPath(ecoID int, filename string) (string, error) {
	attachment := &model.Attachment{}
	err := s.db.Where("eco_id = ? AND filename = ?", ecoID, filename).First(attachment).Error
	if database.IsNotFound(err) {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	return attachment.FilePath, nil
}

// Sweep deletes metadata rows whose backing file no longer exists and
// returns how many were pruned. A metadata row without its file is invalid
// by definition.
func (s *AttachmentService) Sweep() (int, error) {
	var attachments []model.Attachment
	if err := s.db.Find(&attachments).Error; err != nil {
		return 0, err
	}

	pruned := 0
	for _, a := range attachments {
		if _, err := os.Stat(a.FilePath); err == nil {
			continue
		}
		if err := s.db.Delete(&model.Attachment{}, a.Id).Error; err != nil {
			return pruned, err
		}
		logger.Warningf("pruned attachment metadata id=%d (missing file %s)", a.Id, a.FilePath)
		pruned++
	}
	return pruned, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
