package service

import (
	"fmt"
	"time"

	"eco-ui/database"
	"eco-ui/database/model"
	"eco-ui/logger"

	"gorm.io/gorm"
)

const defaultListLimit = 50

// EcoService owns the change order state machine:
//
//	DRAFT -> SUBMITTED -> APPROVED | REJECTED
//
// APPROVED and REJECTED are terminal. Every transition updates the status
// and appends a history event inside a single transaction, so a
// half-applied transition is never observable.
type EcoService struct {
	db    *gorm.DB
	users *UserService
}

func NewEcoService(db *gorm.DB, users *UserService) *EcoService {
	return &EcoService{db: db, users: users}
}

// CreateEco inserts a DRAFT change order with its CREATED history event.
func (s *EcoService) CreateEco(title, description string, actor TrustedActor) (int, error) {
	user, err := s.users.GetOrCreateUser(string(actor))
	if err != nil {
		return 0, err
	}

	eco := &model.Eco{
		Title:       title,
		Description: description,
		Status:      model.StatusDraft,
		CreatedBy:   user.Id,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(eco).Error; err != nil {
			return err
		}
		event := &model.HistoryEvent{
			EcoId:       eco.Id,
			Action:      model.ActionCreated,
			PerformedBy: user.Id,
			PerformedAt: time.Now(),
		}
		return tx.Create(event).Error
	})
	if err != nil {
		return 0, err
	}
	return eco.Id, nil
}

// UpdateEco edits title and description. Permitted in any status, including
// terminal ones; see the ledger entry on this in DESIGN.md.
func (s *EcoService) UpdateEco(id int, title, description string, actor TrustedActor) error {
	user, err := s.users.GetOrCreateUser(string(actor))
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		eco := &model.Eco{}
		err := tx.First(eco, id).Error
		if database.IsNotFound(err) {
			return ErrNotFound
		} else if err != nil {
			return err
		}

		now := time.Now()
		err = tx.Model(&model.Eco{}).Where("id = ?", id).
			Updates(map[string]any{"title": title, "description": description, "updated_at": now}).
			Error
		if err != nil {
			return err
		}

		event := &model.HistoryEvent{
			EcoId:       id,
			Action:      model.ActionEdited,
			Comment:     fmt.Sprintf("Title: %s", title),
			PerformedBy: user.Id,
			PerformedAt: now,
		}
		return tx.Create(event).Error
	})
}

// transition applies a status-guarded move. The guard read and the
// conditional write share one transaction to rule out lost updates.
func (s *EcoService) transition(id int, from, to model.EcoStatus, actor TrustedActor, comment string) error {
	user, err := s.users.GetOrCreateUser(string(actor))
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		eco := &model.Eco{}
		err := tx.First(eco, id).Error
		if database.IsNotFound(err) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		if eco.Status != from {
			return ErrInvalidTransition
		}

		now := time.Now()
		err = tx.Model(&model.Eco{}).Where("id = ?", id).
			Updates(map[string]any{"status": to, "updated_at": now}).
			Error
		if err != nil {
			return err
		}

		event := &model.HistoryEvent{
			EcoId:       id,
			Action:      string(to),
			Comment:     comment,
			PerformedBy: user.Id,
			PerformedAt: now,
		}
		return tx.Create(event).Error
	})
}

func (s *EcoService) SubmitEco(id int, actor TrustedActor, comment string) error {
	return s.transition(id, model.StatusDraft, model.StatusSubmitted, actor, comment)
}

func (s *EcoService) ApproveEco(id int, actor TrustedActor, comment string) error {
	return s.transition(id, model.StatusSubmitted, model.StatusApproved, actor, comment)
}

// RejectEco transitions SUBMITTED -> REJECTED. The service accepts any
// comment value; requiring one is the HTTP layer's job.
func (s *EcoService) RejectEco(id int, actor TrustedActor, comment string) error {
	return s.transition(id, model.StatusSubmitted, model.StatusRejected, actor, comment)
}

// DeleteEco removes a change order with its history and attachment rows.
// Attachment files on disk are left behind; the consistency sweep has no
// claim on them once the metadata is gone.
func (s *EcoService) DeleteEco(id int) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		eco := &model.Eco{}
		err := tx.First(eco, id).Error
		if database.IsNotFound(err) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		if err := tx.Where("eco_id = ?", id).Delete(&model.HistoryEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("eco_id = ?", id).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Eco{}, id).Error
	})
	if err == nil {
		logger.Infof("deleted ECO id=%d", id)
	}
	return err
}

// ListQuery filters and paginates ListEcos. Search and Status combine with
// AND when both are set.
type ListQuery struct {
	Limit  int
	Offset int
	Search string
	Status string
}

type EcoListItem struct {
	Id        int             `json:"id"`
	Title     string          `json:"title"`
	Status    model.EcoStatus `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	CreatedBy string          `json:"createdBy"`
}

// ListEcos returns change orders newest-first, filtered by a substring
// search over title and description and/or an exact status match.
func (s *EcoService) ListEcos(q ListQuery) ([]EcoListItem, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := s.db.Model(&model.Eco{}).
		Select("ecos.id, ecos.title, ecos.status, ecos.created_at, users.username AS created_by").
		Joins("JOIN users ON users.id = ecos.created_by")
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where("ecos.title LIKE ? OR ecos.description LIKE ?", pattern, pattern)
	}
	if q.Status != "" {
		query = query.Where("ecos.status = ?", q.Status)
	}

	items := make([]EcoListItem, 0)
	err := query.Order("ecos.created_at DESC, ecos.id DESC").
		Limit(limit).Offset(q.Offset).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

type AttachmentInfo struct {
	Id         int       `json:"id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimeType"`
	FilePath   string    `json:"-"`
	FileSize   int64     `json:"fileSize"`
	UploadedAt time.Time `json:"uploadedAt"`
	UploadedBy string    `json:"uploadedBy"`
}

type EcoDetails struct {
	Id          int              `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      model.EcoStatus  `json:"status"`
	CreatedBy   string           `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	History     []HistoryEntry   `json:"history" gorm:"-"`
	Attachments []AttachmentInfo `json:"attachments" gorm:"-"`
}

// GetEcoDetails loads the full aggregate: fields, creator, ordered history
// and attachment list.
func (s *EcoService) GetEcoDetails(id int) (*EcoDetails, error) {
	details := &EcoDetails{}
	err := s.db.Model(&model.Eco{}).
		Select("ecos.id, ecos.title, ecos.description, ecos.status, ecos.created_at, ecos.updated_at, users.username AS created_by").
		Joins("JOIN users ON users.id = ecos.created_by").
		Where("ecos.id = ?", id).
		Scan(details).Error
	if err != nil {
		return nil, err
	}
	if details.Id == 0 {
		return nil, ErrNotFound
	}

	history := NewHistoryService(s.db)
	details.History, err = history.EventsFor(id)
	if err != nil {
		return nil, err
	}

	details.Attachments = make([]AttachmentInfo, 0)
	err = s.db.Model(&model.Attachment{}).
		Select("attachments.id, attachments.filename, attachments.mime_type, attachments.file_path, attachments.file_size, attachments.uploaded_at, users.username AS uploaded_by").
		Joins("JOIN users ON users.id = attachments.uploaded_by").
		Where("attachments.eco_id = ?", id).
		Scan(&details.Attachments).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}
