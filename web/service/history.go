package service

import (
	"time"

	"eco-ui/database/model"

	"gorm.io/gorm"
)

// HistoryService is the read side of the audit ledger. Events are written
// only by EcoService transitions; there is no independent write path.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

type HistoryEntry struct {
	Action      string    `json:"action"`
	Comment     string    `json:"comment"`
	PerformedAt time.Time `json:"performedAt"`
	Username    string    `json:"username"`
}

// EventsFor returns the events of one change order ascending by timestamp,
// joined with the acting username. Insertion id breaks timestamp ties so the
// order matches call order.
func (s *HistoryService) EventsFor(ecoID int) ([]HistoryEntry, error) {
	entries := make([]HistoryEntry, 0)
	err := s.db.Model(&model.HistoryEvent{}).
		Select("eco_history.action, eco_history.comment, eco_history.performed_at, users.username").
		Joins("JOIN users ON users.id = eco_history.performed_by").
		Where("eco_history.eco_id = ?", ecoID).
		Order("eco_history.performed_at ASC, eco_history.id ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
