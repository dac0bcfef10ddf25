package model

import "time"

// EcoStatus is the workflow state of a change order.
type EcoStatus string

const (
	StatusDraft     EcoStatus = "DRAFT"
	StatusSubmitted EcoStatus = "SUBMITTED"
	StatusApproved  EcoStatus = "APPROVED"
	StatusRejected  EcoStatus = "REJECTED"
)

// History actions. Transition events reuse the target status name.
const (
	ActionCreated   = "CREATED"
	ActionSubmitted = string(StatusSubmitted)
	ActionApproved  = string(StatusApproved)
	ActionRejected  = string(StatusRejected)
	ActionEdited    = "EDITED"
)

type User struct {
	Id           int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash"`
	IsAdmin      bool   `json:"isAdmin" gorm:"column:is_admin;default:false"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
}

type Eco struct {
	Id          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	Status      EcoStatus `json:"status" gorm:"not null;default:DRAFT;index"`
	CreatedBy   int       `json:"-" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HistoryEvent is an append-only audit record. Rows are never updated;
// they are removed only when their ECO is deleted.
type HistoryEvent struct {
	Id          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	EcoId       int       `json:"-" gorm:"index;not null"`
	Action      string    `json:"action" gorm:"not null"`
	Comment     string    `json:"comment"`
	PerformedBy int       `json:"-" gorm:"not null"`
	PerformedAt time.Time `json:"performedAt" gorm:"not null"`
}

func (HistoryEvent) TableName() string {
	return "eco_history"
}

type Attachment struct {
	Id         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	EcoId      int       `json:"-" gorm:"index;not null"`
	Filename   string    `json:"filename" gorm:"not null"`
	MimeType   string    `json:"mimeType" gorm:"not null"`
	FilePath   string    `json:"-" gorm:"not null"`
	FileSize   int64     `json:"fileSize" gorm:"not null"`
	UploadedBy int       `json:"-" gorm:"not null"`
	UploadedAt time.Time `json:"uploadedAt" gorm:"not null"`
}

type Token struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserId    int       `json:"-" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Token) TableName() string {
	return "api_tokens"
}
