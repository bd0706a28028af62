package models

import "time"

// Access types a share can grant.
const (
	AccessRead  = "read"
	AccessWrite = "write"
)

// Share grants one report to one e-mail address. At most one row exists per
// (report, e-mail) pair.
type Share struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	ReportID        uint       `json:"report_id" gorm:"not null;uniqueIndex:idx_share_report_email"`
	SharedWithEmail string     `json:"shared_with_email" gorm:"not null;uniqueIndex:idx_share_report_email"`
	SharedByUserID  uint       `json:"shared_by_user_id" gorm:"not null;index"`
	AccessType      string     `json:"access_type" gorm:"not null;default:read"`
	ExpiresAt       *time.Time `json:"expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (Share) TableName() string { return "shared_reports" }

// Active reports whether the share still grants access at now.
func (s *Share) Active(now time.Time) bool {
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// ReportShare is a share row as the report owner sees it.
type ReportShare struct {
	Share
	SharedByName string `json:"shared_by_name"`
}

// SharedReport is a report seen through an active share by its grantee.
type SharedReport struct {
	ShareID       uint       `json:"share_id"`
	ReportID      uint       `json:"id" gorm:"column:id"`
	Title         string     `json:"title"`
	Type          string     `json:"type"`
	Date          string     `json:"date"`
	FileName      string     `json:"file_name"`
	FileType      string     `json:"file_type"`
	FileSize      int64      `json:"file_size"`
	AccessType    string     `json:"access_type"`
	ExpiresAt     *time.Time `json:"expires_at"`
	SharedAt      time.Time  `json:"shared_at"`
	SharedByName  string     `json:"shared_by_name"`
	SharedByEmail string     `json:"shared_by_email"`
}

// GrantedShare is a share as listed for the user who created it.
type GrantedShare struct {
	ShareID         uint       `json:"share_id"`
	ReportID        uint       `json:"id" gorm:"column:id"`
	Title           string     `json:"title"`
	Type            string     `json:"type"`
	Date            string     `json:"date"`
	FileName        string     `json:"file_name"`
	SharedWithEmail string     `json:"shared_with_email"`
	AccessType      string     `json:"access_type"`
	ExpiresAt       *time.Time `json:"expires_at"`
	SharedAt        time.Time  `json:"shared_at"`
	Active          bool       `json:"active" gorm:"-"`
}

// Share event types published on the message bus.
const (
	ShareCreated = "share.created"
	ShareRevoked = "share.revoked"
)

// ShareEvent notifies other processes that a grant changed.
type ShareEvent struct {
	Type         string     `json:"type"`
	ShareID      uint       `json:"share_id"`
	ReportID     uint       `json:"report_id"`
	ReportTitle  string     `json:"report_title"`
	GranteeEmail string     `json:"grantee_email"`
	GrantorName  string     `json:"grantor_name"`
	GrantorEmail string     `json:"grantor_email"`
	AccessType   string     `json:"access_type"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}
