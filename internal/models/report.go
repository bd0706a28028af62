package models

import "time"

// Report is an uploaded medical document owned by one user.
type Report struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Type      string    `json:"type" gorm:"not null"`
	Date      string    `json:"date" gorm:"type:varchar(10);not null"` // YYYY-MM-DD
	FileName  string    `json:"file_name" gorm:"not null"`
	FilePath  string    `json:"-" gorm:"not null"` // storage key
	FileType  string    `json:"file_type"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`

	Tags []ReportVital `json:"tags" gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`

	// Derived at read time.
	Vitals     []string `json:"vitals" gorm:"-"`
	SharedWith []string `json:"shared_with" gorm:"-"`
}

// ReportVital tags a report with a vital-sign label and an optional value.
type ReportVital struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	ReportID   uint    `json:"report_id" gorm:"not null;index"`
	VitalType  string  `json:"vital_type" gorm:"not null"`
	VitalValue *string `json:"vital_value"`
}

// ReportFilter narrows an owner's report list. Empty fields are ignored.
type ReportFilter struct {
	Date      string
	Type      string
	VitalType string
}

// TagLabels returns the vital types of the report's tags, in tag order.
func (r *Report) TagLabels() []string {
	labels := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		labels = append(labels, t.VitalType)
	}
	return labels
}
