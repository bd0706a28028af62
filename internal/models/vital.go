package models

import "time"

// Vital is one dated snapshot of vital-sign readings. Every reading is optional.
type Vital struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;index"`
	Date          string    `json:"date" gorm:"type:varchar(10);not null"` // YYYY-MM-DD
	BloodSugar    *float64  `json:"blood_sugar"`
	BloodPressure *float64  `json:"blood_pressure"`
	HeartRate     *int      `json:"heart_rate"`
	Temperature   *float64  `json:"temperature"`
	Weight        *float64  `json:"weight"`
	OxygenLevel   *float64  `json:"oxygen_level"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// VitalFilter narrows an owner's vital list.
type VitalFilter struct {
	StartDate string
	EndDate   string
	Limit     int
}

// VitalStats aggregates every vital of one owner.
type VitalStats struct {
	TotalReadings    int64    `json:"total_readings"`
	AvgBloodSugar    *float64 `json:"avg_blood_sugar"`
	MinBloodSugar    *float64 `json:"min_blood_sugar"`
	MaxBloodSugar    *float64 `json:"max_blood_sugar"`
	AvgBloodPressure *float64 `json:"avg_blood_pressure"`
	MinBloodPressure *float64 `json:"min_blood_pressure"`
	MaxBloodPressure *float64 `json:"max_blood_pressure"`
	AvgHeartRate     *float64 `json:"avg_heart_rate"`
	MinHeartRate     *float64 `json:"min_heart_rate"`
	MaxHeartRate     *float64 `json:"max_heart_rate"`
	AvgTemperature   *float64 `json:"avg_temperature"`
	AvgWeight        *float64 `json:"avg_weight"`
	AvgOxygenLevel   *float64 `json:"avg_oxygen_level"`
}

// DailyVitals holds the per-day averages used for charting.
type DailyVitals struct {
	Date          string   `json:"date"`
	BloodSugar    *float64 `json:"bloodSugar"`
	BloodPressure *float64 `json:"bloodPressure"`
	HeartRate     *float64 `json:"heartRate"`
	Temperature   *float64 `json:"temperature"`
	Weight        *float64 `json:"weight"`
	OxygenLevel   *float64 `json:"oxygenLevel"`
}
