/*
 * @module service/models/dataset
 * @description Persisted dataset snapshots: load versions, wide district records and
 *              legislative coverage rows
 * @architecture Entity models
 * @documentReference DESIGN.md
 * @stateFlow loading -> loaded | failed
 * @rules Rows belong to exactly one dataset version and are never updated after insert
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/dataset/store.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dataset version status values
const (
	DatasetStatusLoading = "loading"
	DatasetStatusLoaded  = "loaded"
	DatasetStatusFailed  = "failed"
)

// DatasetVersion is one load of the two source files.
type DatasetVersion struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)" example:"550e8400-e29b-41d4-a716-446655440000"`
	DistrictFile  string    `json:"district_file" gorm:"not null;size:1000" example:"data/app_data_wide.csv"`
	CoverageFile  string    `json:"coverage_file" gorm:"not null;size:1000" example:"data/leg_dist_coverage.csv"`
	DistrictCount int       `json:"district_count" gorm:"not null;default:0" example:"853"`
	CoverageCount int       `json:"coverage_count" gorm:"not null;default:0" example:"2140"`
	Status        string    `json:"status" gorm:"not null;size:20;default:'loading';index" example:"loaded"`
	ErrorMessage  string    `json:"error_message,omitempty" gorm:"type:text"`
	LoadedAt      time.Time `json:"loaded_at" gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// BeforeCreate assigns a UUID when none is set
func (v *DatasetVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.Status == "" {
		v.Status = DatasetStatusLoading
	}
	return nil
}

// DistrictRecord is one wide district row. Data keeps every source column by name.
type DistrictRecord struct {
	ID               string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DatasetVersionID string `json:"dataset_version_id" gorm:"not null;type:varchar(36);index"`
	Position         int    `json:"position" gorm:"not null"` // row order in the source file
	RCDTS            string `json:"rcdts" gorm:"column:rcdts;not null;size:32;index"`
	DistrictName     string `json:"district_name" gorm:"not null;size:255"`
	Data             JSONB  `json:"data" gorm:"type:jsonb"`
}

// BeforeCreate assigns a UUID when none is set
func (r *DistrictRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// LegislativeCoverage maps a legislator's district to a covered school district.
type LegislativeCoverage struct {
	ID               string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DatasetVersionID string   `json:"-" gorm:"not null;type:varchar(36);index"`
	Position         int      `json:"-" gorm:"not null"`
	Chamber          string   `json:"chamber" gorm:"not null;size:20;index" example:"House"`
	DistrictNumber   int      `json:"district_number" gorm:"not null" example:"12"`
	LegislatorName   string   `json:"legislator_name" gorm:"size:255;index" example:"Jane Doe"`
	RCDTS            string   `json:"rcdts" gorm:"column:rcdts;not null;size:32"`
	SchoolDistrict   string   `json:"school_district" gorm:"size:255" example:"Example CUSD 1"`
	TotalStudents    *float64 `json:"total_students" example:"1200"`
	ShareOfStudents  *float64 `json:"share_of_students" example:"0.35"`
}

// BeforeCreate assigns a UUID when none is set
func (c *LegislativeCoverage) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName pins the table name
func (LegislativeCoverage) TableName() string {
	return "legislative_coverages"
}

// AllModels lists the models for auto-migration.
func AllModels() []interface{} {
	return []interface{}{
		&DatasetVersion{},
		&DistrictRecord{},
		&LegislativeCoverage{},
	}
}
