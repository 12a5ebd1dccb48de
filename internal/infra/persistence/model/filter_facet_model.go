package model

import "time"

// FilterFacetModel is the GORM-specific struct for the 'filter_facets' table.
type FilterFacetModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	UpstreamID  int64     `gorm:"not null;uniqueIndex:idx_filter_facets_upstream_kind"`
	Kind        string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_filter_facets_upstream_kind;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	RefreshedAt time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (FilterFacetModel) TableName() string {
	return "filter_facets"
}
