package domain

import "gorm.io/datatypes"

// Attraction is owned by the catalog; the itinerary core only reads it.
type Attraction struct {
	ID          string                      `gorm:"primaryKey;column:id" json:"id"`
	Name        string                      `gorm:"column:name;not null;index" json:"name"`
	Description string                      `gorm:"column:description;type:text" json:"description"`
	Lat         float64                     `gorm:"column:lat" json:"lat"`
	Lon         float64                     `gorm:"column:lon" json:"lon"`
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	Images      datatypes.JSONSlice[string] `gorm:"column:images" json:"images"`
	Address     string                      `gorm:"column:address" json:"address"`
}

func (Attraction) TableName() string { return "attractions" }

// AttractionDetail is an attraction plus the derived review summary. Pros and
// cons are never stored.
type AttractionDetail struct {
	Attraction
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	SourcePosts []string `json:"source_posts"`
}
