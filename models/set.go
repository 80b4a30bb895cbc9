package models

// Set is a catalog entry identified by its LEGO set number.
type Set struct {
	SetNum   string  `gorm:"column:set_num;primaryKey" json:"set_num"`
	Name     string  `gorm:"not null" json:"name"`
	Year     *int    `json:"year"`
	NumParts *int    `json:"num_parts"`
	ThemeID  *uint   `gorm:"index" json:"theme_id"`
	ImgURL   *string `gorm:"column:img_url" json:"img_url"`

	// Populated on reads by a left join, nil when the set has no theme
	// or the theme row is missing.
	Theme *Theme `gorm:"foreignKey:ThemeID" json:"theme"`
}

func (Set) TableName() string { return "sets" }

// ThemeName returns the joined theme name or an empty string.
func (s Set) ThemeName() string {
	if s.Theme == nil {
		return ""
	}
	return s.Theme.Name
}
