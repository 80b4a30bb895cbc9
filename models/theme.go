package models

// Theme is a named grouping of sets, e.g. "Star Wars".
type Theme struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

func (Theme) TableName() string { return "themes" }
