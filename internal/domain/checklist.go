package domain

import "strconv"

// ChecklistItem is one line of the inspection form, e.g. engine oil level.
type ChecklistItem struct {
	ID          int64  `gorm:"column:item_id;primaryKey" json:"item_id"`
	Description string `gorm:"column:item_description;type:text;not null" json:"item_description"`
	SortOrder   int    `gorm:"column:sort_order;not null;index" json:"sort_order"`
}

func (ChecklistItem) TableName() string { return "checklist_items" }

func (i ChecklistItem) String() string {
	return strconv.Itoa(i.SortOrder) + ". " + i.Description
}
