package domain

type EquipmentStatus string

const (
	EquipmentActive         EquipmentStatus = "active"
	EquipmentMaintenance    EquipmentStatus = "maintenance"
	EquipmentDecommissioned EquipmentStatus = "decommissioned"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentActive, EquipmentMaintenance, EquipmentDecommissioned:
		return true
	}
	return false
}

// Equipment is one inspectable unit (excavator, bulldozer, ...).
type Equipment struct {
	ID            int64           `gorm:"column:equipment_id;primaryKey" json:"equipment_id"`
	SerialNumber  string          `gorm:"column:serial_number;size:100;not null;uniqueIndex" json:"serial_number"`
	EquipmentType string          `gorm:"column:equipment_type;size:100;not null" json:"equipment_type"`
	Model         string          `gorm:"column:model;size:100;not null" json:"model"`
	Status        EquipmentStatus `gorm:"column:status;size:20;not null;default:active" json:"status"`
}

func (Equipment) TableName() string { return "equipment" }

func (e Equipment) String() string {
	return e.EquipmentType + " - " + e.SerialNumber
}
