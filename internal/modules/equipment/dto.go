package equipment

type CreateEquipmentRequest struct {
	SerialNumber  string `json:"serial_number" binding:"required,max=100"`
	EquipmentType string `json:"equipment_type" binding:"required,max=100"`
	Model         string `json:"model" binding:"required,max=100"`
	Status        string `json:"status" binding:"omitempty,oneof=active maintenance decommissioned"`
}

type PatchEquipmentRequest struct {
	SerialNumber  *string `json:"serial_number" binding:"omitempty,max=100"`
	EquipmentType *string `json:"equipment_type" binding:"omitempty,max=100"`
	Model         *string `json:"model" binding:"omitempty,max=100"`
	Status        *string `json:"status" binding:"omitempty,oneof=active maintenance decommissioned"`
}

func (r CreateEquipmentRequest) patch() PatchEquipmentRequest {
	p := PatchEquipmentRequest{
		SerialNumber:  &r.SerialNumber,
		EquipmentType: &r.EquipmentType,
		Model:         &r.Model,
	}
	if r.Status != "" {
		p.Status = &r.Status
	}
	return p
}
