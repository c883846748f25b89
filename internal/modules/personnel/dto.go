package personnel

type CreatePersonnelRequest struct {
	FullName       string `json:"full_name" binding:"required,max=200"`
	Role           string `json:"role" binding:"required,oneof=operator supervisor admin"`
	EmployeeNumber string `json:"employee_number" binding:"required,max=50"`
}

type PatchPersonnelRequest struct {
	FullName       *string `json:"full_name" binding:"omitempty,max=200"`
	Role           *string `json:"role" binding:"omitempty,oneof=operator supervisor admin"`
	EmployeeNumber *string `json:"employee_number" binding:"omitempty,max=50"`
}

func (r CreatePersonnelRequest) patch() PatchPersonnelRequest {
	return PatchPersonnelRequest{
		FullName:       &r.FullName,
		Role:           &r.Role,
		EmployeeNumber: &r.EmployeeNumber,
	}
}
