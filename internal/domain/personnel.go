package domain

type PersonnelRole string

const (
	RoleOperator   PersonnelRole = "operator"
	RoleSupervisor PersonnelRole = "supervisor"
	RoleAdmin      PersonnelRole = "admin"
)

func (r PersonnelRole) Valid() bool {
	switch r {
	case RoleOperator, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// Personnel are the operators and supervisors named on reports. They are
// not login accounts; see Account for those.
type Personnel struct {
	ID             int64         `gorm:"column:user_id;primaryKey" json:"user_id"`
	FullName       string        `gorm:"column:full_name;size:200;not null" json:"full_name"`
	Role           PersonnelRole `gorm:"column:role;size:20;not null" json:"role"`
	EmployeeNumber string        `gorm:"column:employee_number;size:50;not null;uniqueIndex" json:"employee_number"`
}

func (Personnel) TableName() string { return "users" }

func (p Personnel) String() string {
	return p.FullName + " (" + string(p.Role) + ")"
}
