package directory

import (
	"time"
)

type User struct {
	ID        string  `json:"id" db:"id"`
	CompanyID string  `json:"company_id" db:"company_id"`
	Email     string  `json:"email" db:"email"`
	Name      string  `json:"name" db:"name"`
	Master    bool    `json:"master" db:"master"` // Master users bypass the manage check on permission updates
	// DepartmentIDs is loaded from the membership relation, not stored on the
	// user row. Always populated by UserRepository.GetByID.
	DepartmentIDs []string  `json:"department_ids"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// MemberOfDepartment reports whether the user belongs to the given department.
func (u *User) MemberOfDepartment(departmentID string) bool {
	for _, id := range u.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}
