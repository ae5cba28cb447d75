package enums

import "fmt"

// StaffRole scopes what a staff member can see across branches.
type StaffRole string

const (
	StaffRoleAdministrator  StaffRole = "administrator"
	StaffRoleGeneralManager StaffRole = "general-manager"
	StaffRoleBranchManager  StaffRole = "branch-manager"
	StaffRoleAccountant     StaffRole = "accountant"
	StaffRoleCSO            StaffRole = "cso"
	StaffRoleTechnician     StaffRole = "technician"
)

var validStaffRoles = []StaffRole{
	StaffRoleAdministrator,
	StaffRoleGeneralManager,
	StaffRoleBranchManager,
	StaffRoleAccountant,
	StaffRoleCSO,
	StaffRoleTechnician,
}

// IsValid checks whether the given role matches the canonical enum.
func (r StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// SeesAllBranches reports whether the role bypasses branch scoping on listings.
func (r StaffRole) SeesAllBranches() bool {
	return r == StaffRoleAdministrator || r == StaffRoleGeneralManager
}

// ParseStaffRole converts raw strings into StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
