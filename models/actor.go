package models

// Role of an authenticated actor, resolved by the identity collaborator.
type Role string

const (
	RoleCustomer      Role = "customer"
	RoleBranchManager Role = "branch-manager"
	RoleAdmin         Role = "admin"
)

// Actor is the resolved identity attached to every mutating request. The
// service trusts these claims; authentication happens upstream.
type Actor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	BranchID string `json:"branchId,omitempty"` // set for branch managers
}
