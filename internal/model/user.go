package model

// Role values accepted at signup. SuperAdmin accounts are provisioned
// directly in the database and can never be created through the API;
// the role only matters for the delete protection on /api/users/:id.
const (
	RoleDonor          = "donor"
	RoleOrphanageAdmin = "orphanage_admin"
	RoleSuperAdmin     = "super_admin"
)

// User mirrors the 'users' table. Passwords are stored and compared as plain
// strings: the legacy backend never hashed them and the login contract is
// exact string equality, so the column is carried verbatim for compatibility.
// DOB and Gender are nullable; both are required for donors only.
type User struct {
	ID       uint64  `json:"id"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	DOB      *string `json:"dob"`
	Gender   *string `json:"gender"`
}
