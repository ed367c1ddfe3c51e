package models

// User roles.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleWarehouse  = "warehouse"
	RoleTechnician = "technician"
)

// User struct matches the document in MongoDB.
type User struct {
	Username   string `bson:"username" json:"username"`
	Name       string `bson:"name" json:"name"`
	Password   string `bson:"password" json:"-"`
	Role       string `bson:"role" json:"role"`
	DivisionID string `bson:"divisionID,omitempty" json:"divisionID,omitempty"`
	Status     string `bson:"status" json:"status"`
}
