package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "session:close"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Close Shop Session"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Shop sessions
	{Code: "session:view", Name: "View Shop Session"},
	{Code: "session:open", Name: "Open Shop Session"},
	{Code: "session:close", Name: "Close Shop Session"},
	// Consignment items
	{Code: "consignment:view", Name: "View Consignment"},
	{Code: "consignment:create", Name: "Register Consignment"},
	// Partners
	{Code: "partner:view", Name: "View Partner"},
	{Code: "partner:create", Name: "Create Partner"},
	{Code: "partner:update", Name: "Update Partner"},
	{Code: "partner:delete", Name: "Delete Partner"},
	// Box orders
	{Code: "box_order:view", Name: "View Box Order"},
	{Code: "box_order:create", Name: "Create Box Order"},
	{Code: "box_order:update", Name: "Update Box Order"},
	{Code: "box_order:cancel", Name: "Cancel Box Order"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
	// Audit trail (MASTER_ADMIN only)
	{Code: "audit:view", Name: "View Activity Log"},
}
