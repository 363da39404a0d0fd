package model

// Partner is a consignment supplier. Referenced by items for display only;
// it carries no reconciliation logic.
type Partner struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`
	Address     string `gorm:"type:text" json:"address"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

func (Partner) TableName() string {
	return "partners"
}
