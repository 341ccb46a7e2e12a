package models

const (
	MenuCategoryAppetizer = "appetizer"
	MenuCategoryMain      = "main"
	MenuCategoryDessert   = "dessert"
	MenuCategoryBeverage  = "beverage"
)

type MenuItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string  `json:"name" gorm:"type:varchar(100);not null"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"not null"`
	ImageURL    string  `json:"image_url" gorm:"type:varchar(255)"`
	Category    string  `json:"category" gorm:"type:varchar(20);not null"`
	Available   bool    `json:"available" gorm:"default:true"`
	CreatedAt   string  `json:"created_at" gorm:"type:varchar(40)"`
	UpdatedAt   string  `json:"updated_at" gorm:"type:varchar(40)"`
}
