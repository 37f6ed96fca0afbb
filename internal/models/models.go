package models

import (
	"time"
)

type Customer struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"not null"                 json:"name"`
	Phone string `json:"phone"`
	Email string `gorm:"index"                    json:"email"`
}

type Employee struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null"                 json:"name"`
	BranchID uint   `gorm:"index;not null"           json:"branch_id"`
	Position string `json:"position"`
}

type Branch struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"not null"                 json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type Manufacturer struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"unique;not null"          json:"name"`
	Country string `json:"country"`
}

type Product struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ManufacturerID uint   `gorm:"index;not null"           json:"manufacturer_id"`
	Name           string `gorm:"not null"                 json:"name"`
	Description    string `json:"description"`
	Size           string `json:"size"`
	Color          string `json:"color"`
	Price          int64  `gorm:"not null"                 json:"price"`
	Count          uint   `json:"count"`
}

// PurchaseItem is one purchased unit of a product. Several rows form one
// logical order when they share an order tag or a minute bucket; the rows
// themselves are the unit of persistence.
type PurchaseItem struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"    json:"id"`
	ProductID   uint       `gorm:"index;not null"              json:"product_id"`
	CustomerID  uint       `gorm:"index;not null"              json:"customer_id"`
	BranchID    uint       `gorm:"index;not null"              json:"branch_id"`
	Quantity    uint       `gorm:"default:1;check:quantity>0"  json:"quantity"`
	UnitPrice   int64      `gorm:"not null"                    json:"unit_price"`
	Status      ItemStatus `gorm:"not null;default:0"          json:"status"`
	OrderTag    string     `gorm:"index"                       json:"order_tag,omitempty"`
	PurchasedAt time.Time  `gorm:"index;not null"              json:"purchased_at"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
}

type Pickup struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PurchaseItemID uint      `gorm:"index;not null"           json:"purchase_item_id"`
	CustomerID     uint      `gorm:"index;not null"           json:"customer_id"`
	CreatedAt      time.Time `gorm:"not null"                 json:"created_at"`
}

type Refund struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PurchaseItemID uint      `gorm:"index;not null"           json:"purchase_item_id"`
	CustomerID     uint      `gorm:"index;not null"           json:"customer_id"`
	EmployeeID     uint      `gorm:"index"                    json:"employee_id"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `gorm:"not null"                 json:"created_at"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	UserID    uint      `gorm:"index;not null"  json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"        json:"expires_at"`
	Revoked   bool      `gorm:"default:false"   json:"revoked"`
}
