package transport

import "time"

type PurchaseLine struct {
	ProductID uint  `json:"product_id"`
	Quantity  uint  `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

type CreatePurchaseRequest struct {
	CustomerID uint           `json:"customer_id"`
	BranchID   uint           `json:"branch_id"`
	Items      []PurchaseLine `json:"items"`
}

type CreatePurchaseResponse struct {
	OrderTag string `json:"order_tag"`
	ItemIDs  []uint `json:"item_ids"`
}

type StatusChangeRequest struct {
	TargetStatus string `json:"target_status"`
}

type StatusChangeResponse struct {
	ID        uint      `json:"id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

type ApproveReturnRequest struct {
	EmployeeID uint   `json:"employee_id"`
	Reason     string `json:"reason"`
}

type PatchProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Size        *string `json:"size"`
	Color       *string `json:"color"`
	Price       *int64  `json:"price"`
	Count       *uint   `json:"count"`
}

type CreateProductRequest struct {
	ManufacturerID uint   `json:"manufacturer_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Size           string `json:"size"`
	Color          string `json:"color"`
	Price          int64  `json:"price"`
	Count          uint   `json:"count"`
}
