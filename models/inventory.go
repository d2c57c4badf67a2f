package models

// InventoryItem is a merchant's listing of a catalog product: its own
// identifier, price and stock level. Cart lines reference the listing id.
type InventoryItem struct {
	MerchantProductID string  `json:"merchantProductId"`
	ProductID         string  `json:"productId"`
	MerchantID        int64   `json:"merchantId"`
	Price             float64 `json:"price"`
	Stock             int     `json:"stock"`
	ProductName       string  `json:"productName,omitempty"`
}

type InventoryFormData struct {
	ProductID string  `json:"productId" binding:"required"`
	Price     float64 `json:"price" binding:"required,gt=0"`
	Stock     int     `json:"stock" binding:"min=0"`
}
