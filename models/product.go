package models

type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	ImageUrls   []string          `json:"imageUrls,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	IsActive    bool              `json:"isActive"`
	Price       float64           `json:"price,omitempty"`
	CreatedAt   string            `json:"createdAt,omitempty"`
	UpdatedAt   string            `json:"updatedAt,omitempty"`
}

type ProductFormData struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description" binding:"required"`
	Category    string            `json:"category" binding:"required"`
	Brand       string            `json:"brand" binding:"required"`
	ImageUrls   []string          `json:"imageUrls,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	IsActive    bool              `json:"isActive"`
}

// SearchFilters narrows a catalog search; zero values mean "no filter".
type SearchFilters struct {
	Category string
	Brand    string
	MinPrice string
	MaxPrice string
}
