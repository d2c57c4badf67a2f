package models

type Review struct {
	ID        int64  `json:"id"`
	ProductID string `json:"productId"`
	UserID    int64  `json:"userId"`
	UserName  string `json:"userName,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type ReviewFormData struct {
	ProductID string `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment,omitempty"`
}

type AverageRating struct {
	ProductID string  `json:"productId"`
	Average   float64 `json:"average"`
	Count     int     `json:"count"`
}
