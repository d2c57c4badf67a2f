package models

type Notification struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Type      string `json:"type"` // ORDER_STATUS, PRODUCT_REVIEW, PROMOTION, RESTOCKED
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt,omitempty"`
	Link      string `json:"link,omitempty"`
}

type EmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}
