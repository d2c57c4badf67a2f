package models

// MerchantRanking is the order service's aggregated scorecard for one
// merchant, shown on the storefront's "top sellers" surfaces.
type MerchantRanking struct {
	MerchantID      int64   `json:"merchantId"`
	MerchantName    string  `json:"merchantName,omitempty"`
	BusinessName    string  `json:"businessName"`
	AverageRating   float64 `json:"averageRating"`
	TotalReviews    int     `json:"totalReviews"`
	TotalOrders     int     `json:"totalOrders"`
	ResponseTime    float64 `json:"responseTime,omitempty"`
	ReturnRate      float64 `json:"returnRate,omitempty"`
	BusinessAddress string  `json:"businessAddress,omitempty"`
	ImageUrl        string  `json:"imageUrl,omitempty"`
}
