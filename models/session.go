package models

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleMerchant Role = "MERCHANT"
)

type User struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
	Role     Role   `json:"role"`
}

type MerchantProfile struct {
	UserID          int64  `json:"userId,omitempty"`
	BusinessName    string `json:"businessName"`
	BusinessAddress string `json:"businessAddress"`
	GSTNumber       string `json:"gstNumber"`
}

type CustomerProfile struct {
	UserID      int64  `json:"userId,omitempty"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Session is the authenticated identity held for a storefront user: the
// bearer token issued by the auth service, the resolved user, and an
// optional role-matched profile.
type Session struct {
	Token           string           `json:"token"`
	User            User             `json:"user"`
	MerchantProfile *MerchantProfile `json:"merchantProfile,omitempty"`
	CustomerProfile *CustomerProfile `json:"customerProfile,omitempty"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != "" && s.User.Role != ""
}

func (s *Session) IsCustomer() bool {
	return s != nil && s.User.Role == RoleCustomer
}

func (s *Session) IsMerchant() bool {
	return s != nil && s.User.Role == RoleMerchant
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role,omitempty"`
}

type RegisterCustomerRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type RegisterMerchantRequest struct {
	FullName        string `json:"fullName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	BusinessName    string `json:"businessName" binding:"required"`
	BusinessAddress string `json:"businessAddress" binding:"required"`
	GSTNumber       string `json:"gstNumber" binding:"required"`
}
