package models

// Role is the numeric user role returned by GET /user/role.
type Role int

const (
	RoleCustomer Role = 0
	RoleSupplier Role = 1
	RoleAdmin    Role = 2
)

// Label is the human-readable role name.
func (r Role) Label() string {
	switch r {
	case RoleCustomer:
		return "Customer"
	case RoleSupplier:
		return "Supplier"
	case RoleAdmin:
		return "Administrator"
	default:
		return "Unknown"
	}
}

// User is the backend's profile of the signed-in person.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Address is one saved delivery address.
type Address struct {
	Description string `json:"description"`
	Street      string `json:"street"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	PhoneNumber     string `json:"phone_number" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// ProfileUpdate is the body of PUT /user/profile.
type ProfileUpdate struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// TokenPair is what the backend issues on login. ExpiresIn is seconds and optional.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

// Registration is the register response: the created user, and tokens when the
// backend signs the user in immediately.
type Registration struct {
	User
	TokenPair
}
