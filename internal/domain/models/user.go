package models

// User is an account record held in the users database.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	CreatedAt    string `json:"createdAt"`

	// Store metadata, filled on admin listings
	URL            string `json:"url,omitempty"`
	LastEditedTime string `json:"lastEditedTime,omitempty"`
	CreatedTime    string `json:"createdTime,omitempty"`
}

// UserSummary is the user shape returned by the auth routes.
type UserSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// Summary drops credentials and store metadata.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
	}
}

// UserProfile is the profile route shape: the summary plus the creation date.
type UserProfile struct {
	UserSummary
	CreatedAt string `json:"createdAt"`
}

// Profile drops credentials and store metadata but keeps CreatedAt.
func (u *User) Profile() UserProfile {
	return UserProfile{UserSummary: u.Summary(), CreatedAt: u.CreatedAt}
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// UpdateUserRequest is a partial profile update. An explicit empty string clears the field.
type UpdateUserRequest struct {
	FullName Optional[string]
	Phone    Optional[string]
}

// IsEmpty reports whether no field was supplied.
func (r *UpdateUserRequest) IsEmpty() bool {
	return !r.FullName.Present && !r.Phone.Present
}
