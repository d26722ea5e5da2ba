package dto

// UpdateUserRequest represents a partial profile update.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// DeleteUserRequest confirms account removal with the current password.
type DeleteUserRequest struct {
	Password string `json:"password"`
}
