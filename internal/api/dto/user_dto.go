package dto

// UpdateUserRequest payload for renaming a principal.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=255"`
}
