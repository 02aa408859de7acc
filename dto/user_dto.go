package dto

import "authsphere/domain"

type UpdateProfileRequest struct {
	Username  *string `json:"username" binding:"omitempty,min=3,max=150,username"`
	FirstName *string `json:"first_name" binding:"omitempty,max=30"`
	LastName  *string `json:"last_name" binding:"omitempty,max=30"`
	Email     *string `json:"email" binding:"-"`
}

func (r *UpdateProfileRequest) Changes() domain.ProfileChanges {
	return domain.ProfileChanges{
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	IsActive   bool   `json:"is_active"`
	IsStaff    bool   `json:"is_staff"`
	DateJoined string `json:"date_joined"`
}

func MapUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.UUID,
		Email:      u.Email,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsActive:   u.IsActive,
		IsStaff:    u.IsStaff,
		DateJoined: u.DateJoined.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
