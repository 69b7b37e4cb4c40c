package users

import (
	"github.com/google/uuid"

	"github.com/abronee/devex/pkg/db/models"
)

// UserDTO is the wire shape of a user as surfaced by member/request listings.
type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Roles       []string  `json:"roles"`
}

// FromModel converts a persisted user into its wire shape.
func FromModel(user *models.User) UserDTO {
	if user == nil {
		return UserDTO{}
	}
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Roles:       []string(user.Roles),
	}
}

// FromModels converts a slice of users, preserving order.
func FromModels(list []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, FromModel(&list[i]))
	}
	return dtos
}
