package dto

import (
	"github.com/microshop/microshop/internal/model"
	"github.com/microshop/microshop/internal/service"
)

// UserRequest is the body of POST and PUT /users. Absent fields stay nil.
type UserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// ToInput converts the request into service input.
func (r UserRequest) ToInput() service.UserInput {
	return service.UserInput{Name: r.Name, Email: r.Email}
}

// DeleteUserResponse is returned by DELETE /users/{id}.
type DeleteUserResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}
