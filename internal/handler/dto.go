package handler

import (
	"time"

	"github.com/kmareda/regdesk/internal/domain"
	"github.com/kmareda/regdesk/internal/service"
)

// userDTO is the JSON representation of a registration record.
type userDTO struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	DOB              string    `json:"dob"`
	Contact          string    `json:"contact"`
	State            string    `json:"state"`
	Country          string    `json:"country"`
	CreatedAt        time.Time `json:"createdAt"`
	ValidationStatus string    `json:"validationStatus,omitempty"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		DOB:              u.DOB.Format("2006-01-02"),
		Contact:          u.Contact,
		State:            u.State,
		Country:          u.Country,
		CreatedAt:        u.CreatedAt,
		ValidationStatus: u.ValidationStatus,
	}
}

func toUserDTOs(users []domain.User) []userDTO {
	dtos := make([]userDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, toUserDTO(&users[i]))
	}
	return dtos
}

// userBody is the JSON request body for API create and update. Absent
// fields stay empty and mean "unchanged" on update.
type userBody struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	DOB     string `json:"dob"`
	Contact string `json:"contact"`
	State   string `json:"state"`
	Country string `json:"country"`
}

func (b userBody) input() service.UserInput {
	return service.UserInput{
		Name:    b.Name,
		Email:   b.Email,
		DOB:     b.DOB,
		Contact: b.Contact,
		State:   b.State,
		Country: b.Country,
	}
}
