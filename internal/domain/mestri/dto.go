package mestri

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/validator"
)

type MestriResponse struct {
	ID          string    `json:"id"`
	MestriID    string    `json:"mestri_id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewMestriResponse(m Mestri) MestriResponse {
	return MestriResponse{
		ID:          m.ID,
		MestriID:    m.MestriID,
		Name:        m.Name,
		PhoneNumber: m.PhoneNumber,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type CreateMestriRequest struct {
	MestriID    string `json:"mestri_id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

func (r *CreateMestriRequest) Validate() error {
	var errs validator.ValidationErrors

	r.MestriID = strings.TrimSpace(r.MestriID)
	r.Name = strings.TrimSpace(r.Name)

	// MestriID
	if validator.IsEmpty(r.MestriID) {
		errs = append(errs, validator.ValidationError{
			Field:   "mestri_id",
			Message: "mestri_id is required",
		})
	}

	// Name
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	// PhoneNumber
	if r.PhoneNumber != "" && !validator.IsValidIndianPhone(r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone_number",
			Message: ErrInvalidPhoneNumber.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateMestriRequest struct {
	MestriID    string  `json:"-"` // From URL
	Name        *string `json:"name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

func (r *UpdateMestriRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.MestriID) {
		errs = append(errs, validator.ValidationError{
			Field:   "mestri_id",
			Message: "mestri_id is required",
		})
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		if len(*r.Name) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 100 characters",
			})
		}
	}

	if r.PhoneNumber != nil && *r.PhoneNumber != "" && !validator.IsValidIndianPhone(*r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone_number",
			Message: ErrInvalidPhoneNumber.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
