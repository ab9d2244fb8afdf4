package checkout

import (
	"strings"

	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/modules/pricing"
)

// Form is the checkout form. Field order is the order errors are reported in.
type Form struct {
	FullName       string                 `json:"full_name" validate:"required,person_name"`
	Email          string                 `json:"email" validate:"required,email,max=255"`
	Phone          string                 `json:"phone" validate:"required,il_phone"`
	Address        string                 `json:"address" validate:"required_if=DeliveryMethod delivery,omitempty,min=3,max=200"`
	City           string                 `json:"city" validate:"required_if=DeliveryMethod delivery,omitempty,min=2,max=50"`
	Notes          string                 `json:"notes" validate:"max=500"`
	DeliveryMethod pricing.DeliveryMethod `json:"delivery_method" validate:"required,oneof=pickup delivery"`
}

// Normalize trims input, defaults the method to pickup and drops the address
// for pickup orders.
func (f *Form) Normalize() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(f.Phone))
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.Notes = strings.TrimSpace(f.Notes)
	if f.DeliveryMethod == "" {
		f.DeliveryMethod = pricing.Pickup
	}
	if f.DeliveryMethod == pricing.Pickup {
		f.Address, f.City = "", ""
	}
}

// Validate returns the failed fields in form order; empty means valid.
func (f *Form) Validate(lang validation.Lang) []validation.FieldError {
	return validation.Struct(f, lang)
}

func (f *Form) notesPtr() *string {
	if f.Notes == "" {
		return nil
	}
	n := f.Notes
	return &n
}
