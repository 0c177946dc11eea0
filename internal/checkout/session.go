package checkout

import (
	"time"

	"github.com/artisanmarket/storefront/internal/domain"
)

// Session is one buyer's trip through the checkout flow. It lives in
// memory only: created when checkout starts, discarded on completion or
// expiry.
type Session struct {
	ID        string                `json:"id"`
	CartOwner string                `json:"cart_owner"` // storefront session that owns the cart
	Step      domain.CheckoutStep   `json:"step"`
	Status    domain.CheckoutStatus `json:"status"`
	Form      domain.CheckoutForm   `json:"form"`
	Errors    domain.FieldErrors    `json:"errors"`
	Cart      *domain.Cart          `json:"cart"`
	Totals    domain.OrderTotals    `json:"totals"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	ExpiresAt time.Time             `json:"-"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// FormPatch carries partial form edits. Only non-nil fields are applied,
// and each applied field has its validation error cleared right away.
type FormPatch struct {
	Email      *string               `json:"email"`
	FirstName  *string               `json:"first_name"`
	LastName   *string               `json:"last_name"`
	Address    *string               `json:"address"`
	City       *string               `json:"city"`
	State      *string               `json:"state"`
	ZipCode    *string               `json:"zip_code"`
	Country    *string               `json:"country"`
	Phone      *string               `json:"phone"`
	Method     *domain.PaymentMethod `json:"payment_method"`
	CardNumber *string               `json:"card_number"`
	ExpiryDate *string               `json:"expiry_date"`
	CVV        *string               `json:"cvv"`
	NameOnCard *string               `json:"name_on_card"`
	SaveInfo   *bool                 `json:"save_info"`
	Newsletter *bool                 `json:"newsletter"`
}

// apply writes the patch into the form and returns the names of the
// fields that were touched.
func (p *FormPatch) apply(form *domain.CheckoutForm) []string {
	var touched []string

	setString := func(name string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			touched = append(touched, name)
		}
	}

	setString(domain.FieldEmail, &form.Email, p.Email)
	setString(domain.FieldFirstName, &form.FirstName, p.FirstName)
	setString(domain.FieldLastName, &form.LastName, p.LastName)
	setString(domain.FieldAddress, &form.Address, p.Address)
	setString(domain.FieldCity, &form.City, p.City)
	setString(domain.FieldState, &form.State, p.State)
	setString(domain.FieldZipCode, &form.ZipCode, p.ZipCode)
	setString(domain.FieldCountry, &form.Country, p.Country)
	setString(domain.FieldPhone, &form.Phone, p.Phone)
	setString(domain.FieldCardNumber, &form.CardNumber, p.CardNumber)
	setString(domain.FieldExpiryDate, &form.ExpiryDate, p.ExpiryDate)
	setString(domain.FieldCVV, &form.CVV, p.CVV)
	setString(domain.FieldNameOnCard, &form.NameOnCard, p.NameOnCard)

	if p.Method != nil {
		form.Method = *p.Method
		touched = append(touched, "payment_method")
	}
	if p.SaveInfo != nil {
		form.SaveInfo = *p.SaveInfo
	}
	if p.Newsletter != nil {
		form.Newsletter = *p.Newsletter
	}

	return touched
}
