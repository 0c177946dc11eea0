package domain

// CheckoutStep is the position in the linear checkout flow.
type CheckoutStep int

const (
	StepShipping CheckoutStep = 1
	StepPayment  CheckoutStep = 2
	StepReview   CheckoutStep = 3
)

func (s CheckoutStep) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	}
	return "unknown"
}

type CheckoutStatus string

const (
	CheckoutStatusInProgress CheckoutStatus = "IN_PROGRESS"
	CheckoutStatusProcessing CheckoutStatus = "PROCESSING"
	CheckoutStatusCompleted  CheckoutStatus = "COMPLETED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCompleted
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

// CanTransitionTo enforces the legal status moves: a session only enters
// PROCESSING from IN_PROGRESS, and only completes from PROCESSING.
func CanTransitionTo(from, to CheckoutStatus) bool {
	switch to {
	case CheckoutStatusProcessing:
		return from == CheckoutStatusInProgress
	case CheckoutStatusCompleted:
		return from == CheckoutStatusProcessing
	case CheckoutStatusInProgress:
		return from == CheckoutStatusInProgress
	}
	return false
}

// PaymentMethod is a closed set; each method declares its own required
// card fields so the validation rules stay exhaustive.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodPaypal PaymentMethod = "paypal"
	PaymentMethodApple  PaymentMethod = "apple"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodPaypal, PaymentMethodApple:
		return true
	}
	return false
}

// RequiredFields returns the checkout form fields this method needs
// populated before submission. Hosted methods collect nothing here.
func (m PaymentMethod) RequiredFields() []string {
	if m == PaymentMethodCard {
		return []string{FieldCardNumber, FieldExpiryDate, FieldCVV, FieldNameOnCard}
	}
	return nil
}

// Form field names, shared by the form struct, validation and the API.
const (
	FieldEmail      = "email"
	FieldFirstName  = "first_name"
	FieldLastName   = "last_name"
	FieldAddress    = "address"
	FieldCity       = "city"
	FieldState      = "state"
	FieldZipCode    = "zip_code"
	FieldCountry    = "country"
	FieldPhone      = "phone"
	FieldCardNumber = "card_number"
	FieldExpiryDate = "expiry_date"
	FieldCVV        = "cvv"
	FieldNameOnCard = "name_on_card"
)

// FieldErrors maps a form field name to a user-facing message. An empty
// map means the validated step may advance.
type FieldErrors map[string]string

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

type CheckoutForm struct {
	Email      string        `json:"email"`
	FirstName  string        `json:"first_name"`
	LastName   string        `json:"last_name"`
	Address    string        `json:"address"`
	City       string        `json:"city"`
	State      string        `json:"state"`
	ZipCode    string        `json:"zip_code"`
	Country    string        `json:"country"`
	Phone      string        `json:"phone"`
	Method     PaymentMethod `json:"payment_method"`
	CardNumber string        `json:"card_number"`
	ExpiryDate string        `json:"expiry_date"`
	CVV        string        `json:"cvv"`
	NameOnCard string        `json:"name_on_card"`
	SaveInfo   bool          `json:"save_info"`
	Newsletter bool          `json:"newsletter"`
}

// ValidateShipping checks the required shipping fields. Phone is optional
// and country carries a default, so neither is validated.
func (f *CheckoutForm) ValidateShipping() FieldErrors {
	errs := FieldErrors{}
	require(errs, FieldEmail, f.Email, "Email is required")
	require(errs, FieldFirstName, f.FirstName, "First name is required")
	require(errs, FieldLastName, f.LastName, "Last name is required")
	require(errs, FieldAddress, f.Address, "Address is required")
	require(errs, FieldCity, f.City, "City is required")
	require(errs, FieldState, f.State, "State is required")
	require(errs, FieldZipCode, f.ZipCode, "ZIP code is required")
	return errs
}

// ValidatePayment checks the fields the selected payment method requires.
func (f *CheckoutForm) ValidatePayment() FieldErrors {
	errs := FieldErrors{}
	if !f.Method.Valid() {
		errs["payment_method"] = "Payment method is required"
		return errs
	}
	for _, field := range f.Method.RequiredFields() {
		switch field {
		case FieldCardNumber:
			require(errs, field, f.CardNumber, "Card number is required")
		case FieldExpiryDate:
			require(errs, field, f.ExpiryDate, "Expiry date is required")
		case FieldCVV:
			require(errs, field, f.CVV, "CVV is required")
		case FieldNameOnCard:
			require(errs, field, f.NameOnCard, "Name on card is required")
		}
	}
	return errs
}

// ValidateStep dispatches validation for the given step. The review step
// has no inputs of its own.
func (f *CheckoutForm) ValidateStep(step CheckoutStep) FieldErrors {
	switch step {
	case StepShipping:
		return f.ValidateShipping()
	case StepPayment:
		return f.ValidatePayment()
	}
	return FieldErrors{}
}

func require(errs FieldErrors, field, value, message string) {
	if value == "" {
		errs[field] = message
	}
}
