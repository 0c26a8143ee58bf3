package domain

// PayoutDetails is the validated destination for a withdrawal. Account
// numbers are NUBAN (10 digits). RecipientCode is filled in once the rail has
// accepted the recipient.
type PayoutDetails struct {
	AccountNumber string `json:"account_number" validate:"required,numeric,len=10"`
	BankCode      string `json:"bank_code" validate:"required,numeric,min=3,max=6"`
	AccountName   string `json:"account_name" validate:"required,min=2"`
	RecipientCode string `json:"recipient_code,omitempty"`
}
