package models

// PaymentDetails is accepted with an order and discarded. No gateway is
// contacted and nothing here is persisted.
type PaymentDetails struct {
	CardholderName string `json:"cardholderName,omitempty"`
	CardNumber     string `json:"cardNumber,omitempty"`
	Expiry         string `json:"expiry,omitempty"`
	CVV            string `json:"cvv,omitempty"`
}
