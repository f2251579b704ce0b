package types

// PaymentDetails records the customer's stated payment instrument. No
// processor is involved, so the fields are display metadata only.
type PaymentDetails struct {
	UPIID      string `json:"upi_id,omitempty"`
	CardLast4  string `json:"card_last4,omitempty"`
	CardBrand  string `json:"card_brand,omitempty"`
	HolderName string `json:"holder_name,omitempty"`
}
