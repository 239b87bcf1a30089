package models

// SignerRole is the value posted as a signature to POST /contract/sign.
type SignerRole string

const (
	SignerSupplier SignerRole = "supplier"
	SignerCustomer SignerRole = "user"
)

// Contract is the acceptance document attached to an order.
// OrderID is zero when the backend only references the order inside Content.
type Contract struct {
	ID                int64  `json:"id"`
	OrderID           int64  `json:"order_id,omitempty"`
	Content           string `json:"content"`
	Status            int    `json:"status"`
	SupplierSignature string `json:"supplier_signature,omitempty"`
	CustomerSignature string `json:"customer_signature,omitempty"`
}

// SupplierSigned reports whether the supplier signature is present.
func (c *Contract) SupplierSigned() bool { return c != nil && c.SupplierSignature != "" }

// CustomerSigned reports whether the customer signature is present.
func (c *Contract) CustomerSigned() bool { return c != nil && c.CustomerSignature != "" }

// SignedBy reports whether the given signer already signed.
func (c *Contract) SignedBy(role SignerRole) bool {
	switch role {
	case SignerSupplier:
		return c.SupplierSigned()
	case SignerCustomer:
		return c.CustomerSigned()
	}
	return false
}
