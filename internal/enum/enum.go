package enum

// Order statuses live in package status, next to their registry.

// ── Roles (carried in JWT claims) ──

const (
	UserRoleCustomer = "CUSTOMER"
	UserRoleBarista  = "BARISTA"
	UserRoleManager  = "MANAGER"
)

// ── Payment (recorded on the order, never processed) ──

const (
	PaymentMethodCreditCard    = "CREDIT_CARD"
	PaymentMethodDebitCard     = "DEBIT_CARD"
	PaymentMethodCash          = "CASH"
	PaymentMethodOnlineBanking = "ONLINE_BANKING"
	PaymentMethodQRCode        = "QR_CODE"
)

// ── Live board events ──

const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
)

// IsStaffRole reports whether role may work the order queue.
func IsStaffRole(role string) bool {
	return role == UserRoleBarista || role == UserRoleManager
}

// IsValidPaymentMethod reports whether s is a known payment method.
func IsValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodCash,
		PaymentMethodOnlineBanking, PaymentMethodQRCode:
		return true
	}
	return false
}
