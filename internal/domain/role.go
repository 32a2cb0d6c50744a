package domain

// Roles carried in the auth token. The core trusts the transport layer to
// have authenticated them; it only checks ownership and role here.
const (
	RoleCustomer = "customer"
	RoleCashier  = "cashier"
)
