package domain

// User is the acting cashier or supervisor attached to every movement and
// reconciliation. The ledger trusts a pre-authenticated actor identifier;
// this type exists so the identity collaborator has a shape.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
