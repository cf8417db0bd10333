package domain

// User is a local operator account. Passwords are stored as bcrypt hashes
// only; a default admin is bootstrapped on first start if no user exists.
type User struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role"`
	IsActive     bool   `json:"is_active"`
	AuditFields
}
