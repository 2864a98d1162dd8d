package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	Name          string   `db:"name"`
	Email         string   `db:"email"`
	PasswordHash  string   `db:"password"`
	Phone         *string  `db:"phone"`
	Role          UserRole `db:"role"`
	LoyaltyPoints int      `db:"loyalty_points"`
	ReferralCode  *string  `db:"referral_code"`
	EmailVerified bool     `db:"email_verified"`
	IsActive      bool     `db:"is_active"`
}

// Tier is derived from the point balance and never stored.
func (u *User) Tier() LoyaltyTier {
	return TierOf(u.LoyaltyPoints)
}
