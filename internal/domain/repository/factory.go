package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Orders() OrderRepository
	Coupons() CouponRepository
	Reviews() ReviewRepository
	PasswordResets() PasswordResetRepository
	Events() EventRepository
}
