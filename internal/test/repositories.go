package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users   map[string]*model.User
	ByEmail map[string]*model.User
	Err     error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users:   make(map[string]*model.User),
		ByEmail: make(map[string]*model.User),
	}
}

// Create registers user unless the email is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) error {
	if s.Err != nil {
		return s.Err
	}
	email := strings.ToLower(user.Email)
	if _, exists := s.ByEmail[email]; exists {
		return domainErrors.ErrAlreadyExists
	}
	user.Email = email
	user.CreatedAt = time.Unix(0, 0).UTC()
	user.UpdatedAt = user.CreatedAt
	s.Users[user.ID] = user
	s.ByEmail[email] = user
	return nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByEmail[strings.ToLower(email)]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateAddress stores address on the user.
func (s *UserRepositoryStub) UpdateAddress(ctx context.Context, id string, address model.Address) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	addr := address
	user.Address = &addr
	return user, nil
}

// UpdatePassword replaces the stored hash.
func (s *UserRepositoryStub) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user.PasswordHash = passwordHash
	return nil
}

// List returns users ordered by id.
func (s *UserRepositoryStub) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	users := make([]model.User, 0, len(s.Users))
	for _, u := range s.Users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return page(users, limit, offset), nil
}

// PasswordResetRepositoryStub keeps reset digests with absolute expiry.
type PasswordResetRepositoryStub struct {
	Tokens map[string]ResetEntry
	Now    func() time.Time
	Err    error
}

// ResetEntry is a stored reset token.
type ResetEntry struct {
	UserID    string
	ExpiresAt time.Time
}

// NewPasswordResetRepositoryStub constructs an empty reset store.
func NewPasswordResetRepositoryStub() *PasswordResetRepositoryStub {
	return &PasswordResetRepositoryStub{Tokens: make(map[string]ResetEntry), Now: time.Now}
}

// Save replaces any previous token of userID.
func (s *PasswordResetRepositoryStub) Save(ctx context.Context, userID, tokenHash string, ttlSeconds int64) error {
	if s.Err != nil {
		return s.Err
	}
	for hash, entry := range s.Tokens {
		if entry.UserID == userID {
			delete(s.Tokens, hash)
		}
	}
	s.Tokens[tokenHash] = ResetEntry{UserID: userID, ExpiresAt: s.Now().Add(time.Duration(ttlSeconds) * time.Second)}
	return nil
}

// Consume removes an unexpired token and returns its owner.
func (s *PasswordResetRepositoryStub) Consume(ctx context.Context, tokenHash string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	entry, ok := s.Tokens[tokenHash]
	if !ok || !s.Now().Before(entry.ExpiresAt) {
		return "", domainErrors.ErrNotFound
	}
	delete(s.Tokens, tokenHash)
	return entry.UserID, nil
}

// OrderRepositoryStub keeps orders and their outbox events in memory.
type OrderRepositoryStub struct {
	CreateFn func(context.Context, *model.Order, model.OrderEvent) error

	mu     sync.Mutex
	Orders map[string]*model.Order
	Events []model.OrderEvent
	Err    error
}

// NewOrderRepositoryStub constructs an empty order store.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
}

// Create stores order and its event.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, event model.OrderEvent) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, event)
	}
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	s.Orders[order.ID] = order
	s.Events = append(s.Events, event)
	return nil
}

// GetByID returns a copy of the stored order.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

// ListByUser returns orders of userID.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	all, err := s.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	var out []model.Order
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// List returns all orders ordered by id.
func (s *OrderRepositoryStub) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, 0, len(s.Orders))
	for _, o := range s.Orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// CountByUser counts orders of userID.
func (s *OrderRepositoryStub) CountByUser(ctx context.Context, userID string) (int, error) {
	orders, err := s.ListByUser(ctx, userID)
	return len(orders), err
}

// UpdateStatus sets the status and records event.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, event model.OrderEvent) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	order.Status = status
	s.Events = append(s.Events, event)
	cp := *order
	return &cp, nil
}

// ConfirmDelivery marks the delivery confirmed once.
func (s *OrderRepositoryStub) ConfirmDelivery(ctx context.Context, id string, confirmedAt time.Time, event model.OrderEvent) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Delivery.Status == model.DeliveryConfirmed {
		return domainErrors.ErrAlreadyConfirmed
	}
	order.Delivery.Status = model.DeliveryConfirmed
	order.Delivery.ConfirmedAt = &confirmedAt
	s.Events = append(s.Events, event)
	return nil
}

// CouponRepositoryStub stores coupons by code.
type CouponRepositoryStub struct {
	Coupons map[string]*model.Coupon
	Err     error
}

// NewCouponRepositoryStub constructs a store holding coupons.
func NewCouponRepositoryStub(coupons ...model.Coupon) *CouponRepositoryStub {
	s := &CouponRepositoryStub{Coupons: make(map[string]*model.Coupon)}
	for i := range coupons {
		c := coupons[i]
		s.Coupons[strings.ToUpper(c.Code)] = &c
	}
	return s
}

// Create stores coupon unless the code exists.
func (s *CouponRepositoryStub) Create(ctx context.Context, coupon *model.Coupon) error {
	if s.Err != nil {
		return s.Err
	}
	code := strings.ToUpper(coupon.Code)
	if _, ok := s.Coupons[code]; ok {
		return domainErrors.ErrAlreadyExists
	}
	s.Coupons[code] = coupon
	return nil
}

// GetByCode looks a coupon up case-insensitively.
func (s *CouponRepositoryStub) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.Coupons[strings.ToUpper(code)]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// ReviewRepositoryStub stores reviews in insertion order.
type ReviewRepositoryStub struct {
	Reviews []model.Review
	Err     error
}

// Create stores review once per user and product.
func (s *ReviewRepositoryStub) Create(ctx context.Context, review *model.Review) error {
	if s.Err != nil {
		return s.Err
	}
	for _, r := range s.Reviews {
		if r.ProductID == review.ProductID && r.UserID == review.UserID {
			return domainErrors.ErrAlreadyReviewed
		}
	}
	review.CreatedAt = time.Now().UTC()
	s.Reviews = append(s.Reviews, *review)
	return nil
}

// ListByProduct returns reviews of productID, newest first.
func (s *ReviewRepositoryStub) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Review
	for i := len(s.Reviews) - 1; i >= 0; i-- {
		if s.Reviews[i].ProductID == productID {
			out = append(out, s.Reviews[i])
		}
	}
	return out, nil
}

// EventRepositoryStub serves queued outbox batches to the relay.
type EventRepositoryStub struct {
	ClaimFn func(context.Context, int) ([]model.OrderEvent, error)
	MarkFn  func(context.Context, int64) error

	mu        sync.Mutex
	Batches   [][]model.OrderEvent
	Published []int64
}

// ClaimBatch pops the next queued batch.
func (s *EventRepositoryStub) ClaimBatch(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Batches) == 0 {
		return nil, nil
	}
	batch := s.Batches[0]
	s.Batches = s.Batches[1:]
	return batch, nil
}

// Enqueue appends a batch for a later ClaimBatch.
func (s *EventRepositoryStub) Enqueue(batch []model.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Batches = append(s.Batches, batch)
}

// MarkPublished records id.
func (s *EventRepositoryStub) MarkPublished(ctx context.Context, id int64) error {
	if s.MarkFn != nil {
		return s.MarkFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = append(s.Published, id)
	return nil
}

// PublishedIDs returns a snapshot of marked ids.
func (s *EventRepositoryStub) PublishedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.Published...)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

var (
	_ repository.UserRepository          = (*UserRepositoryStub)(nil)
	_ repository.PasswordResetRepository = (*PasswordResetRepositoryStub)(nil)
	_ repository.OrderRepository         = (*OrderRepositoryStub)(nil)
	_ repository.CouponRepository        = (*CouponRepositoryStub)(nil)
	_ repository.ReviewRepository        = (*ReviewRepositoryStub)(nil)
	_ repository.EventRepository         = (*EventRepositoryStub)(nil)
)
