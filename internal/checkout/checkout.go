// Package checkout drives the four step checkout flow: address, coupon, summary and payment.
// A Machine holds the order draft and talks to the backend only through its collaborators.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/schema"
)

// Step is a checkout state.
type Step int

const (
	StepAddress Step = iota
	StepCoupon
	StepSummary
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepAddress:
		return "address"
	case StepCoupon:
		return "coupon"
	case StepSummary:
		return "summary"
	case StepPayment:
		return "payment"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

var (
	// ErrEmptyCart stops a submission without any items before the backend is contacted.
	ErrEmptyCart = errors.New("your cart is empty")
	// ErrSubmissionInFlight is returned while a collaborator call of the same machine is pending.
	ErrSubmissionInFlight = errors.New("a checkout request is already in progress")
	// ErrWrongStep is returned by a transition invoked outside its step.
	ErrWrongStep = errors.New("transition not allowed in the current step")
	// ErrCompleted is returned once the order has been placed.
	ErrCompleted = errors.New("checkout already completed")
	// ErrCartNotCleared accompanies a placed order whose cart could not be emptied.
	ErrCartNotCleared = errors.New("order placed but the cart could not be cleared")
)

// Field error messages shown next to the inputs.
const (
	msgHouseNo       = "House number is required"
	msgCity          = "City is required"
	msgState         = "Please select a valid state"
	msgPinFormat     = "Pin code must be exactly 6 digits"
	msgPinArea       = "Sorry, we do not deliver to this pin code yet"
	msgCouponCode    = "Please enter a coupon code"
	msgTransactionID = "Transaction ID must be exactly 12 alphanumeric characters"
)

// ServiceArea decides whether orders can be delivered to a pin code.
type ServiceArea interface {
	Serves(pinCode string) bool
}

// ProfileUpdater saves the shipping address on the user profile.
type ProfileUpdater interface {
	UpdateAddress(ctx context.Context, address model.Address) (*model.User, error)
}

// CouponApplier prices a coupon code against the cart subtotal.
type CouponApplier interface {
	ApplyCoupon(ctx context.Context, code string, subtotal float64) (*model.AppliedCoupon, error)
}

// OrderSubmitter places the assembled order.
type OrderSubmitter interface {
	PlaceOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error)
}

// CartClearer empties the cart after a successful order.
type CartClearer interface {
	ClearCart(ctx context.Context) error
}

// Collaborators are the outside services a Machine depends on. Cart may be nil.
type Collaborators struct {
	Area     ServiceArea
	Profiles ProfileUpdater
	Coupons  CouponApplier
	Orders   OrderSubmitter
	Cart     CartClearer
}

// Outcome is the result of a transition: the step the machine is on afterwards and,
// when local validation failed, the messages per field.
type Outcome struct {
	Step        Step
	FieldErrors map[string]string
	Order       *model.Order
}

// OK reports whether the transition passed local validation.
func (o Outcome) OK() bool {
	return len(o.FieldErrors) == 0
}

// Draft is the order being assembled.
type Draft struct {
	Items           []model.OrderItem
	ShippingAddress model.Address
	AppliedCoupon   *model.AppliedCoupon
	TransactionID   string
}

// Subtotal sums the items.
func (d Draft) Subtotal() float64 {
	return model.Subtotal(d.Items)
}

// Discount is the amount taken off by the applied coupon.
func (d Draft) Discount() float64 {
	return model.DiscountOf(d.AppliedCoupon)
}

// Total is the amount payable.
func (d Draft) Total() float64 {
	return model.PayableTotal(d.Items, d.AppliedCoupon)
}

func (d Draft) clone() Draft {
	out := d
	out.Items = append([]model.OrderItem(nil), d.Items...)
	if d.AppliedCoupon != nil {
		c := *d.AppliedCoupon
		out.AppliedCoupon = &c
	}
	return out
}

// Summary is the read-only recap shown before payment.
type Summary struct {
	Items           []model.OrderItem
	ShippingAddress model.Address
	AppliedCoupon   *model.AppliedCoupon
	Subtotal        float64
	Discount        float64
	Total           float64
}

// Machine is one checkout session. It is safe for concurrent use; collaborator
// calls never overlap.
type Machine struct {
	mu       sync.Mutex
	step     Step
	draft    Draft
	saved    *model.Address
	inFlight bool
	order    *model.Order
	deps     Collaborators
}

// New starts a checkout for items. The shipping address is pre-filled from the profile.
func New(items []model.OrderItem, profile *model.User, deps Collaborators) *Machine {
	m := &Machine{
		step:  StepAddress,
		draft: Draft{Items: append([]model.OrderItem(nil), items...)},
		deps:  deps,
	}
	if profile != nil && profile.Address != nil {
		saved := *profile.Address
		m.saved = &saved
		m.draft.ShippingAddress = saved
	}
	return m
}

// Step returns the current step.
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Draft returns a copy of the order being assembled.
func (m *Machine) Draft() Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft.clone()
}

// Order returns the placed order, nil until SubmitPayment succeeds.
func (m *Machine) Order() *model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order
}

// Completed reports whether the order has been placed.
func (m *Machine) Completed() bool {
	return m.Order() != nil
}

// Summary recaps the draft. It never changes state.
func (m *Machine) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.draft.clone()
	return Summary{
		Items:           d.Items,
		ShippingAddress: d.ShippingAddress,
		AppliedCoupon:   d.AppliedCoupon,
		Subtotal:        d.Subtotal(),
		Discount:        d.Discount(),
		Total:           d.Total(),
	}
}

// guard checks the machine may leave want. Callers hold mu.
func (m *Machine) guard(want Step) error {
	switch {
	case m.order != nil:
		return ErrCompleted
	case m.inFlight:
		return ErrSubmissionInFlight
	case m.step != want:
		return fmt.Errorf("%w: on %s, expected %s", ErrWrongStep, m.step, want)
	}
	return nil
}

// SubmitAddress validates the shipping address and moves on to the coupon step.
// A changed address is saved to the profile first; if that fails the machine stays put.
func (m *Machine) SubmitAddress(ctx context.Context, address model.Address) (Outcome, error) {
	m.mu.Lock()
	if err := m.guard(StepAddress); err != nil {
		step := m.step
		m.mu.Unlock()
		return Outcome{Step: step}, err
	}

	address = trimAddress(address)
	if fields := m.validateAddress(address); len(fields) > 0 {
		m.mu.Unlock()
		return Outcome{Step: StepAddress, FieldErrors: fields}, nil
	}

	if m.saved != nil && m.saved.Equal(address) {
		m.draft.ShippingAddress = address
		m.step = StepCoupon
		m.mu.Unlock()
		return Outcome{Step: StepCoupon}, nil
	}

	m.inFlight = true
	m.mu.Unlock()

	user, err := m.deps.Profiles.UpdateAddress(ctx, address)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
	if err != nil {
		return Outcome{Step: StepAddress}, fmt.Errorf("save address: %w", err)
	}

	saved := address
	if user != nil && user.Address != nil {
		saved = *user.Address
	}
	m.saved = &saved
	m.draft.ShippingAddress = address
	m.step = StepCoupon
	return Outcome{Step: StepCoupon}, nil
}

func (m *Machine) validateAddress(a model.Address) map[string]string {
	fields := map[string]string{}
	if a.HouseNo == "" {
		fields["houseNo"] = msgHouseNo
	}
	if a.City == "" {
		fields["city"] = msgCity
	}
	if !schema.IsState(a.State) {
		fields["state"] = msgState
	}
	switch {
	case !schema.IsPinCode(a.PinCode):
		fields["pinCode"] = msgPinFormat
	case m.deps.Area == nil || !m.deps.Area.Serves(a.PinCode):
		fields["pinCode"] = msgPinArea
	}
	return fields
}

func trimAddress(a model.Address) model.Address {
	return model.Address{
		HouseNo:  strings.TrimSpace(a.HouseNo),
		Landmark: strings.TrimSpace(a.Landmark),
		City:     strings.TrimSpace(a.City),
		State:    strings.TrimSpace(a.State),
		PinCode:  strings.TrimSpace(a.PinCode),
	}
}

// ApplyCoupon prices code against the subtotal and attaches it to the draft.
// The step does not change; a rejected code is returned as the collaborator's error.
func (m *Machine) ApplyCoupon(ctx context.Context, code string) (Outcome, error) {
	m.mu.Lock()
	if err := m.guard(StepCoupon); err != nil {
		step := m.step
		m.mu.Unlock()
		return Outcome{Step: step}, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		m.mu.Unlock()
		return Outcome{Step: StepCoupon, FieldErrors: map[string]string{"code": msgCouponCode}}, nil
	}
	subtotal := m.draft.Subtotal()
	m.inFlight = true
	m.mu.Unlock()

	applied, err := m.deps.Coupons.ApplyCoupon(ctx, code, subtotal)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
	if err != nil {
		return Outcome{Step: StepCoupon}, err
	}
	m.draft.AppliedCoupon = applied
	return Outcome{Step: StepCoupon}, nil
}

// RemoveCoupon detaches the applied coupon.
func (m *Machine) RemoveCoupon() (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(StepCoupon); err != nil {
		return Outcome{Step: m.step}, err
	}
	m.draft.AppliedCoupon = nil
	return Outcome{Step: StepCoupon}, nil
}

// Next moves forward from coupon to summary and from summary to payment.
// Leaving address requires SubmitAddress and leaving payment requires SubmitPayment.
func (m *Machine) Next() (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.order != nil {
		return Outcome{Step: m.step}, ErrCompleted
	}
	if m.inFlight {
		return Outcome{Step: m.step}, ErrSubmissionInFlight
	}
	switch m.step {
	case StepCoupon:
		m.step = StepSummary
	case StepSummary:
		m.step = StepPayment
	default:
		return Outcome{Step: m.step}, fmt.Errorf("%w: no next step from %s", ErrWrongStep, m.step)
	}
	return Outcome{Step: m.step}, nil
}

// Back moves one step backwards without re-validating. On address it stays put.
func (m *Machine) Back() (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.order != nil {
		return Outcome{Step: m.step}, ErrCompleted
	}
	if m.inFlight {
		return Outcome{Step: m.step}, ErrSubmissionInFlight
	}
	if m.step > StepAddress {
		m.step--
	}
	return Outcome{Step: m.step}, nil
}

// EditAddress jumps from the summary back to the address step.
func (m *Machine) EditAddress() (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guard(StepSummary); err != nil {
		return Outcome{Step: m.step}, err
	}
	m.step = StepAddress
	return Outcome{Step: StepAddress}, nil
}

// SubmitPayment places the order paid by UPI QR with transactionID. On success the
// draft is discarded and the cart cleared; on failure the draft is kept for a retry.
func (m *Machine) SubmitPayment(ctx context.Context, transactionID string) (Outcome, error) {
	m.mu.Lock()
	if err := m.guard(StepPayment); err != nil {
		step := m.step
		m.mu.Unlock()
		return Outcome{Step: step}, err
	}

	transactionID = strings.TrimSpace(transactionID)
	m.draft.TransactionID = transactionID
	if !schema.IsTransactionID(transactionID) {
		m.mu.Unlock()
		return Outcome{Step: StepPayment, FieldErrors: map[string]string{"transactionId": msgTransactionID}}, nil
	}
	if len(m.draft.Items) == 0 {
		m.mu.Unlock()
		return Outcome{Step: StepPayment}, ErrEmptyCart
	}

	d := m.draft.clone()
	payload := model.OrderDraft{
		Items:           d.Items,
		ShippingAddress: d.ShippingAddress,
		Payment:         model.UPIQRPayment{TransactionID: transactionID},
		AppliedCoupon:   d.AppliedCoupon,
		TotalPrice:      d.Total(),
	}
	m.inFlight = true
	m.mu.Unlock()

	order, err := m.deps.Orders.PlaceOrder(ctx, payload)

	if err == nil && order == nil {
		err = errors.New("order submission returned no order")
	}

	m.mu.Lock()
	m.inFlight = false
	if err != nil {
		m.mu.Unlock()
		return Outcome{Step: StepPayment}, err
	}
	m.order = order
	m.draft = Draft{}
	m.mu.Unlock()

	out := Outcome{Step: StepPayment, Order: order}
	if m.deps.Cart != nil {
		if err := m.deps.Cart.ClearCart(ctx); err != nil {
			return out, fmt.Errorf("%w: %v", ErrCartNotCleared, err)
		}
	}
	return out, nil
}
