package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/adapter/storefront"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/checkout"
	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/dto"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/usecase"
)

type options struct {
	baseURL   string
	email     string
	password  string
	cartPath  string
	coupon    string
	txn       string
	pinCodes  string
	address   model.Address
	clearCart bool
	verbose   bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.StringVar(&opts.baseURL, "a", "http://localhost:5000", "storefront base URL")
	fs.StringVar(&opts.email, "email", "", "account email")
	fs.StringVar(&opts.password, "password", "", "account password")
	fs.StringVar(&opts.cartPath, "cart", "cart.json", "JSON file with cart items")
	fs.StringVar(&opts.coupon, "coupon", "", "coupon code to apply")
	fs.StringVar(&opts.txn, "txn", "", "UPI transaction id")
	fs.StringVar(&opts.pinCodes, "pins", usecase.DefaultPinCode, "comma separated serviceable pin codes")
	fs.StringVar(&opts.address.HouseNo, "house", "", "house number, overrides the saved address")
	fs.StringVar(&opts.address.Landmark, "landmark", "", "landmark, overrides the saved address")
	fs.StringVar(&opts.address.City, "city", "", "city, overrides the saved address")
	fs.StringVar(&opts.address.State, "state", "", "state, overrides the saved address")
	fs.StringVar(&opts.address.PinCode, "pin", "", "pin code, overrides the saved address")
	fs.BoolVar(&opts.clearCart, "clear", true, "empty the cart file after the order is placed")
	fs.BoolVar(&opts.verbose, "v", false, "log requests")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.email == "" || opts.password == "" {
		return options{}, errors.New("-email and -password are required")
	}
	if opts.txn == "" {
		return options{}, errors.New("-txn is required")
	}
	return opts, nil
}

// run walks one checkout from address to payment against the storefront API.
func run(ctx context.Context, opts options, out io.Writer, logger *zap.Logger) error {
	cart := fileCart{path: opts.cartPath}
	items, err := cart.Load()
	if err != nil {
		return err
	}

	client, err := storefront.NewClient(opts.baseURL, logger.Named("storefront"))
	if err != nil {
		return err
	}
	if _, err := client.Login(ctx, opts.email, opts.password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	profile, err := client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	deps := checkout.Collaborators{
		Area:     usecase.NewServiceArea(splitList(opts.pinCodes)),
		Profiles: client,
		Coupons:  client,
		Orders:   client,
	}
	if opts.clearCart {
		deps.Cart = cart
	}
	machine := checkout.New(items, profile, deps)

	address := mergeAddress(machine.Draft().ShippingAddress, opts.address)
	if err := step(machine.SubmitAddress(ctx, address)); err != nil {
		return err
	}
	if opts.coupon != "" {
		if err := step(machine.ApplyCoupon(ctx, opts.coupon)); err != nil {
			return fmt.Errorf("coupon: %w", err)
		}
	}
	if err := step(machine.Next()); err != nil {
		return err
	}
	printSummary(out, machine.Summary())
	if err := step(machine.Next()); err != nil {
		return err
	}

	outcome, err := machine.SubmitPayment(ctx, opts.txn)
	if err != nil && !errors.Is(err, checkout.ErrCartNotCleared) {
		return err
	}
	if !outcome.OK() {
		return domainErrors.NewValidationError(outcome.FieldErrors)
	}
	if err != nil {
		logger.Warn("order placed but cart was not cleared", zap.Error(err))
	}

	return printOrder(out, outcome.Order)
}

func step(outcome checkout.Outcome, err error) error {
	if err != nil {
		return err
	}
	if !outcome.OK() {
		return domainErrors.NewValidationError(outcome.FieldErrors)
	}
	return nil
}

func mergeAddress(saved, override model.Address) model.Address {
	if override.HouseNo != "" {
		saved.HouseNo = override.HouseNo
	}
	if override.Landmark != "" {
		saved.Landmark = override.Landmark
	}
	if override.City != "" {
		saved.City = override.City
	}
	if override.State != "" {
		saved.State = override.State
	}
	if override.PinCode != "" {
		saved.PinCode = override.PinCode
	}
	return saved
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printSummary(w io.Writer, s checkout.Summary) {
	fmt.Fprintln(w, "Order summary")
	for _, item := range s.Items {
		fmt.Fprintf(w, "  %-24s %3d x %8.2f = %9.2f\n", item.Name, item.Quantity, item.Price, item.LineTotal())
	}
	a := s.ShippingAddress
	fmt.Fprintf(w, "Ship to: %s, %s, %s %s\n", a.HouseNo, a.City, a.State, a.PinCode)
	fmt.Fprintf(w, "Subtotal: %.2f\n", s.Subtotal)
	if s.AppliedCoupon != nil {
		fmt.Fprintf(w, "Coupon %s: -%.2f\n", s.AppliedCoupon.Code, s.Discount)
	}
	fmt.Fprintf(w, "Total: %.2f\n", s.Total)
}

func printOrder(w io.Writer, order *model.Order) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.NewOrderResponse(*order, false))
}

// report prints err with one line per failed field.
func report(w io.Writer, err error) {
	fmt.Fprintf(w, "checkout failed: %v\n", err)

	var fields map[string]string
	var apiErr *storefront.APIError
	var validation *domainErrors.ValidationError
	switch {
	case errors.As(err, &apiErr):
		fields = apiErr.FieldErrors()
	case errors.As(err, &validation):
		fields = make(map[string]string, len(validation.Fields))
		for _, f := range validation.Fields {
			fields[f.Field] = f.Message
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, fields[k])
	}
}
