package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id, user_id, shipping_address, payment_method, transaction_id, applied_coupon, total_price,
                      status, delivery_otp, delivery_status, delivery_confirmed_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o         model.Order
		address   []byte
		method    string
		txnID     *string
		coupon    []byte
		status    string
		delivery  string
		confirmed *time.Time
	)
	err := row.Scan(&o.ID, &o.UserID, &address, &method, &txnID, &coupon, &o.TotalPrice,
		&status, &o.Delivery.OTP, &delivery, &confirmed, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	if len(coupon) > 0 {
		var applied model.AppliedCoupon
		if err := json.Unmarshal(coupon, &applied); err != nil {
			return nil, fmt.Errorf("decode applied coupon: %w", err)
		}
		o.AppliedCoupon = &applied
	}

	var txn string
	if txnID != nil {
		txn = *txnID
	}
	if o.Payment, err = model.NewPayment(model.PaymentMethod(method), txn); err != nil {
		return nil, err
	}

	o.Status = model.OrderStatus(status)
	o.Delivery.Status = model.DeliveryStatus(delivery)
	o.Delivery.ConfirmedAt = confirmed
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order, event model.OrderEvent) error {
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}
	var coupon []byte
	if order.AppliedCoupon != nil {
		if coupon, err = json.Marshal(order.AppliedCoupon); err != nil {
			return err
		}
	}
	var txnID *string
	if txn, ok := model.TransactionIDOf(order.Payment); ok {
		txnID = &txn
	}

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if order.AppliedCoupon != nil {
			if err := redeemCoupon(ctx, tx, order.AppliedCoupon.CouponID); err != nil {
				return err
			}
		}

		const insertOrder = `INSERT INTO orders (id, user_id, shipping_address, payment_method, transaction_id, applied_coupon,
                                                 total_price, status, delivery_otp, delivery_status)
                             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                             RETURNING created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder, order.ID, order.UserID, address, string(order.Payment.Method()), txnID, coupon,
			order.TotalPrice, string(order.Status), order.Delivery.OTP, string(order.Delivery.Status)).
			Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, position, product_id, name, image, price, quantity, unit)
                            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		for i, item := range order.Items {
			if _, err := tx.Exec(ctx, insertItem, order.ID, i, item.ProductID, item.Name, item.Image, item.Price, item.Quantity, item.Unit); err != nil {
				return err
			}
		}

		return insertEvent(ctx, tx, event)
	})
}

// redeemCoupon bumps the usage counter unless the limit is already reached.
func redeemCoupon(ctx context.Context, q querier, couponID string) error {
	const query = `UPDATE coupons SET used_count = used_count + 1
                   WHERE id=$1 AND (usage_limit = 0 OR used_count < usage_limit)`
	tag, err := q.Exec(ctx, query, couponID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrCouponExhausted
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := attachItems(ctx, r.storage.pool, []*model.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachItems(ctx, r.storage.pool, orders); err != nil {
		return nil, err
	}

	result := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, *o)
	}
	return result, nil
}

// attachItems loads the lines of every order with a single query.
func attachItems(ctx context.Context, q querier, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	byID := make(map[string]*model.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	const query = `SELECT order_id, product_id, name, image, price, quantity, unit
                   FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			item    model.OrderItem
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Image, &item.Price, &item.Quantity, &item.Unit); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *orderRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id=$1`, userID).Scan(&n)
	return n, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, event model.OrderEvent) (*model.Order, error) {
	var order *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + orderColumns
		var err error
		if order, err = scanOrder(tx.QueryRow(ctx, query, string(status), id)); err != nil {
			return err
		}
		if err := attachItems(ctx, tx, []*model.Order{order}); err != nil {
			return err
		}
		return insertEvent(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ConfirmDelivery(ctx context.Context, id string, confirmedAt time.Time, event model.OrderEvent) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `UPDATE orders SET delivery_status=$1, delivery_confirmed_at=$2, updated_at=NOW()
                       WHERE id=$3 AND delivery_status=$4`
		tag, err := tx.Exec(ctx, query, string(model.DeliveryConfirmed), confirmedAt, id, string(model.DeliveryPending))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrAlreadyConfirmed
		}
		return insertEvent(ctx, tx, event)
	})
}
