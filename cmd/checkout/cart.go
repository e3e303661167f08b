package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

// fileCart is a cart persisted as a JSON array of order items.
type fileCart struct {
	path string
}

func (c fileCart) Load() ([]model.OrderItem, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	var items []model.OrderItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", c.path, err)
	}
	return items, nil
}

// ClearCart empties the cart file.
func (c fileCart) ClearCart(context.Context) error {
	return os.WriteFile(c.path, []byte("[]\n"), 0o644)
}
