package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"order-processing/internal/models"
)

// HandleMessage decodes a JSON order from a Kafka message and dispatches it.
// Its signature matches kafka.HandlerFunc.
func (s *Service) HandleMessage(ctx context.Context, key, value []byte) error {
	order, err := decodeOrder(value)
	if err != nil {
		return &OrderError{Op: "HandleMessage", Err: fmt.Errorf("%w: key %s: %v", ErrInvalidOrder, key, err)}
	}
	return s.ProcessOrder(ctx, order)
}

func decodeOrder(value []byte) (*models.Order, error) {
	if len(value) == 0 || string(value) == "null" {
		return nil, errors.New("empty message")
	}
	var order models.Order
	if err := json.Unmarshal(value, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
