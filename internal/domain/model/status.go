package model

import "fmt"

// OrderStatus describes fulfilment lifecycle of a storefront order.
type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPicking        OrderStatus = "picking"
	OrderStatusPacking        OrderStatus = "packing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// HappyPath lists statuses an order passes through when nothing goes wrong.
var HappyPath = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusPicking,
	OrderStatusPacking,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// transitions maps every non-terminal status to the statuses it may move to.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:         {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPicking, OrderStatusCancelled},
	OrderStatusPicking:        {OrderStatusPacking, OrderStatusCancelled},
	OrderStatusPacking:        {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
}

// ParseOrderStatus validates raw status value.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return status, nil
}

// Valid reports whether status is one of the known values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusConfirmed, OrderStatusPicking, OrderStatusPacking,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether the transition table allows moving to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Next returns the following happy-path status.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, status := range HappyPath[:len(HappyPath)-1] {
		if status == s {
			return HappyPath[i+1], true
		}
	}
	return "", false
}

func (s OrderStatus) String() string {
	return string(s)
}
