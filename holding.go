package brokerage

import "encoding/json"

// Holding is a per-symbol running position inside an investment account:
// the quantity currently held and the weighted average cost paid per unit.
//
// A Holding only exists while its quantity is positive. Selling a position
// down to zero removes the symbol from the account's holdings map entirely;
// the map never retains zero-quantity entries.
type Holding struct {
	AverageCost Money // cost basis per unit, can be fractional cents
	Quantity    Quantity
}

// CostBasis returns the total cost of the position, average cost times quantity.
func (h Holding) CostBasis() Money {
	return h.AverageCost.Mul(h.Quantity)
}

// averaged returns the holding after buying quantity more units for totalCost,
// recomputing the weighted average cost per unit. Sales never go through here:
// selling reduces the quantity but leaves the average cost untouched.
func (h Holding) averaged(quantity Quantity, totalCost Money) Holding {
	newQuantity := h.Quantity.Add(quantity)
	newCost := h.AverageCost.Mul(h.Quantity).Add(totalCost)
	return Holding{
		AverageCost: newCost.Div(newQuantity),
		Quantity:    newQuantity,
	}
}

// MarshalJSON implements the json.Marshaler interface with a fixed field order.
func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("average_cost_per_unit", h.AverageCost)
	w.Append("quantity", h.Quantity)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (h *Holding) UnmarshalJSON(data []byte) error {
	var temp struct {
		AverageCost Money    `json:"average_cost_per_unit"`
		Quantity    Quantity `json:"quantity"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	h.AverageCost = temp.AverageCost
	h.Quantity = temp.Quantity
	return nil
}
