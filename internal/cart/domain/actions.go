package domain

// Action is the closed vocabulary of cart mutations. Only types in this
// package implement it, so Reduce can enumerate every case.
type Action interface {
	isAction()
}

// Add merges the item into an existing line item with the same variant
// identity, or appends it at the end of the list.
type Add struct {
	Item LineItem
}

// Remove drops the line item with the matching variant identity.
type Remove struct {
	ProductID string
	Color     *string
	Size      *string
}

// SetQuantity replaces the quantity of the matching line item, clamped to a
// floor of 1. Removing an item is a separate action.
type SetQuantity struct {
	ProductID string
	Color     *string
	Size      *string
	Quantity  int
}

// Clear empties the cart.
type Clear struct{}

// Hydrate replaces the whole list verbatim. Used only when loading a
// persisted cart at session start, never by user actions.
type Hydrate struct {
	Items []LineItem
}

func (Add) isAction()         {}
func (Remove) isAction()      {}
func (SetQuantity) isAction() {}
func (Clear) isAction()       {}
func (Hydrate) isAction()     {}
