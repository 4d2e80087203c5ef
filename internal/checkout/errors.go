package checkout

import "errors"

var (
	ErrEmptyCart      = errors.New("cart is empty, nothing to checkout")
	ErrSubmitInFlight = errors.New("a checkout is already in flight for this session")
	ErrHandoffFailed  = errors.New("checkout handoff failed")
)
