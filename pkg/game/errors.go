package game

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/bike-town/pkg/world"
)

// ErrNotFound is returned when a game or location id does not resolve.
var ErrNotFound = errors.New("not found")

// RejectReason distinguishes the rule that rejected an action.
type RejectReason string

const (
	ReasonNonPositiveAmount  RejectReason = "non_positive_amount"
	ReasonInsufficientFunds  RejectReason = "insufficient_funds"
	ReasonInsufficientEnergy RejectReason = "insufficient_energy"
	ReasonSameLocation       RejectReason = "same_location"
	ReasonUnknownLocation    RejectReason = "unknown_location"
	ReasonNoEvent            RejectReason = "no_event"
	ReasonGameFinished       RejectReason = "game_finished"
)

// RejectedError is a game-rule rejection. No state was mutated.
// Needed/Available carry the exact shortfall for resource rejections;
// Route is set on energy rejections so the caller can warn about
// poor or rough terrain.
type RejectedError struct {
	Reason    RejectReason     `json:"reason"`
	Message   string           `json:"message"`
	Needed    int              `json:"needed,omitempty"`
	Available int              `json:"available,omitempty"`
	Route     *world.RouteInfo `json:"route,omitempty"`
}

func (e *RejectedError) Error() string {
	return e.Message
}

func rejectInsufficientEnergy(needed, available int, route world.RouteInfo) error {
	return &RejectedError{
		Reason:    ReasonInsufficientEnergy,
		Message:   fmt.Sprintf("not enough energy: need %d, have %d", needed, available),
		Needed:    needed,
		Available: available,
		Route:     &route,
	}
}

func rejectInsufficientFunds(needed, available int) error {
	return &RejectedError{
		Reason:    ReasonInsufficientFunds,
		Message:   fmt.Sprintf("not enough money: need %d, have %d", needed, available),
		Needed:    needed,
		Available: available,
	}
}

// AsRejected unwraps a RejectedError, if the error is one.
func AsRejected(err error) (*RejectedError, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected, true
	}
	return nil, false
}
