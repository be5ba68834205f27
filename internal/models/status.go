package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTransition indicates a status change that the lifecycle table forbids.
var ErrInvalidTransition = errors.New("invalid status transition")

// AccountStatus is the lifecycle state of a student account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusDeleted   AccountStatus = "deleted"
)

// ListingStatus is the lifecycle state of a service listing.
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusInactive ListingStatus = "inactive"
	ListingStatusRemoved  ListingStatus = "removed"
)

// TransactionStatus is the lifecycle state of a booking.
type TransactionStatus string

const (
	TransactionStatusRequested TransactionStatus = "requested"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// SuspensionType distinguishes bounded suspensions from open-ended ones.
type SuspensionType string

const (
	SuspensionTypeTemporary SuspensionType = "temporary"
	SuspensionTypePermanent SuspensionType = "permanent"
)

var accountTransitions = map[AccountStatus][]AccountStatus{
	AccountStatusActive:    {AccountStatusSuspended, AccountStatusDeleted},
	AccountStatusSuspended: {AccountStatusActive, AccountStatusDeleted},
	AccountStatusDeleted:   {},
}

var listingTransitions = map[ListingStatus][]ListingStatus{
	ListingStatusActive:   {ListingStatusInactive, ListingStatusRemoved},
	ListingStatusInactive: {ListingStatusActive, ListingStatusRemoved},
	ListingStatusRemoved:  {},
}

var transactionTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusRequested: {TransactionStatusConfirmed, TransactionStatusCancelled},
	TransactionStatusConfirmed: {TransactionStatusCompleted, TransactionStatusCancelled},
	TransactionStatusCompleted: {},
	TransactionStatusCancelled: {},
}

// Valid reports whether the status is a known account state.
func (s AccountStatus) Valid() bool {
	_, ok := accountTransitions[s]
	return ok
}

// CanTransition reports whether the account may move from s to next.
func (s AccountStatus) CanTransition(next AccountStatus) bool {
	return contains(accountTransitions[s], next)
}

// TransitionTo validates the move and returns the next state.
func (s AccountStatus) TransitionTo(next AccountStatus) (AccountStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: account %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

// Valid reports whether the status is a known listing state.
func (s ListingStatus) Valid() bool {
	_, ok := listingTransitions[s]
	return ok
}

// CanTransition reports whether the listing may move from s to next.
func (s ListingStatus) CanTransition(next ListingStatus) bool {
	return contains(listingTransitions[s], next)
}

// TransitionTo validates the move and returns the next state.
func (s ListingStatus) TransitionTo(next ListingStatus) (ListingStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: listing %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

// Valid reports whether the status is a known booking state.
func (s TransactionStatus) Valid() bool {
	_, ok := transactionTransitions[s]
	return ok
}

// Terminal reports whether no further transition is possible.
func (s TransactionStatus) Terminal() bool {
	return s.Valid() && len(transactionTransitions[s]) == 0
}

// Outstanding reports whether the booking still awaits fulfilment.
func (s TransactionStatus) Outstanding() bool {
	return s == TransactionStatusRequested || s == TransactionStatusConfirmed
}

// CanTransition reports whether the booking may move from s to next.
func (s TransactionStatus) CanTransition(next TransactionStatus) bool {
	return contains(transactionTransitions[s], next)
}

// TransitionTo validates the move and returns the next state.
func (s TransactionStatus) TransitionTo(next TransactionStatus) (TransactionStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: transaction %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

// ParseSuspensionType normalises user input into a suspension type.
func ParseSuspensionType(raw string) (SuspensionType, bool) {
	switch SuspensionType(strings.ToLower(strings.TrimSpace(raw))) {
	case SuspensionTypeTemporary:
		return SuspensionTypeTemporary, true
	case SuspensionTypePermanent:
		return SuspensionTypePermanent, true
	default:
		return "", false
	}
}

// OutstandingTransactionStatuses lists the states cancelled by a provider suspension.
func OutstandingTransactionStatuses() []TransactionStatus {
	return []TransactionStatus{TransactionStatusRequested, TransactionStatusConfirmed}
}

func contains[T comparable](values []T, target T) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
