package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransactionTransitionsRejectReopeningTerminalStates(t *testing.T) {
	for _, terminal := range []TransactionStatus{TransactionStatusCompleted, TransactionStatusCancelled} {
		require.True(t, terminal.Terminal())
		for _, next := range []TransactionStatus{TransactionStatusRequested, TransactionStatusConfirmed, TransactionStatusCompleted, TransactionStatusCancelled} {
			_, err := terminal.TransitionTo(next)
			require.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", terminal, next)
		}
	}
}

func TestTransactionTransitionsAllowBookingFlow(t *testing.T) {
	status, err := TransactionStatusRequested.TransitionTo(TransactionStatusConfirmed)
	require.NoError(t, err)
	status, err = status.TransitionTo(TransactionStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, TransactionStatusCompleted, status)

	require.True(t, TransactionStatusRequested.Outstanding())
	require.True(t, TransactionStatusConfirmed.Outstanding())
	require.False(t, TransactionStatusCompleted.Outstanding())
}

func TestListingRemovedIsTerminal(t *testing.T) {
	require.True(t, ListingStatusActive.CanTransition(ListingStatusRemoved))
	require.True(t, ListingStatusInactive.CanTransition(ListingStatusActive))
	_, err := ListingStatusRemoved.TransitionTo(ListingStatusActive)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.False(t, ListingStatus("archived").Valid())
}

func TestAccountTransitions(t *testing.T) {
	require.True(t, AccountStatusActive.CanTransition(AccountStatusSuspended))
	require.True(t, AccountStatusSuspended.CanTransition(AccountStatusActive))
	require.False(t, AccountStatusDeleted.CanTransition(AccountStatusActive))
}

func TestParseSuspensionType(t *testing.T) {
	kind, ok := ParseSuspensionType(" Permanent ")
	require.True(t, ok)
	require.Equal(t, SuspensionTypePermanent, kind)

	_, ok = ParseSuspensionType("forever")
	require.False(t, ok)
}
