package service

import (
	"testing"

	"github.com/bookstore-next/internal/models"

	"github.com/stretchr/testify/require"
)

func TestOrderStateForwardFlow(t *testing.T) {
	flow := []models.OrderState{
		models.OrderStatePlaced,
		models.OrderStateConfirmed,
		models.OrderStateProcessing,
		models.OrderStateShipped,
		models.OrderStateDelivered,
	}
	for i := 0; i+1 < len(flow); i++ {
		require.True(t, isTransitionAllowed(flow[i], flow[i+1]), "%s -> %s", flow[i], flow[i+1])
	}
	require.False(t, isTransitionAllowed(models.OrderStatePlaced, models.OrderStateShipped), "skipping states")
	require.False(t, isTransitionAllowed(models.OrderStateShipped, models.OrderStateConfirmed), "moving backwards")
}

func TestOrderStateCancellationFromNonTerminal(t *testing.T) {
	for _, state := range models.AllOrderStates() {
		require.Equal(t, !state.IsTerminal(), isTransitionAllowed(state, models.OrderStateCancelled), "cancel from %s", state)
	}
}

func TestOrderStateTerminalHasNoExits(t *testing.T) {
	for _, terminal := range []models.OrderState{models.OrderStateDelivered, models.OrderStateCancelled} {
		require.Empty(t, NextOrderStates(terminal), "terminal state %s", terminal)
	}
	require.False(t, isTransitionAllowed(models.OrderState(9), models.OrderStateCancelled), "unknown state")
}

func TestNextOrderStatesFromPlaced(t *testing.T) {
	require.Equal(t, []models.OrderState{models.OrderStateConfirmed, models.OrderStateCancelled}, NextOrderStates(models.OrderStatePlaced))
}
