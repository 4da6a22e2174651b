package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abkawan/banking-core/internal/errs"
)

func TestUpdateRateRejectsNonPositive(t *testing.T) {
	c := NewConverter()

	err := c.UpdateRate("EUR", "USD", 0)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.InvalidArgument))

	err = c.UpdateRate("EUR", "USD", -1.2)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.InvalidArgument))
}

func TestConvertSameCurrency(t *testing.T) {
	c := NewConverter()

	got, err := c.Convert("RON", "RON", 42.5)
	require.NoError(t, err)
	assert.Equal(t, 42.5, got)
}

func TestConvertDirectAndReciprocal(t *testing.T) {
	c := NewConverter()
	require.NoError(t, c.UpdateRate("EUR", "RON", 5.0))

	got, err := c.Convert("EUR", "RON", 10)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got, 1e-9)

	// the reciprocal edge is stored automatically
	back, err := c.Convert("RON", "EUR", got)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, back, 1e-9)
}

func TestConvertRoundTrip(t *testing.T) {
	c := NewConverter()
	require.NoError(t, c.UpdateRate("RON", "EUR", 0.2))
	require.NoError(t, c.UpdateRate("EUR", "USD", 1.1))

	tests := []struct {
		name   string
		from   string
		to     string
		amount float64
	}{
		{name: "direct_pair", from: "RON", to: "EUR", amount: 100},
		{name: "two_hop_pair", from: "RON", to: "USD", amount: 33.3},
		{name: "reverse_two_hop", from: "USD", to: "RON", amount: 7.77},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			there, err := c.Convert(tt.from, tt.to, tt.amount)
			require.NoError(t, err)
			back, err := c.Convert(tt.to, tt.from, there)
			require.NoError(t, err)
			assert.InDelta(t, tt.amount, back, 1e-9)
		})
	}
}

func TestConvertMultiHopPath(t *testing.T) {
	c := NewConverter()
	require.NoError(t, c.UpdateRate("RON", "EUR", 0.2))
	require.NoError(t, c.UpdateRate("EUR", "USD", 1.1))

	// no direct RON->USD edge: conversion goes RON->EUR->USD
	got, err := c.Convert("RON", "USD", 100)
	require.NoError(t, err)
	assert.InDelta(t, 22.0, got, 1e-9)
}

func TestConvertErrors(t *testing.T) {
	c := NewConverter()
	require.NoError(t, c.UpdateRate("EUR", "USD", 1.1))
	require.NoError(t, c.UpdateRate("GBP", "JPY", 190))

	t.Run("unknown_source_currency", func(t *testing.T) {
		_, err := c.Convert("RON", "USD", 10)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.NotFound))
	})

	t.Run("unreachable_target", func(t *testing.T) {
		_, err := c.Convert("EUR", "JPY", 10)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.NotFound))
	})

	t.Run("negative_amount", func(t *testing.T) {
		_, err := c.Convert("EUR", "USD", -5)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.InvalidArgument))
	})
}

func TestUpdateRateOverwritesExistingEdge(t *testing.T) {
	c := NewConverter()
	require.NoError(t, c.UpdateRate("EUR", "USD", 1.1))
	require.NoError(t, c.UpdateRate("EUR", "USD", 1.25))

	got, err := c.Convert("EUR", "USD", 100)
	require.NoError(t, err)
	assert.InDelta(t, 125.0, got, 1e-9)

	back, err := c.Convert("USD", "EUR", 125)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, back, 1e-9)
}
