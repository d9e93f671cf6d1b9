package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPharmacyCartAndCheckout(t *testing.T) {
	svc := NewPharmacyService()
	sess := session.New()

	empty := svc.Checkout(sess)
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.Total)

	line, err := svc.Add(sess, "Paracetamol", 2)
	require.NoError(t, err)
	assert.Equal(t, 100, line.Total)

	// Re-adding replaces the line.
	_, err = svc.Add(sess, "Paracetamol", 3)
	require.NoError(t, err)
	_, err = svc.Add(sess, "Vitamin D3", 1)
	require.NoError(t, err)
	assert.Equal(t, 350, sess.CartTotal())

	order := svc.Checkout(sess)
	assert.Equal(t, 350, order.Total)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Paracetamol", order.Items[0].Name)
	assert.Empty(t, sess.Cart)
}

func TestPharmacyAddValidation(t *testing.T) {
	svc := NewPharmacyService()
	sess := session.New()

	_, err := svc.Add(sess, "Aspirin", 1)
	assert.ErrorIs(t, err, ErrUnknownMedicine)
	_, err = svc.Add(sess, "Ibuprofen", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = svc.Add(sess, "Ibuprofen", 11)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, sess.Cart)
}

func TestMedicinesReturnsCopy(t *testing.T) {
	svc := NewPharmacyService()
	meds := svc.Medicines()
	require.Len(t, meds, 3)
	meds[0].Price = 1
	assert.Equal(t, 50, Catalog[0].Price)
}
