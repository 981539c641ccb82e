package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimPtr(t *testing.T) {
	var nilPtr *string
	TrimPtr(&nilPtr)
	assert.Nil(t, nilPtr)

	blank := Ptr("   ")
	TrimPtr(&blank)
	assert.Nil(t, blank)

	padded := Ptr("  12 Main St ")
	TrimPtr(&padded)
	assert.Equal(t, "12 Main St", *padded)
}

func TestClampPage(t *testing.T) {
	page, limit := ClampPage(0, 0, 20, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	page, limit = ClampPage(3, 500, 20, 100)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)
}
