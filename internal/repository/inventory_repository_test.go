package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOccupiedIn(t *testing.T) {
	placeholders, args := occupiedIn()
	assert.Equal(t, "?, ?, ?", placeholders)
	assert.Equal(t, []interface{}{"pending", "paid", "rented"}, args)
}
