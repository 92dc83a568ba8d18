package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewData_IsZeroed(t *testing.T) {
	d := NewData()
	for i, b := range d {
		assert.Equal(t, byte(0), b, "byte %d", i)
	}
}

func TestData_Zero(t *testing.T) {
	d := NewData()
	d[0] = 1
	d[Size-1] = 1
	d.Zero()
	for i, b := range d {
		assert.Equal(t, byte(0), b, "byte %d", i)
	}
}

func TestInvalidID_NeverEqualsAnAllocatedID(t *testing.T) {
	assert.NotEqual(t, InvalidID, FirstID)
}
