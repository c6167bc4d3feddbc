package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowValueSurchargeBoundary(t *testing.T) {
	// The surcharge applies strictly above the threshold.
	assert.InDelta(t, 5000.0, RowValue(500, 10.0), 1e-9)
	assert.InDelta(t, 5511.0, RowValue(501, 10.0), 1e-6)
	assert.InDelta(t, 6600.0, RowValue(600, 10.0), 1e-6)
	assert.InDelta(t, 10.0, RowValue(1, 10.0), 1e-9)
}

func TestRegionValid(t *testing.T) {
	for _, region := range Regions() {
		assert.True(t, region.Valid())
	}
	assert.False(t, Region("north").Valid())
	assert.False(t, Region("NORTH").Valid())
	assert.False(t, Region("Central").Valid())
	assert.False(t, Region("").Valid())
}
