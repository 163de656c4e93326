package common

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "x", Coalesce("", "x"))
	assert.Equal(t, float32(0), Coalesce[float32]())
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]uint32{}))

	data := []float32{1, -2.5}
	b := SliceToBytes(data)
	assert.Len(t, b, 8)
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(b[0:]))
	assert.Equal(t, math.Float32bits(-2.5), binary.LittleEndian.Uint32(b[4:]))

	type pair struct{ A, B uint32 }
	assert.Len(t, SliceToBytes([]pair{{1, 2}, {3, 4}, {5, 6}}), 24)
}

func TestErrorsWrap(t *testing.T) {
	err := fmt.Errorf("vertex buffer: %w", ErrResourceCreation)
	assert.ErrorIs(t, err, ErrResourceCreation)
	assert.False(t, errors.Is(err, ErrConfiguration))
}
