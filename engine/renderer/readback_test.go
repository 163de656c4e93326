package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaddedBytesPerRow(t *testing.T) {
	tests := []struct {
		width int
		want  uint32
	}{
		{width: 1, want: 256},
		{width: 64, want: 256},
		{width: 65, want: 512},
		{width: 800, want: 3328},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, paddedBytesPerRow(tt.width), "width %d", tt.width)
	}
}

func TestUnpadRows(t *testing.T) {
	const width, height, bytesPerRow = 2, 2, 12
	data := []byte{
		1, 2, 3, 4, 5, 6, 7, 8, 0xEE, 0xEE, 0xEE, 0xEE,
		9, 10, 11, 12, 13, 14, 15, 16, 0xEE, 0xEE, 0xEE, 0xEE,
	}

	img := unpadRows(data, width, height, bytesPerRow)

	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, img.Pix)
	r, g, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, []uint32{13, 14, 15, 16}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}
