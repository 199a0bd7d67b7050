package tuitest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[1;32m[x]\x1b[0m Check pressure   \n\x1b[2mhelp\x1b[0m\n\n"
	assert.Equal(t, "[x] Check pressure\nhelp", StripANSI(in))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "x", KeyPress('x').String())
	assert.Equal(t, "enter", KeyEnter().String())
	assert.Equal(t, "esc", KeyEsc().String())
	assert.Equal(t, "down", KeyDown().String())

	typed := Type("J-1")
	if assert.Len(t, typed, 3) {
		assert.Equal(t, "-", typed[1].String())
	}
}
