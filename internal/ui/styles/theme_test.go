package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextCyclesAllThemes(t *testing.T) {
	seen := map[string]bool{}
	name := "light"
	for i := 0; i < len(Names()); i++ {
		seen[name] = true
		name = Next(name)
	}
	assert.Equal(t, "light", name)
	assert.Len(t, seen, 4)
	assert.Equal(t, "light", Next("unknown"))
}

func TestByName(t *testing.T) {
	for _, n := range Names() {
		th := ByName(n)
		assert.Equal(t, n, th.Name)
		assert.NotEmpty(t, th.GlamourStyle)
	}
	assert.Equal(t, "light", ByName("neon").Name)
	assert.Equal(t, "tokyo-night", ByName("ocean").GlamourStyle)
}
