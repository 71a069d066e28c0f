package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sushi-audio/sushi-go/pkg/core/buffer"
)

func TestPassthroughCopiesInputToOutput(t *testing.T) {
	p := NewPassthrough(1, 2)
	p.Init(48000)

	in := buffer.New(2)
	in.Channel(0)[0] = 0.5
	in.Channel(1)[3] = -0.25
	out := buffer.New(2)

	p.ProcessAudio(in, out)

	assert.Equal(t, float32(0.5), out.Channel(0)[0])
	assert.Equal(t, float32(-0.25), out.Channel(1)[3])
}

func TestPassthroughHasStableUID(t *testing.T) {
	p := NewPassthrough(1, 2)
	assert.Equal(t, PassthroughUID, p.Name())
}
