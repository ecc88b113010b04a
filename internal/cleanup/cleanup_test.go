package cleanup

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestDeferClose_WhenCloseFails_ShouldLogWarning(t *testing.T) {
	var buf bytes.Buffer
	c := &closer{err: errors.New("busy")}

	DeferClose(zerolog.New(&buf), c, "close archive")

	assert.True(t, c.closed)
	assert.Contains(t, buf.String(), "close archive")
	assert.Contains(t, buf.String(), "busy")
}

func TestDeferClose_WhenCloseSucceeds_ShouldStayQuiet(t *testing.T) {
	var buf bytes.Buffer
	c := &closer{}

	DeferClose(zerolog.New(&buf), c, "close archive")

	assert.True(t, c.closed)
	assert.Zero(t, buf.Len())
}

func TestDeferClose_WhenNil_ShouldDoNothing(t *testing.T) {
	assert.NotPanics(t, func() { DeferClose(zerolog.Nop(), nil, "nothing") })
}
