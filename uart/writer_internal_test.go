package uart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWriterSpinsByDefault(t *testing.T) {
	w := NewWriter(nil)
	assert.Equal(t, SpinPoller{}, w.poller)
}
