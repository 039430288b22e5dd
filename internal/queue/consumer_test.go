package queue

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldAck(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"handled", nil, true},
		{"bad envelope", fmt.Errorf("%w: 1-0 has no type", ErrMalformedEvent), true},
		{"bad payload", fmt.Errorf("decode contact: %w", fmt.Errorf("%w: payload", ErrMalformedEvent)), true},
		{"store failure", errors.New("connection refused"), false},
		{"wrapped store failure", fmt.Errorf("digest: %w", errors.New("timeout")), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, shouldAck(tc.err))
		})
	}
}
