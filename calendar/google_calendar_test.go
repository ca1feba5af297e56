package calendar

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"expired auth", &googleapi.Error{Code: 401}, ErrAuthExpired},
		{"forbidden", &googleapi.Error{Code: 403}, ErrForbidden},
		{"wrapped expired auth", fmt.Errorf("insert: %w", &googleapi.Error{Code: 401}), ErrAuthExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.want)
		})
	}
}

func TestClassifyPassesThroughOtherErrors(t *testing.T) {
	rateLimited := &googleapi.Error{Code: 429}
	assert.Equal(t, error(rateLimited), classify(rateLimited))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, classify(plain))
	assert.NotErrorIs(t, classify(plain), ErrAuthExpired)
}
