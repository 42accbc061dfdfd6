package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     PageRequest
		wantErr bool
	}{
		{"first page", PageRequest{Page: 0, PageSize: 20}, false},
		{"max page size", PageRequest{Page: 3, PageSize: MaxPageSize}, false},
		{"negative page", PageRequest{Page: -1, PageSize: 20}, true},
		{"zero page size", PageRequest{Page: 0, PageSize: 0}, true},
		{"oversized page", PageRequest{Page: 0, PageSize: MaxPageSize + 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidArgument))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 0, PageSize: 25}.Offset())
	assert.Equal(t, 75, PageRequest{Page: 3, PageSize: 25}.Offset())
}
