package common_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/ogero/tmdb-contract/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestValidateMovieID(t *testing.T) {
	tests := []struct {
		id      int
		wantErr assert.ErrorAssertionFunc
	}{
		{550, assert.NoError},
		{1, assert.NoError},
		{0, assert.Error},
		{-500, assert.Error},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.id), func(t *testing.T) {
			err := common.ValidateMovieID(tt.id)
			tt.wantErr(t, err)
		})
	}
}

func TestValidateRating(t *testing.T) {
	tests := []struct {
		value   float64
		wantErr assert.ErrorAssertionFunc
	}{
		{10, assert.NoError},
		{8.5, assert.NoError},
		{0.5, assert.NoError},
		{0, assert.Error},
		{-1, assert.Error},
		{10.5, assert.Error},
		{5000, assert.Error},
		{7.3, assert.Error},
		{math.NaN(), assert.Error},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.value), func(t *testing.T) {
			err := common.ValidateRating(tt.value)
			tt.wantErr(t, err)
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	assert.NoError(t, common.ValidateCredentials("key", "user", "pass"))

	err := common.ValidateCredentials("", "user", "")
	assert.ErrorContains(t, err, "missing api key")
	assert.ErrorContains(t, err, "missing password")
	assert.NotContains(t, err.Error(), "missing username")
}
