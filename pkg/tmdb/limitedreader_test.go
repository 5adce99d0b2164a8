package tmdb

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitedReader(t *testing.T) {
	data := []byte(`{"success":true}`)

	t.Run("Basic Reading", func(t *testing.T) {
		lr := limitReader(bytes.NewReader(data), 5, ErrResponseTooLarge)
		buf := make([]byte, 5)
		n, err := lr.Read(buf)
		assert.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, `{"suc`, string(buf))
	})

	t.Run("Read Beyond Limit", func(t *testing.T) {
		lr := limitReader(bytes.NewReader(data), 5, ErrResponseTooLarge)
		_, err := io.ReadAll(lr)
		assert.ErrorIs(t, err, ErrResponseTooLarge)
	})

	t.Run("EOF Handling", func(t *testing.T) {
		lr := limitReader(bytes.NewReader(data), int64(len(data))+1, ErrResponseTooLarge)
		b, err := io.ReadAll(lr)
		assert.NoError(t, err)
		assert.Equal(t, string(data), string(b))
	})
}
