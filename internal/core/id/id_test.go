package id

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Less(t *testing.T) {
	assert.True(t, ID("9").Less("10"))
	assert.False(t, ID("10").Less("9"))
	assert.True(t, ID("a").Less("b"))
	assert.True(t, ID("10").Less("a"))
	assert.True(t, ID("2").Less("1a"), "integers sort before other ids")
	assert.False(t, ID("1a").Less("2"))
	assert.False(t, ID("5").Less("5"))
}

func TestID_UnmarshalJSON(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":42,"b":"x-1","c":null}`), &v))
	assert.Equal(t, ID("42"), v.A)
	assert.Equal(t, ID("x-1"), v.B)
	assert.True(t, v.C.IsNil())
}

func TestNew(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a, b)
	assert.Len(t, a.String(), 36)
}
