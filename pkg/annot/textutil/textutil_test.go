package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringify(t *testing.T) {
	assert.Equal(t, "hello", Stringify("hello"))
	assert.Equal(t, "42", Stringify(42))
	assert.Equal(t, "3.5", Stringify(3.5))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "bytes", Stringify([]byte("bytes")))

	// Structured values match against their printed form, not their elements.
	assert.Equal(t, "[a b c]", Stringify([]string{"a", "b", "c"}))
}

func TestByteLen(t *testing.T) {
	// "héllo" is 5 runes but 6 encoded bytes.
	assert.Equal(t, 6, ByteLen("héllo"))
	assert.Equal(t, 5, ByteLen("hello"))
	assert.Equal(t, 0, ByteLen(""))
}

func TestFlattenNewlines(t *testing.T) {
	assert.Equal(t, "a b c", FlattenNewlines("a\nb\nc"))
	assert.Equal(t, "plain", FlattenNewlines("plain"))
}
