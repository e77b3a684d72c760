package signature_test

import (
	"testing"

	"github.com/SpiceSniper/port-explorer/internal/signature"
	"github.com/stretchr/testify/assert"
)

func TestIdentify(t *testing.T) {
	t.Run("returns first declared match on ties", func(st *testing.T) {
		signatures := []signature.Signature{
			{Name: "A", Match: "x"},
			{Name: "B", Match: "x"},
		}

		name, ok := signature.Identify("x", signatures)

		assert.True(st, ok)
		assert.Equal(st, "A", name)
	})

	t.Run("returns no match when nothing matches", func(st *testing.T) {
		signatures := []signature.Signature{
			{Name: "A", Match: "zzz"},
		}

		name, ok := signature.Identify("hello", signatures)

		assert.False(st, ok)
		assert.Equal(st, "", name)
	})

	t.Run("matches substring anywhere in body", func(st *testing.T) {
		signatures := []signature.Signature{
			{Name: "Apache", Match: "Server: Apache"},
		}

		body := "HTTP/1.1 200 OK\r\nServer: Apache/2.4.57\r\n\r\n<html></html>"

		name, ok := signature.Identify(body, signatures)

		assert.True(st, ok)
		assert.Equal(st, "Apache", name)
	})

	t.Run("matching is case-sensitive", func(st *testing.T) {
		signatures := []signature.Signature{
			{Name: "Apache", Match: "apache"},
		}

		_, ok := signature.Identify("Server: Apache", signatures)

		assert.False(st, ok)
	})

	t.Run("is deterministic for repeated calls", func(st *testing.T) {
		signatures := []signature.Signature{
			{Name: "nginx", Match: "nginx"},
			{Name: "Apache", Match: "Apache"},
		}

		body := "Server: nginx/1.25.1 (Apache compatible)"

		first, firstOk := signature.Identify(body, signatures)

		for i := 0; i < 100; i++ {
			name, ok := signature.Identify(body, signatures)

			assert.Equal(st, firstOk, ok)
			assert.Equal(st, first, name)
		}
	})

	t.Run("empty signatures and empty body are valid inputs", func(st *testing.T) {
		_, ok := signature.Identify("anything", []signature.Signature{})

		assert.False(st, ok)

		_, ok = signature.Identify("", []signature.Signature{{Name: "A", Match: "x"}})

		assert.False(st, ok)
	})
}
