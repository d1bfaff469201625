package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("creates address with required fields", func(t *testing.T) {
		addr, err := NewAddress("12 Green Road", "Dhanmondi", "Dhaka", "1205")
		require.NoError(t, err)
		assert.Equal(t, "12 Green Road", addr.Line1())
		assert.Equal(t, "Dhanmondi", addr.Area())
		assert.Equal(t, "Dhaka", addr.City())
		assert.Equal(t, "1205", addr.PostalCode())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		addr, err := NewAddress("  12 Green Road ", "", " Dhaka ", "")
		require.NoError(t, err)
		assert.Equal(t, "12 Green Road", addr.Line1())
		assert.Equal(t, "Dhaka", addr.City())
	})

	t.Run("rejects empty line1", func(t *testing.T) {
		_, err := NewAddress("", "Dhanmondi", "Dhaka", "")
		assert.Error(t, err)
	})

	t.Run("rejects empty city", func(t *testing.T) {
		_, err := NewAddress("12 Green Road", "", "", "")
		assert.Error(t, err)
	})
}

func TestAddressString(t *testing.T) {
	addr, err := NewAddress("12 Green Road", "Dhanmondi", "Dhaka", "1205")
	require.NoError(t, err)
	assert.Equal(t, "12 Green Road, Dhanmondi, Dhaka, 1205", addr.String())

	assert.Equal(t, "", EmptyAddress().String())
}

func TestAddressJSONRoundTrip(t *testing.T) {
	addr, err := NewAddress("12 Green Road", "Dhanmondi", "Dhaka", "1205")
	require.NoError(t, err)

	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, addr.Equals(decoded))
}

func TestAddressUnmarshalEmpty(t *testing.T) {
	var addr Address
	require.NoError(t, json.Unmarshal([]byte(`{}`), &addr))
	assert.True(t, addr.IsEmpty())
}

func TestAddressScan(t *testing.T) {
	t.Run("scans nil as empty", func(t *testing.T) {
		var addr Address
		require.NoError(t, addr.Scan(nil))
		assert.True(t, addr.IsEmpty())
	})

	t.Run("scans JSON bytes", func(t *testing.T) {
		var addr Address
		require.NoError(t, addr.Scan([]byte(`{"line1":"12 Green Road","city":"Dhaka"}`)))
		assert.Equal(t, "Dhaka", addr.City())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var addr Address
		assert.Error(t, addr.Scan(42))
	})
}
