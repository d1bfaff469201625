package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a postal address.
// It is immutable - all operations return new Address instances.
type Address struct {
	line1      string
	area       string
	city       string
	postalCode string
}

// NewAddress creates a new Address. Line1 and city are required.
func NewAddress(line1, area, city, postalCode string) (Address, error) {
	line1 = strings.TrimSpace(line1)
	area = strings.TrimSpace(area)
	city = strings.TrimSpace(city)
	postalCode = strings.TrimSpace(postalCode)

	if line1 == "" {
		return Address{}, fmt.Errorf("address line cannot be empty")
	}
	if len(line1) > 500 {
		return Address{}, fmt.Errorf("address line cannot exceed 500 characters")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if len(area) > 100 {
		return Address{}, fmt.Errorf("area cannot exceed 100 characters")
	}
	if len(postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}

	return Address{
		line1:      line1,
		area:       area,
		city:       city,
		postalCode: postalCode,
	}, nil
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Line1 returns the street address line
func (a Address) Line1() string {
	return a.line1
}

// Area returns the area or upazila
func (a Address) Area() string {
	return a.area
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// IsEmpty returns true if the address is empty
func (a Address) IsEmpty() bool {
	return a.line1 == "" && a.area == "" && a.city == ""
}

// String returns the complete formatted address
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, 4)
	for _, p := range []string{a.line1, a.area, a.city, a.postalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

type addressJSON struct {
	Line1      string `json:"line1"`
	Area       string `json:"area,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Line1:      a.line1,
		Area:       a.area,
		City:       a.city,
		PostalCode: a.postalCode,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Validation is delegated to
// NewAddress; fully empty addresses are allowed.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	if v.Line1 == "" && v.Area == "" && v.City == "" {
		*a = EmptyAddress()
		return nil
	}

	addr, err := NewAddress(v.Line1, v.Area, v.City, v.PostalCode)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer for database storage.
// Stores as a JSON string; empty addresses store NULL.
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}

	return json.Unmarshal(data, a)
}
