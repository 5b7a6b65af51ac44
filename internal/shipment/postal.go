package shipment

import "fmt"

// Band is an inclusive range of numeric 5-digit postal codes.
type Band struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

func (b Band) Contains(code int) bool {
	return code >= b.Low && code <= b.High
}

func (b Band) String() string {
	return fmt.Sprintf("%05d-%05d", b.Low, b.High)
}

// ParsePostalCode accepts exactly five ASCII digits. Leading zeros are kept
// significant for the length check but not for the numeric value.
func ParsePostalCode(s string) (int, bool) {
	if len(s) != 5 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
