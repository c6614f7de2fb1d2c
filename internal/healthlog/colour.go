package healthlog

import "fmt"

// Colour is an RGB triple as decoded from a "#RRGGBB" string.
type Colour [3]uint8

// String re-encodes the colour in the source form. The output is valid
// CSS, which is what the renderer feeds it to.
func (c Colour) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2])
}

// ParseColour decodes a "#RRGGBB" colour string. The format is strict:
// a leading '#', then exactly six hex digits, uppercase only. Log files
// are machine-normalized, so lowercase digits are treated as hand-edit
// typos rather than silently accepted.
func ParseColour(s string) (Colour, error) {
	var c Colour
	if len(s) == 0 || s[0] != '#' {
		return c, ErrColourPrefix
	}
	if len(s) != 7 {
		return c, ErrColourLength
	}
	for i := 0; i < 3; i++ {
		hi, err := hexNibble(s[1+2*i])
		if err != nil {
			return c, err
		}
		lo, err := hexNibble(s[2+2*i])
		if err != nil {
			return c, err
		}
		c[i] = hi<<4 | lo
	}
	return c, nil
}

func hexNibble(b byte) (uint8, error) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', nil
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, nil
	default:
		return 0, &HexDigitError{Digit: b}
	}
}
