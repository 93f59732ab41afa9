package platform

// UTF16CodeUnits returns the UTF-16 code units of s, already split into
// surrogate pairs for characters above U+FFFF. Each returned unit is emitted
// as one keyboard event by the `type` handler.
func UTF16CodeUnits(s string) []uint16 {
	units := make([]uint16, 0, len(s))
	for _, r := range s {
		switch {
		case r <= 0xFFFF:
			units = append(units, uint16(r))
		default:
			r -= 0x10000
			high := uint16(0xD800 + (r >> 10))
			low := uint16(0xDC00 + (r & 0x3FF))
			units = append(units, high, low)
		}
	}
	return units
}
