package pdo

// parseAttrValue parses a sysfs attribute value of the form
// "<number>[mV|mA|mW]" and returns the number. Malformed values degrade to
// zero for that single field rather than failing the whole encode, since a
// half-populated capability directory is still worth rendering.
func parseAttrValue(s string) uint32 {
	var v uint64
	var seen bool
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < '0' || ch > '9' {
			break
		}
		seen = true
		v = v*10 + uint64(ch-'0')
		if v > 0xFFFFFFFF {
			return 0
		}
	}
	if !seen {
		return 0
	}
	return uint32(v)
}

// EncodePDO is the inverse of DecodePDO: it packs sysfs-style attribute
// values back into the canonical raw 32-bit PDO, including the category
// tag bits. Fields absent from attrs contribute zero. The selection
// (category, role, position1) must match the one the attributes were
// produced under; on any output of DecodePDO the round trip is bit-exact.
// Returns 0 for CategoryUnknown or an empty attribute map.
func EncodePDO(attrs map[string]string, c Category, role Role, position1 bool) uint32 {
	if len(attrs) == 0 {
		return 0
	}
	runs := pdoRuns(c, position1)
	if runs == nil {
		return 0
	}
	raw := tagBits(c)
	for _, run := range runs {
		for _, f := range run.fields {
			if !applicable(f, role) {
				continue
			}
			s, ok := attrs[f.name]
			if !ok {
				continue
			}
			v := parseAttrValue(s)
			if f.scale != 0 {
				// Rendered values are milli-units; raw counts are
				// scale centi-units, i.e. scale*10 milli-units each.
				v /= uint32(f.scale) * 10
			}
			raw |= (v & f.mask()) << f.low
		}
	}
	return raw
}
