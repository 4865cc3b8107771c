package pdo

import "strconv"

// extract shifts raw right by the descriptor's low bit and masks it to the
// descriptor's width. It must only be called with a descriptor applicable
// to the value being decoded.
func extract(raw uint32, f field) uint32 {
	return (raw >> f.low) & f.mask()
}

// scaleCenti converts an extracted raw count to centi-units of the field's
// display unit (centi-volts, centi-amps, centi-watts). Unit-less fields
// (scale 0) pass through unchanged. The widest scaled field is 12 bits and
// the largest linear multiplier 100, so the result always fits 32 bits
// with room to spare.
func scaleCenti(v uint32, scale int16) uint32 {
	switch {
	case scale == 0:
		return v
	case scale == scaleOutputVoltage:
		// Legacy PPS/AVS request output_voltage rule: the field is stored
		// in 2-unit steps, so halve it before applying the 25 centi-unit
		// multiplier.
		return (v >> 1) * 25
	default:
		return v * uint32(scale)
	}
}

// render formats an extracted field value the way sysfs renders the same
// attribute: milli-units with a unit suffix for scaled fields, a bare
// decimal count otherwise.
func render(f field, v uint32) string {
	if f.scale == 0 {
		return strconv.FormatUint(uint64(v), 10)
	}
	milli := scaleCenti(v, f.scale) * 10
	return strconv.FormatUint(uint64(milli), 10) + f.unit.suffix()
}

// applicable reports whether a PDO descriptor applies for the given role.
// Giveback-restricted descriptors never appear in PDO runs.
func applicable(f field, role Role) bool {
	switch f.app {
	case appBoth:
		return true
	case appSourceOnly:
		return role == RoleSource
	case appSinkOnly:
		return role == RoleSink
	}
	return false
}

// givebackBit is the RDO bit that selects between the giveback and
// non-giveback field of a shared bit range. It is read out of the raw value
// being decoded, never supplied by the caller: giveback is self-describing.
const givebackBit = 27

// rdoApplicable reports whether an RDO descriptor applies given the raw
// value's own giveback flag.
func rdoApplicable(f field, raw uint32) bool {
	switch f.app {
	case appBoth:
		return true
	case appGiveback:
		return raw&(1<<givebackBit) != 0
	case appNoGiveback:
		return raw&(1<<givebackBit) == 0
	}
	return false
}

// DecodePDO decodes a raw PDO of the given category into its ordered
// attribute list. role selects between role-dependent fields; position1
// must be true for the first PDO of a capability list, which alone carries
// the fixed-supply extension flags. The result is empty only for
// CategoryUnknown. DecodePDO never fails.
func DecodePDO(raw uint32, c Category, role Role, position1 bool) []Attribute {
	var out []Attribute
	for _, run := range pdoRuns(c, position1) {
		for _, f := range run.fields {
			if !applicable(f, role) {
				continue
			}
			out = append(out, Attribute{Name: f.name, Value: render(f, extract(raw, f))})
		}
	}
	return out
}

// DecodeRDO decodes a raw RDO. The caller must state which category the
// referenced source PDO belongs to, since an RDO does not describe itself;
// an unknown reference category fails with ErrBadReferenceCategory. The
// first attribute is always object_position, the 1..13 slot of the partner
// source PDO the request refers to.
func DecodeRDO(raw uint32, ref Category) ([]Attribute, error) {
	run, err := rdoRun(ref)
	if err != nil {
		return nil, err
	}
	var out []Attribute
	for _, f := range run.fields {
		if !rdoApplicable(f, raw) {
			continue
		}
		out = append(out, Attribute{Name: f.name, Value: render(f, extract(raw, f))})
	}
	return out, nil
}

// fieldCenti extracts the named field from a raw PDO and returns it in
// centi-units (or as a bare count for unit-less fields). Used by the
// summary renderer; ok is false if the name does not apply to the
// selection.
func fieldCenti(raw uint32, c Category, role Role, position1 bool, name string) (uint32, bool) {
	for _, run := range pdoRuns(c, position1) {
		for _, f := range run.fields {
			if f.name == name && applicable(f, role) {
				return scaleCenti(extract(raw, f), f.scale), true
			}
		}
	}
	return 0, false
}
