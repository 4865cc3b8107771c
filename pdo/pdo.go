// Package pdo implements a table-driven codec for 32-bit USB Power Delivery
// Power Data Objects (PDO) and Request Data Objects (RDO).
//
// A PDO describes one power capability a source or sink advertises; an RDO
// describes the capability a sink has selected, referencing a source PDO by
// object position. Both are opaque 32-bit values whose bit layout depends on
// a 2-bit category tag in bits 31..30 and, for augmented PDOs, a 2-bit
// sub-tag in bits 29..28. The codec maps between the raw value and an
// ordered list of named attributes rendered the same way the Linux kernel
// renders them in sysfs ("5000mV", "3000mA", "45000mW", or a bare count).
//
// All functions in this package are pure: no I/O, no logging, no shared
// mutable state. Concurrent use is safe.
package pdo

import (
	"errors"
	"strconv"
	"strings"
)

// Category identifies the bit layout of a PDO, or the layout of the source
// PDO an RDO refers to. For PDOs it is self-describing via CategoryOf; for
// RDOs it must be supplied by the caller since an RDO does not carry it.
type Category uint8

// PDO categories. Fixed, Battery and Variable are the classic supply types;
// the rest are augmented PDO (APDO) sub-types.
const (
	CategoryUnknown Category = iota
	CategoryFixed
	CategoryBattery
	CategoryVariable
	CategoryPPS    // SPR programmable supply, source does current limiting
	CategorySprAVS // SPR adjustable supply (PD R3.2)
	CategoryEprAVS // EPR adjustable supply, no current limiting
)

func (c Category) String() string {
	switch c {
	case CategoryFixed:
		return "fixed supply"
	case CategoryBattery:
		return "battery supply"
	case CategoryVariable:
		return "variable supply"
	case CategoryPPS:
		return "programmable supply"
	case CategorySprAVS:
		return "spr adjustable supply"
	case CategoryEprAVS:
		return "epr adjustable supply"
	default:
		return "no supply"
	}
}

// CategoryOf returns the category encoded in a raw PDO: bits 31..30 select
// fixed (00), battery (01) or variable (10); for augmented PDOs (11) bits
// 29..28 sub-select PPS (00), EPR-AVS (01) or SPR-AVS (10).
func CategoryOf(raw uint32) Category {
	switch raw >> 30 {
	case 0b00:
		return CategoryFixed
	case 0b01:
		return CategoryBattery
	case 0b10:
		return CategoryVariable
	}
	switch (raw >> 28) & 0b11 {
	case 0b00:
		return CategoryPPS
	case 0b01:
		return CategoryEprAVS
	case 0b10:
		return CategorySprAVS
	}
	return CategoryUnknown
}

// tagBits returns the category and sub-tag bits a raw PDO of category c
// carries in bits 31..28. Zero for CategoryUnknown.
func tagBits(c Category) uint32 {
	switch c {
	case CategoryBattery:
		return 1 << 30
	case CategoryVariable:
		return 2 << 30
	case CategoryPPS:
		return 3 << 30
	case CategoryEprAVS:
		return 3<<30 | 1<<28
	case CategorySprAVS:
		return 3<<30 | 2<<28
	}
	return 0
}

// Sysfs directory name suffixes for PDO slot directories, e.g.
// "1:fixed_supply". "adjustable_supply" is the spelling used by kernels
// that predate the SPR/EPR split and always meant the EPR variant.
const (
	SuffixFixed    = "fixed_supply"
	SuffixBattery  = "battery"
	SuffixVariable = "variable_supply"
	SuffixPPS      = "programmable_supply"
	SuffixAVS      = "adjustable_supply"
	SuffixSprAVS   = "spr_adjustable_supply"
	SuffixEprAVS   = "epr_adjustable_supply"
)

// CategoryForSuffix maps a sysfs PDO directory name suffix to its category.
// Unrecognized suffixes map to CategoryUnknown.
func CategoryForSuffix(s string) Category {
	switch s {
	case SuffixFixed:
		return CategoryFixed
	case SuffixBattery:
		return CategoryBattery
	case SuffixVariable:
		return CategoryVariable
	case SuffixPPS:
		return CategoryPPS
	case SuffixSprAVS:
		return CategorySprAVS
	case SuffixAVS, SuffixEprAVS:
		return CategoryEprAVS
	}
	return CategoryUnknown
}

// CategoryForLetter maps the one-letter reference codes accepted by the
// standalone RDO decoder to a category: F(ixed), B(attery), V(ariable),
// P(PS), A or E for EPR-AVS, S for SPR-AVS. Case-insensitive.
func CategoryForLetter(s string) Category {
	switch strings.ToUpper(s) {
	case "F":
		return CategoryFixed
	case "B":
		return CategoryBattery
	case "V":
		return CategoryVariable
	case "P":
		return CategoryPPS
	case "A", "E":
		return CategoryEprAVS
	case "S":
		return CategorySprAVS
	}
	return CategoryUnknown
}

// Role distinguishes capabilities offered by a power provider from those
// requested by a power consumer. It selects between role-dependent fields
// of the same bit range, such as maximum_current vs operational_current.
type Role uint8

// Roles.
const (
	RoleSource Role = iota
	RoleSink
)

func (r Role) String() string {
	if r == RoleSource {
		return "source"
	}
	return "sink"
}

// Attribute is one decoded field: a semantic name paired with its rendered
// value. Value carries a unit suffix ("mV", "mA", "mW") for scaled fields
// and is a bare decimal count otherwise.
type Attribute struct {
	Name  string
	Value string
}

var (
	// ErrBadReferenceCategory is returned by DecodeRDO when the caller
	// asserts a reference category the codec has no RDO layout for.
	ErrBadReferenceCategory = errors.New("pdo: unknown RDO reference category")

	// ErrParse is returned by ParseNumber for malformed or out-of-range
	// numeric input.
	ErrParse = errors.New("pdo: malformed 32-bit numeric argument")

	// ErrNotSupported is returned by Summary for PDO variants that have a
	// defined bit layout but no single-line rendering, currently SPR-AVS.
	ErrNotSupported = errors.New("pdo: no summary defined for this supply type")
)

// ParseNumber parses a 32-bit unsigned integer from its command line
// spelling: decimal by default, hexadecimal with a "0x"/"0X" prefix or a
// trailing 'h'/'H'. Values that do not fit in 32 bits fail with ErrParse.
func ParseNumber(s string) (uint32, error) {
	t := s
	base := 10
	switch {
	case strings.HasPrefix(t, "0x"), strings.HasPrefix(t, "0X"):
		t = t[2:]
		base = 16
	case strings.HasSuffix(t, "h"), strings.HasSuffix(t, "H"):
		t = t[:len(t)-1]
		base = 16
	}
	v, err := strconv.ParseUint(t, base, 32)
	if err != nil {
		return 0, ErrParse
	}
	return uint32(v), nil
}
