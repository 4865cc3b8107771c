package pdo

import (
	"reflect"
	"testing"
)

func attrMap(attrs []Attribute) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name] = a.Value
	}
	return m
}

func TestDecodeFixedKnownVector(t *testing.T) {
	// 5V at 3A: voltage raw 100 in 50mV units, current raw 300 in 10mA units.
	raw := uint32(100<<10 | 300)
	got := attrMap(DecodePDO(raw, CategoryFixed, RoleSource, false))
	want := map[string]string{
		"voltage":         "5000mV",
		"maximum_current": "3000mA",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodePDO() = %v, want %v", got, want)
	}
	got = attrMap(DecodePDO(raw, CategoryFixed, RoleSink, false))
	if got["operational_current"] != "3000mA" {
		t.Errorf("sink operational_current = %q, want 3000mA", got["operational_current"])
	}
}

func TestDecodePPSKnownVector(t *testing.T) {
	// 3.3 to 11V at 3A, power limited.
	raw := uint32(3<<30) | 1<<27 | 110<<17 | 33<<8 | 60
	got := attrMap(DecodePDO(raw, CategoryPPS, RoleSource, false))
	want := map[string]string{
		"pps_power_limited": "1",
		"maximum_voltage":   "11000mV",
		"minimum_voltage":   "3300mV",
		"maximum_current":   "3000mA",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodePDO() = %v, want %v", got, want)
	}
}

func TestDecodeEprAVSKnownVector(t *testing.T) {
	// 15 to 48V, 140W PDP, peak current setting 1.
	raw := uint32(3<<30) | 1<<28 | 1<<26 | 480<<17 | 150<<8 | 140
	got := attrMap(DecodePDO(raw, CategoryEprAVS, RoleSource, false))
	want := map[string]string{
		"peak_current":    "1",
		"maximum_voltage": "48000mV",
		"minimum_voltage": "15000mV",
		"pdp":             "140000mW",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodePDO() = %v, want %v", got, want)
	}
}

func TestDecodeUnknownCategory(t *testing.T) {
	if got := DecodePDO(0xFFFFFFFF, CategoryUnknown, RoleSource, true); len(got) != 0 {
		t.Errorf("DecodePDO(unknown) = %v, want empty", got)
	}
}

func TestDecodeOrderFollowsTable(t *testing.T) {
	attrs := DecodePDO(1<<29|100<<10|300, CategoryFixed, RoleSource, true)
	want := []string{
		"dual_role_power", "usb_suspend_supported", "unconstrained_power",
		"usb_communication_capable", "dual_role_data",
		"unchunked_extended_messages_supported", "voltage", "maximum_current",
	}
	if len(attrs) != len(want) {
		t.Fatalf("got %d attributes, want %d: %v", len(attrs), len(want), attrs)
	}
	for i, a := range attrs {
		if a.Name != want[i] {
			t.Errorf("attribute %d = %s, want %s", i, a.Name, want[i])
		}
	}
}

// Decoding the same fixed PDO with and without the position-1 extension
// must differ only in the extension flags.
func TestPositionOneExtension(t *testing.T) {
	raw := uint32(1<<29 | 1<<26 | 1<<25 | 100<<10 | 300)
	for _, role := range []Role{RoleSource, RoleSink} {
		pos1 := attrMap(DecodePDO(raw, CategoryFixed, role, true))
		rest := attrMap(DecodePDO(raw, CategoryFixed, role, false))
		for name, v := range rest {
			if pos1[name] != v {
				t.Errorf("%v: shared field %s renders %q at position 1, %q after", role, name, pos1[name], v)
			}
		}
		var extension []string
		for name := range pos1 {
			if _, ok := rest[name]; !ok {
				extension = append(extension, name)
			}
		}
		common := map[string]bool{
			"dual_role_power": true, "unconstrained_power": true,
			"usb_communication_capable": true, "dual_role_data": true,
		}
		for _, name := range extension {
			switch {
			case common[name]:
			case role == RoleSource && (name == "usb_suspend_supported" || name == "unchunked_extended_messages_supported"):
			case role == RoleSink && (name == "higher_capability" || name == "fast_role_swap_current"):
			default:
				t.Errorf("%v: unexpected extension field %s", role, name)
			}
		}
	}
}

func TestDecodeRDOGivebackBranch(t *testing.T) {
	base := uint32(2<<28 | 250<<10 | 300)
	noGb, err := DecodeRDO(base, CategoryFixed)
	if err != nil {
		t.Fatalf("DecodeRDO() error: %v", err)
	}
	gb, err := DecodeRDO(base|1<<27, CategoryVariable)
	if err != nil {
		t.Fatalf("DecodeRDO() error: %v", err)
	}
	m := attrMap(noGb)
	if m["maximum_operating_current"] != "3000mA" {
		t.Errorf("no-giveback maximum_operating_current = %q, want 3000mA", m["maximum_operating_current"])
	}
	if _, ok := m["minimum_operating_current"]; ok {
		t.Error("no-giveback decode must not include minimum_operating_current")
	}
	m = attrMap(gb)
	if m["minimum_operating_current"] != "3000mA" {
		t.Errorf("giveback minimum_operating_current = %q, want 3000mA", m["minimum_operating_current"])
	}
	if _, ok := m["maximum_operating_current"]; ok {
		t.Error("giveback decode must not include maximum_operating_current")
	}
	if m["object_position"] != "2" {
		t.Errorf("object_position = %q, want 2", m["object_position"])
	}
	if noGb[0].Name != "object_position" {
		t.Errorf("first RDO attribute = %s, want object_position", noGb[0].Name)
	}
}

func TestDecodeRDOOutputVoltage(t *testing.T) {
	// PPS/AVS requests store output_voltage in 2-unit steps of 25 centi-V.
	raw := uint32(1<<28 | 400<<9 | 60)
	for _, ref := range []Category{CategoryPPS, CategoryEprAVS, CategorySprAVS} {
		attrs, err := DecodeRDO(raw, ref)
		if err != nil {
			t.Fatalf("DecodeRDO(%v) error: %v", ref, err)
		}
		m := attrMap(attrs)
		if m["output_voltage"] != "50000mV" {
			t.Errorf("%v output_voltage = %q, want 50000mV", ref, m["output_voltage"])
		}
		if m["operating_current"] != "3000mA" {
			t.Errorf("%v operating_current = %q, want 3000mA", ref, m["operating_current"])
		}
	}
}

func TestDecodeRDOBadReference(t *testing.T) {
	if _, err := DecodeRDO(0, CategoryUnknown); err != ErrBadReferenceCategory {
		t.Errorf("DecodeRDO(unknown) error = %v, want ErrBadReferenceCategory", err)
	}
}
