package pdo

import (
	"fmt"
	"strconv"
)

// fmtCenti renders a centi-unit value with two decimal places, e.g. 500 ->
// "5.00".
func fmtCenti(v uint32) string {
	return strconv.FormatUint(uint64(v/100), 10) + "." + fmt.Sprintf("%02d", v%100)
}

// Summary renders a raw PDO as a compact single line, e.g.
//
//	fixed: 5.00 Volts, 3.00 Amps (max)
//	pps: 3.30 to 11.00 Volts, 3.00 Amps (max) [PL]
//
// The "(max)" marker denotes a source capability, "(op)" a sink one.
// SPR-AVS PDOs have a defined bit layout but no summary line yet, because
// the kernel interface does not expose their summary attributes; they (and
// unknown categories) fail with ErrNotSupported.
func Summary(raw uint32, c Category, role Role) (string, error) {
	limitTag := "max"
	if role == RoleSink {
		limitTag = "op"
	}
	get := func(name string) uint32 {
		v, _ := fieldCenti(raw, c, role, false, name)
		return v
	}
	switch c {
	case CategoryFixed:
		cur := "maximum_current"
		if role == RoleSink {
			cur = "operational_current"
		}
		return fmt.Sprintf("fixed: %s Volts, %s Amps (%s)",
			fmtCenti(get("voltage")), fmtCenti(get(cur)), limitTag), nil
	case CategoryBattery:
		pow := "maximum_allowable_power"
		if role == RoleSink {
			pow = "operational_power"
		}
		return fmt.Sprintf("battery: %s to %s Volts, %s Watts (%s)",
			fmtCenti(get("minimum_voltage")), fmtCenti(get("maximum_voltage")),
			fmtCenti(get(pow)), limitTag), nil
	case CategoryVariable:
		cur := "maximum_current"
		if role == RoleSink {
			cur = "operational_current"
		}
		return fmt.Sprintf("variable: %s to %s Volts, %s Amps (%s)",
			fmtCenti(get("minimum_voltage")), fmtCenti(get("maximum_voltage")),
			fmtCenti(get(cur)), limitTag), nil
	case CategoryPPS:
		var pl string
		if v, ok := fieldCenti(raw, c, RoleSource, false, "pps_power_limited"); role == RoleSource && ok && v != 0 {
			pl = " [PL]"
		}
		return fmt.Sprintf("pps: %s to %s Volts, %s Amps (max)%s",
			fmtCenti(get("minimum_voltage")), fmtCenti(get("maximum_voltage")),
			fmtCenti(get("maximum_current")), pl), nil
	case CategoryEprAVS:
		return fmt.Sprintf("avs: %s to %s Volts, %s Watts, Peak current setting %d",
			fmtCenti(get("minimum_voltage")), fmtCenti(get("maximum_voltage")),
			fmtCenti(get("pdp")), get("peak_current")), nil
	}
	return "", ErrNotSupported
}
