// Package lsucpd defines high level types shared by the sysfs scanner and
// the renderers when listing USB Type-C Power Delivery ports and partners.
package lsucpd

import (
	"strings"

	"github.com/lsucpd/lsucpd/pdo"
)

// PowerOperationMode is the power level a Type-C port currently operates
// at, as reported by the kernel's power_operation_mode attribute. Outside
// of an explicit PD contract the level is set by the Type-C CC resistors.
type PowerOperationMode uint8

// Power operation modes.
const (
	OpModeDefault PowerOperationMode = iota // 5V at 900mA
	OpMode1A5                               // 5V at 1.5A resistor setting
	OpMode3A0                               // 5V at 3.0A resistor setting
	OpModeUSBPD                             // explicit usb_power_delivery contract
)

func (m PowerOperationMode) String() string {
	switch m {
	case OpMode1A5:
		return "1.5A"
	case OpMode3A0:
		return "3.0A"
	case OpModeUSBPD:
		return "usb_power_delivery"
	default:
		return "default"
	}
}

// ParsePowerOperationMode maps a power_operation_mode attribute value to
// its mode. Unrecognized values map to OpModeDefault, matching how little
// can be assumed about such a port.
func ParsePowerOperationMode(s string) (PowerOperationMode, bool) {
	switch {
	case strings.Contains(s, "default"):
		return OpModeDefault, true
	case strings.Contains(s, "1.5"):
		return OpMode1A5, true
	case strings.Contains(s, "3.0"):
		return OpMode3A0, true
	case strings.Contains(s, "power_delivery"):
		return OpModeUSBPD, true
	}
	return OpModeDefault, false
}

// ParsePowerRole extracts the active power role from a power_role
// attribute value such as "[source] sink". ok is false when neither role
// is bracketed.
func ParsePowerRole(s string) (role pdo.Role, ok bool) {
	switch {
	case strings.Contains(s, "[source]"):
		return pdo.RoleSource, true
	case strings.Contains(s, "[sink]"):
		return pdo.RoleSink, true
	}
	return pdo.RoleSink, false
}

// ParseDataRole extracts the active data role from a data_role attribute
// value such as "[host] device". isHost is false and ok false when neither
// role is bracketed.
func ParseDataRole(s string) (isHost, ok bool) {
	switch {
	case strings.Contains(s, "[host]"):
		return true, true
	case strings.Contains(s, "[device]"):
		return false, true
	}
	return false, false
}
