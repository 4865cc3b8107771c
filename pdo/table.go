package pdo

// The field table is the single source of truth for every PDO and RDO bit
// layout this package understands. It is an ordered list of field
// descriptors partitioned into runs, one run per (object kind, category)
// pair. Decode walks the applicable run(s) in order and renders each
// applicable field; encode walks the same run(s) and packs attribute values
// back into position. Output ordering therefore always follows table order.

// applies restricts a descriptor to a subset of decode selections. Role
// restrictions are used by PDO runs; giveback restrictions are used by RDO
// runs, where bit 27 of the raw value itself selects one of two
// mutually-exclusive fields sharing a bit range.
type applies uint8

const (
	appBoth applies = iota
	appSourceOnly
	appSinkOnly
	appGiveback   // RDO only: applies when bit 27 of the raw value is set
	appNoGiveback // RDO only: applies when bit 27 of the raw value is clear
)

// unit is the physical unit a scaled field is rendered in.
type unit uint8

const (
	unitNone unit = iota
	unitMilliVolt
	unitMilliAmp
	unitMilliWatt
)

func (u unit) suffix() string {
	switch u {
	case unitMilliVolt:
		return "mV"
	case unitMilliAmp:
		return "mA"
	case unitMilliWatt:
		return "mW"
	}
	return ""
}

// scaleOutputVoltage marks the one non-linear scaling rule in the table:
// the output_voltage field of PPS and AVS RDOs is stored in 2-unit steps
// and renders as centi-units via (raw>>1)*25. The rule is preserved as-is
// from the legacy decoder rather than generalized.
const scaleOutputVoltage int16 = -1

// field describes one bit field of a PDO or RDO.
type field struct {
	low   uint8   // lowest bit position, 0..31
	width uint8   // field width in bits, 1..16
	app   applies // role or giveback restriction
	scale int16   // centi-units per raw count; 0 = unit-less count
	unit  unit
	name  string
}

// mask returns the width-bit mask of f, unshifted.
func (f field) mask() uint32 {
	return 1<<f.width - 1
}

// runID names one contiguous run of the field table.
type runID uint8

const (
	runFixedPos1 runID = iota // extension flags, first fixed PDO only
	runFixed
	runBattery
	runVariable
	runPPS
	runSprAVS
	runEprAVS
	runRdoFixedVariable // fixed and variable supplies share one RDO layout
	runRdoBattery
	runRdoPPS
	runRdoAVS
)

// fieldRun is one contiguous run of descriptors. A run marked with
// continues is logically separate from, but evaluated together with, the
// run that follows it; the only such run is the fixed PDO position-1
// extension, because a first fixed PDO carries both the extension flags
// and the ordinary voltage/current fields.
type fieldRun struct {
	id        runID
	continues bool
	fields    []field
}

var fieldTable = []fieldRun{
	{id: runFixedPos1, continues: true, fields: []field{
		{29, 1, appBoth, 0, unitNone, "dual_role_power"},
		{28, 1, appSourceOnly, 0, unitNone, "usb_suspend_supported"},
		{28, 1, appSinkOnly, 0, unitNone, "higher_capability"},
		{27, 1, appBoth, 0, unitNone, "unconstrained_power"},
		{26, 1, appBoth, 0, unitNone, "usb_communication_capable"},
		{25, 1, appBoth, 0, unitNone, "dual_role_data"},
		{24, 1, appSourceOnly, 0, unitNone, "unchunked_extended_messages_supported"},
		{23, 2, appSinkOnly, 0, unitNone, "fast_role_swap_current"},
	}},
	{id: runFixed, fields: []field{
		{10, 10, appBoth, 5, unitMilliVolt, "voltage"}, // 50mV units
		{0, 10, appSourceOnly, 1, unitMilliAmp, "maximum_current"},
		{0, 10, appSinkOnly, 1, unitMilliAmp, "operational_current"},
	}},
	{id: runBattery, fields: []field{
		{20, 10, appBoth, 5, unitMilliVolt, "maximum_voltage"},
		{10, 10, appBoth, 5, unitMilliVolt, "minimum_voltage"},
		{0, 10, appSourceOnly, 25, unitMilliWatt, "maximum_allowable_power"}, // 250mW units
		{0, 10, appSinkOnly, 25, unitMilliWatt, "operational_power"},
	}},
	{id: runVariable, fields: []field{
		{20, 10, appBoth, 5, unitMilliVolt, "maximum_voltage"},
		{10, 10, appBoth, 5, unitMilliVolt, "minimum_voltage"},
		{0, 10, appSourceOnly, 1, unitMilliAmp, "maximum_current"},
		{0, 10, appSinkOnly, 1, unitMilliAmp, "operational_current"},
	}},
	{id: runPPS, fields: []field{
		{27, 1, appSourceOnly, 0, unitNone, "pps_power_limited"},
		{17, 8, appBoth, 10, unitMilliVolt, "maximum_voltage"}, // 100mV units
		{8, 8, appBoth, 10, unitMilliVolt, "minimum_voltage"},
		{0, 7, appBoth, 5, unitMilliAmp, "maximum_current"}, // 50mA units
	}},
	// The kernel does not yet expose SPR-AVS capability attributes, so this
	// run only serves the standalone decoder; see Summary for the
	// corresponding not-yet-supported rendering.
	{id: runSprAVS, fields: []field{
		{26, 2, appBoth, 0, unitNone, "peak_current"},
		{10, 10, appBoth, 1, unitMilliAmp, "maximum_current_15v"},
		{0, 10, appBoth, 1, unitMilliAmp, "maximum_current_20v"},
	}},
	{id: runEprAVS, fields: []field{
		{26, 2, appBoth, 0, unitNone, "peak_current"},
		{17, 9, appBoth, 10, unitMilliVolt, "maximum_voltage"},
		{8, 8, appBoth, 10, unitMilliVolt, "minimum_voltage"},
		{0, 8, appBoth, 100, unitMilliWatt, "pdp"}, // 1W units
	}},
	{id: runRdoFixedVariable, fields: []field{
		{28, 4, appBoth, 0, unitNone, "object_position"},
		{27, 1, appBoth, 0, unitNone, "giveback_flag"},
		{26, 1, appBoth, 0, unitNone, "capability_mismatch"},
		{25, 1, appBoth, 0, unitNone, "usb_communication_capable"},
		{24, 1, appBoth, 0, unitNone, "no_usb_suspend"},
		{23, 1, appBoth, 0, unitNone, "unchunked_extended_messages_supported"},
		{22, 1, appBoth, 0, unitNone, "epr_mode_capable"},
		{10, 10, appBoth, 1, unitMilliAmp, "operating_current"},
		{0, 10, appNoGiveback, 1, unitMilliAmp, "maximum_operating_current"},
		{0, 10, appGiveback, 1, unitMilliAmp, "minimum_operating_current"},
	}},
	{id: runRdoBattery, fields: []field{
		{28, 4, appBoth, 0, unitNone, "object_position"},
		{27, 1, appBoth, 0, unitNone, "giveback_flag"},
		{26, 1, appBoth, 0, unitNone, "capability_mismatch"},
		{25, 1, appBoth, 0, unitNone, "usb_communication_capable"},
		{24, 1, appBoth, 0, unitNone, "no_usb_suspend"},
		{23, 1, appBoth, 0, unitNone, "unchunked_extended_messages_supported"},
		{10, 10, appBoth, 25, unitMilliWatt, "operating_power"},
		{0, 10, appNoGiveback, 25, unitMilliWatt, "maximum_operating_power"},
		{0, 10, appGiveback, 25, unitMilliWatt, "minimum_operating_power"},
	}},
	{id: runRdoPPS, fields: []field{
		{28, 4, appBoth, 0, unitNone, "object_position"},
		{26, 1, appBoth, 0, unitNone, "capability_mismatch"},
		{25, 1, appBoth, 0, unitNone, "usb_communication_capable"},
		{24, 1, appBoth, 0, unitNone, "no_usb_suspend"},
		{23, 1, appBoth, 0, unitNone, "unchunked_extended_messages_supported"},
		{22, 1, appBoth, 0, unitNone, "epr_mode_capable"},
		{9, 12, appBoth, scaleOutputVoltage, unitMilliVolt, "output_voltage"},
		{0, 7, appBoth, 5, unitMilliAmp, "operating_current"},
	}},
	// Shares the PPS request layout. The PD specification table for the AVS
	// output_voltage granularity looks inconsistent with the APDO side; the
	// legacy decoder's reading is kept until the published table is
	// corrected.
	{id: runRdoAVS, fields: []field{
		{28, 4, appBoth, 0, unitNone, "object_position"},
		{26, 1, appBoth, 0, unitNone, "capability_mismatch"},
		{25, 1, appBoth, 0, unitNone, "usb_communication_capable"},
		{24, 1, appBoth, 0, unitNone, "no_usb_suspend"},
		{23, 1, appBoth, 0, unitNone, "unchunked_extended_messages_supported"},
		{22, 1, appBoth, 0, unitNone, "epr_mode_capable"},
		{9, 12, appBoth, scaleOutputVoltage, unitMilliVolt, "output_voltage"},
		{0, 7, appBoth, 5, unitMilliAmp, "operating_current"},
	}},
}

// lookupRun returns the table run with the given id. The table is fixed at
// compile time, so a missing id is a programming error and yields an empty
// run.
func lookupRun(id runID) fieldRun {
	for _, r := range fieldTable {
		if r.id == id {
			return r
		}
	}
	return fieldRun{}
}

// pdoRuns resolves the run(s) to evaluate for a PDO of category c. For a
// first-position fixed PDO the extension run is concatenated with the
// common fixed run, in that order. Nil for CategoryUnknown.
func pdoRuns(c Category, position1 bool) []fieldRun {
	switch c {
	case CategoryFixed:
		if position1 {
			return []fieldRun{lookupRun(runFixedPos1), lookupRun(runFixed)}
		}
		return []fieldRun{lookupRun(runFixed)}
	case CategoryBattery:
		return []fieldRun{lookupRun(runBattery)}
	case CategoryVariable:
		return []fieldRun{lookupRun(runVariable)}
	case CategoryPPS:
		return []fieldRun{lookupRun(runPPS)}
	case CategorySprAVS:
		return []fieldRun{lookupRun(runSprAVS)}
	case CategoryEprAVS:
		return []fieldRun{lookupRun(runEprAVS)}
	}
	return nil
}

// rdoRun resolves the RDO run for the category of the referenced source
// PDO. Fixed and variable supplies share one layout; PPS and both AVS
// variants share another.
func rdoRun(ref Category) (fieldRun, error) {
	switch ref {
	case CategoryFixed, CategoryVariable:
		return lookupRun(runRdoFixedVariable), nil
	case CategoryBattery:
		return lookupRun(runRdoBattery), nil
	case CategoryPPS:
		return lookupRun(runRdoPPS), nil
	case CategorySprAVS, CategoryEprAVS:
		return lookupRun(runRdoAVS), nil
	}
	return fieldRun{}, ErrBadReferenceCategory
}
