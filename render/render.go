// Package render turns scanned Type-C ports and PD objects into the
// plain-text and JSON output of the lsucpd command.
package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"

	"github.com/lsucpd/lsucpd"
	"github.com/lsucpd/lsucpd/pdo"
	"github.com/lsucpd/lsucpd/sysfs"
)

// Options selects how much detail the text renderer emits.
type Options struct {
	// Caps levels: 1 lists one summary line per PDO, 2 dumps name='value'
	// pairs, 3 and above restricts the dump to first-position PDOs.
	Caps int

	// Long levels: 1 adds port attributes and raw PDO hex, 2 adds
	// alternate mode directories.
	Long int

	// DataDir decorates PD partner arrows with the USB data direction.
	DataDir bool

	// Color enables ANSI colors for arrows and object tags.
	Color bool
}

// Renderer writes text output for ports and pd objects.
type Renderer struct {
	w     io.Writer
	opts  Options
	arrow func(a ...interface{}) string
	tag   func(a ...interface{}) string
}

// New returns a renderer writing to w.
func New(w io.Writer, opts Options) *Renderer {
	r := &Renderer{w: w, opts: opts}
	if opts.Color {
		r.arrow = color.New(color.FgCyan).SprintFunc()
		r.tag = color.New(color.FgYellow).SprintFunc()
	} else {
		r.arrow = fmt.Sprint
		r.tag = fmt.Sprint
	}
	return r
}

// direction renders the power (and optionally data) direction decoration
// for a port's summary line. For the partner half of a line the wide
// "====" tail is used; the local half uses a single angle bracket. In the
// non-PD world the Type-C resistor current level is shown instead, and a
// host is assumed to be the source.
func direction(p sysfs.Port, isPartner, dataDir bool) string {
	dd := dataDir && p.DataRoleKnown
	if p.OpMode == lsucpd.OpModeUSBPD {
		if !p.PowerRoleKnown {
			if isPartner {
				return " ==== "
			}
			return "  "
		}
		if !isPartner {
			if p.PowerRole == pdo.RoleSource {
				return " > "
			}
			return " < "
		}
		if p.PowerRole == pdo.RoleSource {
			switch {
			case dd && p.IsHost:
				return " |>==>> "
			case dd:
				return " <|==>> "
			default:
				return " ====>> "
			}
		}
		switch {
		case dd && p.IsHost:
			return " <<==|> "
		case dd:
			return " <<==<| "
		default:
			return " <<==== "
		}
	}
	if p.DataRoleKnown {
		if !p.IsHost {
			return " <     "
		}
		switch p.OpMode {
		case lsucpd.OpModeDefault:
			return " > {5V, 0.9A}  "
		case lsucpd.OpMode1A5:
			return " > {5V, 1.5A}  "
		case lsucpd.OpMode3A0:
			return " > {5V, 3.0A}  "
		default:
			return " >     "
		}
	}
	return "   "
}

// PortSummaries builds the one-line summary for every local port, keyed by
// port number. Partner entries are folded into their local port's line.
func PortSummaries(ports []sysfs.Port, dataDir bool, commsIncapable func(pd int) bool) map[int]string {
	out := make(map[int]string)
	var prev *sysfs.Port
	var line string
	flush := func() {
		if prev != nil && line != "" {
			out[prev.Num] = line + direction(*prev, false, dataDir)
			line = ""
		}
	}
	for i := range ports {
		p := &ports[i]
		if p.Partner {
			if prev == nil {
				out[p.Num] = "logic_err"
				continue
			}
			// The partner inherits the local port's data role, inverted.
			p.DataRoleKnown = prev.DataRoleKnown
			p.IsHost = !prev.IsHost
			dd := dataDir
			if dd && prev.PowerRoleKnown && prev.PowerRole == pdo.RoleSink &&
				commsIncapable != nil && commsIncapable(p.PDNum) {
				dd = false
			}
			s := line + direction(*prev, true, dd) + "partner: "
			if p.PDNum >= 0 {
				s += "[pd" + strconv.Itoa(p.PDNum) + "] "
			}
			out[prev.Num] = s
			line = ""
			prev = nil
			continue
		}
		flush()
		line = " port" + strconv.Itoa(p.Num) + " "
		if p.PDNum >= 0 {
			line += "[pd" + strconv.Itoa(p.PDNum) + "] "
		}
		prev = p
	}
	flush()
	return out
}

// PortLine writes one port summary line.
func (r *Renderer) PortLine(s string) {
	fmt.Fprintln(r.w, r.arrow(s))
}

// ListPort writes a port's attributes, and at long level 2 its alternate
// mode directories.
func (r *Renderer) ListPort(sc *sysfs.Scanner, p sysfs.Port) {
	if p.PDNum >= 0 {
		fmt.Fprintf(r.w, "%s%s  [pd%d] :\n", prefixFor(p), p.Name, p.PDNum)
	} else {
		fmt.Fprintf(r.w, "%s%s :\n", prefixFor(p), p.Name)
	}
	for _, n := range sortedKeys(p.Attrs) {
		fmt.Fprintf(r.w, "      %s='%s'\n", n, p.Attrs[n])
	}
	if r.opts.Long > 1 {
		for _, am := range sc.AlternateModes(p) {
			fmt.Fprintf(r.w, "    Alternate mode: %s\n", am.Path)
			for _, n := range sortedKeys(am.Attrs) {
				fmt.Fprintf(r.w, "        %s='%s'\n", n, am.Attrs[n])
			}
		}
	}
}

func prefixFor(p sysfs.Port) string {
	if p.Partner {
		return "  "
	}
	return "> "
}

// ListPD writes one pd object's source then sink capabilities at the
// configured caps level.
func (r *Renderer) ListPD(o sysfs.PDObject) {
	r.listCaps(o.Num, "source capabilities", o.SourceCaps)
	r.listCaps(o.Num, "sink capabilities", o.SinkCaps)
}

func (r *Renderer) listCaps(num int, kind string, caps []sysfs.Capability) {
	if len(caps) == 0 {
		fmt.Fprintf(r.w, "> pd%d: has NO %s\n", num, kind)
		return
	}
	fmt.Fprintf(r.w, "> pd%d: %s:\n", num, kind)
	for _, c := range caps {
		if r.opts.Caps == 1 {
			s, err := pdo.Summary(c.Raw, c.Category, c.Role)
			if err != nil {
				s = "no summary available"
			}
			fmt.Fprintf(r.w, "  >> %s; %s\n", r.tag(c.Name), s)
			if r.opts.Long > 0 {
				fmt.Fprintf(r.w, "        raw_pdo: 0x%08x\n", c.Raw)
			}
			continue
		}
		if r.opts.Caps > 2 && c.Position > 1 {
			continue
		}
		if r.opts.Long > 0 {
			fmt.Fprintf(r.w, "  >> %s, type: %s\n", r.tag(c.Name), c.Category)
		} else {
			fmt.Fprintf(r.w, "  >> %s\n", r.tag(c.Name))
		}
		for _, n := range c.AttrNames() {
			fmt.Fprintf(r.w, "      %s='%s'\n", n, c.Attrs[n])
		}
		if r.opts.Long > 0 {
			fmt.Fprintf(r.w, "        raw_pdo: 0x%08x\n", c.Raw)
		}
	}
}

// Attributes writes an ordered attribute list, as produced by the
// standalone PDO/RDO decoders.
func (r *Renderer) Attributes(attrs []pdo.Attribute) {
	for _, a := range attrs {
		fmt.Fprintf(r.w, "  %s: %s\n", a.Name, a.Value)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
