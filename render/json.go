package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/lsucpd/lsucpd/pdo"
	"github.com/lsucpd/lsucpd/sysfs"
)

// Report is the JSON form of a full listing. It mirrors the text output
// name for name: every attribute shown as name='value' appears under the
// same name here.
type Report struct {
	Ports     []PortReport `json:"ports"`
	PDObjects []PDReport   `json:"usb_power_delivery"`
}

// PortReport is one class/typec entry.
type PortReport struct {
	Name       string            `json:"name"`
	Partner    bool              `json:"partner,omitempty"`
	PD         *int              `json:"pd,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Attributes map[string]string `json:"attributes"`
}

// PDReport is one class/usb_power_delivery entry with its capabilities.
type PDReport struct {
	Name       string      `json:"name"`
	SourceCaps []CapReport `json:"source-capabilities,omitempty"`
	SinkCaps   []CapReport `json:"sink-capabilities,omitempty"`
}

// CapReport is one PDO slot of a capability list.
type CapReport struct {
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	Summary    string            `json:"summary,omitempty"`
	RawPDO     string            `json:"raw_pdo,omitempty"`
	Attributes map[string]string `json:"attributes"`
}

// BuildReport assembles the JSON report from scanned ports and pd objects.
// summaries is the per-port summary line map from PortSummaries; it may be
// nil.
func BuildReport(ports []sysfs.Port, objs []sysfs.PDObject, summaries map[int]string) Report {
	rep := Report{
		Ports:     make([]PortReport, 0, len(ports)),
		PDObjects: make([]PDReport, 0, len(objs)),
	}
	for _, p := range ports {
		pr := PortReport{Name: p.Name, Partner: p.Partner, Attributes: p.Attrs}
		if p.PDNum >= 0 {
			n := p.PDNum
			pr.PD = &n
		}
		if !p.Partner {
			pr.Summary = summaries[p.Num]
		}
		rep.Ports = append(rep.Ports, pr)
	}
	for _, o := range objs {
		pd := PDReport{
			Name:       "pd" + fmt.Sprint(o.Num),
			SourceCaps: capReports(o.SourceCaps),
			SinkCaps:   capReports(o.SinkCaps),
		}
		rep.PDObjects = append(rep.PDObjects, pd)
	}
	return rep
}

func capReports(caps []sysfs.Capability) []CapReport {
	if len(caps) == 0 {
		return nil
	}
	out := make([]CapReport, 0, len(caps))
	for _, c := range caps {
		cr := CapReport{
			Name:       c.Name,
			Type:       c.Category.String(),
			Attributes: c.Attrs,
		}
		if c.Raw != 0 {
			cr.RawPDO = fmt.Sprintf("0x%08x", c.Raw)
		}
		if s, err := pdo.Summary(c.Raw, c.Category, c.Role); err == nil {
			cr.Summary = s
		}
		out = append(out, cr)
	}
	return out
}

// WriteJSON writes the report, indented, to w.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return errors.Wrap(err, "render: encode JSON report")
	}
	return nil
}
