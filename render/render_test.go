package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lsucpd/lsucpd"
	"github.com/lsucpd/lsucpd/pdo"
	"github.com/lsucpd/lsucpd/sysfs"
)

func pdPort(num, pdNum int, role pdo.Role, host bool) sysfs.Port {
	return sysfs.Port{
		Name:           "port" + string(rune('0'+num)),
		Num:            num,
		PDNum:          pdNum,
		Match:          "p" + string(rune('0'+num)),
		PowerRoleKnown: true,
		PowerRole:      role,
		DataRoleKnown:  true,
		IsHost:         host,
		OpMode:         lsucpd.OpModeUSBPD,
	}
}

func TestPortSummaries(t *testing.T) {
	tests := []struct {
		name    string
		ports   []sysfs.Port
		dataDir bool
		want    map[int]string
	}{
		{
			name: "sink with partner",
			ports: []sysfs.Port{
				pdPort(0, 0, pdo.RoleSink, true),
				{Num: 0, Partner: true, PDNum: 1},
			},
			want: map[int]string{0: " port0 [pd0]  <<==== partner: [pd1] "},
		},
		{
			name: "source with partner and data direction",
			ports: []sysfs.Port{
				pdPort(0, 0, pdo.RoleSource, true),
				{Num: 0, Partner: true, PDNum: 1},
			},
			dataDir: true,
			want:    map[int]string{0: " port0 [pd0]  |>==>> partner: [pd1] "},
		},
		{
			name: "lone port no pd",
			ports: []sysfs.Port{
				{Num: 1, PDNum: -1, Match: "p1", DataRoleKnown: true, IsHost: true,
					OpMode: lsucpd.OpMode1A5},
			},
			want: map[int]string{1: " port1  > {5V, 1.5A}  "},
		},
		{
			name: "orphan partner",
			ports: []sysfs.Port{
				{Num: 2, Partner: true, PDNum: -1},
			},
			want: map[int]string{2: "logic_err"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PortSummaries(tt.ports, tt.dataDir, nil)
			if len(got) != len(tt.want) {
				t.Fatalf("PortSummaries() = %v, want %v", got, tt.want)
			}
			for num, line := range tt.want {
				if got[num] != line {
					t.Errorf("port %d line = %q, want %q", num, got[num], line)
				}
			}
		})
	}
}

func TestPortSummariesCommsIncapable(t *testing.T) {
	ports := []sysfs.Port{
		pdPort(0, 0, pdo.RoleSink, true),
		{Num: 0, Partner: true, PDNum: 1},
	}
	got := PortSummaries(ports, true, func(pd int) bool { return pd == 1 })
	want := " port0 [pd0]  <<==== partner: [pd1] "
	if got[0] != want {
		t.Errorf("line = %q, want %q (data decoration suppressed)", got[0], want)
	}
}

func TestListCapsSummaryLevel(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Caps: 1, Long: 1})
	r.ListPD(sysfs.PDObject{
		Num: 0,
		SourceCaps: []sysfs.Capability{{
			Name:     "1:fixed_supply",
			Position: 1,
			Category: pdo.CategoryFixed,
			Role:     pdo.RoleSource,
			Attrs:    map[string]string{"voltage": "5000mV", "maximum_current": "3000mA"},
			Raw:      100<<10 | 300,
		}},
	})
	out := buf.String()
	for _, want := range []string{
		"> pd0: source capabilities:",
		"1:fixed_supply; fixed: 5.00 Volts, 3.00 Amps (max)",
		"raw_pdo: 0x0001912c",
		"> pd0: has NO sink capabilities",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListCapsDumpLevel(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Caps: 2})
	r.ListPD(sysfs.PDObject{
		Num: 3,
		SinkCaps: []sysfs.Capability{{
			Name:     "1:fixed_supply",
			Position: 1,
			Category: pdo.CategoryFixed,
			Role:     pdo.RoleSink,
			Attrs:    map[string]string{"voltage": "5000mV", "operational_current": "3000mA"},
		}},
	})
	out := buf.String()
	for _, want := range []string{
		">> 1:fixed_supply",
		"operational_current='3000mA'",
		"voltage='5000mV'",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "raw_pdo") {
		t.Error("raw_pdo shown without long format")
	}
}

func TestBuildReport(t *testing.T) {
	ports := []sysfs.Port{pdPort(0, 0, pdo.RoleSource, true)}
	objs := []sysfs.PDObject{{
		Num: 0,
		SourceCaps: []sysfs.Capability{{
			Name:     "1:fixed_supply",
			Position: 1,
			Category: pdo.CategoryFixed,
			Role:     pdo.RoleSource,
			Attrs:    map[string]string{"voltage": "5000mV", "maximum_current": "3000mA"},
			Raw:      100<<10 | 300,
		}},
	}}
	rep := BuildReport(ports, objs, map[int]string{0: " port0 [pd0]  > "})
	if len(rep.Ports) != 1 || rep.Ports[0].Name != "port0" {
		t.Fatalf("ports = %+v", rep.Ports)
	}
	if rep.Ports[0].PD == nil || *rep.Ports[0].PD != 0 {
		t.Errorf("port pd = %v, want 0", rep.Ports[0].PD)
	}
	if len(rep.PDObjects) != 1 {
		t.Fatalf("pd objects = %+v", rep.PDObjects)
	}
	caps := rep.PDObjects[0].SourceCaps
	if len(caps) != 1 {
		t.Fatalf("source caps = %+v", caps)
	}
	if caps[0].RawPDO != "0x0001912c" {
		t.Errorf("raw_pdo = %q, want 0x0001912c", caps[0].RawPDO)
	}
	if caps[0].Summary != "fixed: 5.00 Volts, 3.00 Amps (max)" {
		t.Errorf("summary = %q", caps[0].Summary)
	}
	if caps[0].Attributes["voltage"] != "5000mV" {
		t.Errorf("attributes = %v", caps[0].Attributes)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, rep); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"source-capabilities"`) {
		t.Errorf("JSON missing source-capabilities key:\n%s", buf.String())
	}
}
