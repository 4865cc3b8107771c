// Package sysfs mines USB Type-C port and USB Power Delivery objects out
// of the kernel's sysfs pseudo-filesystem, normally mounted under /sys.
// No root privileges are required.
//
// Two class directories are of interest: <root>/class/typec holds
// port<n> and port<n>-partner entries, and <root>/class/usb_power_delivery
// holds pd<n> objects whose source-capabilities and sink-capabilities
// subdirectories contain one directory per PDO slot, named
// "<position>:<supply suffix>". The scanner hands the attribute text it
// reads to the pdo codec; it does not interpret bit layouts itself.
package sysfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/lsucpd/lsucpd"
	"github.com/lsucpd/lsucpd/pdo"
)

const (
	classDir    = "class"
	typecDir    = "typec"
	updDir      = "usb_power_delivery"
	srcCapsDir  = "source-capabilities"
	sinkCapsDir = "sink-capabilities"

	// Attribute files are small; reading more than this means the file is
	// not a Type-C attribute.
	maxValueLen = 32
)

// Scanner reads Type-C and PD objects below a sysfs mount point.
type Scanner struct {
	root string
	log  zerolog.Logger
}

// New returns a scanner rooted at the given sysfs mount point ("" means
// /sys). Diagnostics are written to log at debug and trace levels.
func New(root string, log zerolog.Logger) *Scanner {
	if root == "" {
		root = "/sys"
	}
	return &Scanner{root: root, log: log}
}

// Root returns the sysfs mount point the scanner reads from.
func (s *Scanner) Root() string { return s.root }

// Port is one port<n> or port<n>-partner entry under class/typec.
type Port struct {
	Name    string // directory basename
	Num     int    // port number; for partners, the local port's number
	Partner bool
	Match   string // filter match string: p<num>, with trailing "p" for partners

	// PDNum is the pd<n> index the port's usb_power_delivery link resolves
	// to, or -1 when the port has none.
	PDNum int

	// Attrs maps the port's regular attribute file names to contents.
	Attrs map[string]string

	PowerRoleKnown bool
	PowerRole      pdo.Role
	DataRoleKnown  bool
	IsHost         bool
	OpMode         lsucpd.PowerOperationMode
}

// ReadValue reads a single attribute file, capped at maxValueLen bytes,
// with any trailing newline stripped.
func ReadValue(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "sysfs: open %s", path)
	}
	defer f.Close()
	buf := make([]byte, maxValueLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", errors.Wrapf(err, "sysfs: read %s", path)
	}
	if n <= 0 {
		return "", nil // assume empty
	}
	v := string(buf[:n])
	if i := strings.IndexByte(v, '\n'); i >= 0 {
		v = v[:i]
	}
	return v, nil
}

// mapDir maps every regular, non-hidden attribute file in dir to its
// contents. The noisy uevent file is skipped.
func (s *Scanner) mapDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "sysfs: scan %s", dir)
	}
	m := make(map[string]string)
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || name == "" || name[0] == '.' || name == "uevent" {
			continue
		}
		v, err := ReadValue(filepath.Join(dir, name))
		if err != nil {
			s.log.Debug().Err(err).Str("attr", name).Msg("skipping unreadable attribute")
			continue
		}
		m[name] = v
	}
	return m, nil
}

// pdIndex resolves the usb_power_delivery symlink below a port directory
// to its pd<n> index, or -1 if the port has no PD object.
func (s *Scanner) pdIndex(portPath string) int {
	link := filepath.Join(portPath, updDir)
	target, err := filepath.EvalSymlinks(link)
	if err != nil {
		return -1
	}
	var k int
	if n, _ := fmt.Sscanf(filepath.Base(target), "pd%d", &k); n != 1 {
		s.log.Debug().Str("target", target).Msg("cannot parse pd index")
		return -1
	}
	return k
}

// Ports scans class/typec and returns all ports and partners, sorted so
// that each port<n> directly precedes its port<n>-partner.
func (s *Scanner) Ports() ([]Port, error) {
	dir := filepath.Join(s.root, classDir, typecDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "sysfs: scan %s", dir)
	}
	var ports []Port
	for _, e := range entries {
		name := e.Name()
		s.log.Trace().Str("entry", name).Msg("class/typec entry")
		var num int
		if n, _ := fmt.Sscanf(name, "port%d", &num); n != 1 {
			s.log.Debug().Str("entry", name).Msg("unable to decode 'port<num>', skip")
			continue
		}
		p := Port{Name: name, Num: num, PDNum: -1, Match: "p" + strconv.Itoa(num)}
		path := filepath.Join(dir, name)
		if p.Attrs, err = s.mapDir(path); err != nil {
			s.log.Debug().Err(err).Str("port", name).Msg("attribute mapping failed")
			continue
		}
		if strings.Contains(name, "partner") {
			p.Partner = true
			p.Match += "p"
		} else {
			if v, ok := p.Attrs["power_role"]; ok {
				var bracketed bool
				p.PowerRole, bracketed = lsucpd.ParsePowerRole(v)
				if !bracketed {
					s.log.Debug().Str("power_role", v).Msg("unexpected power_role")
				}
				p.PowerRoleKnown = true
			}
			if v, ok := p.Attrs["power_operation_mode"]; ok {
				var known bool
				p.OpMode, known = lsucpd.ParsePowerOperationMode(v)
				if !known {
					s.log.Debug().Str("power_operation_mode", v).Msg("unexpected power_operation_mode")
				}
			}
			if v, ok := p.Attrs["data_role"]; ok {
				p.IsHost, p.DataRoleKnown = lsucpd.ParseDataRole(v)
			}
		}
		p.PDNum = s.pdIndex(path)
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool {
		if ports[i].Num != ports[j].Num {
			return ports[i].Num < ports[j].Num
		}
		return !ports[i].Partner && ports[j].Partner
	})
	return ports, nil
}

// AlternateModes lists the attribute maps of a port's alternate mode
// directories (<name>.0, <name>.1, ...), driven by the port's
// number_of_alternate_modes attribute.
func (s *Scanner) AlternateModes(p Port) []AlternateMode {
	n, err := strconv.Atoi(p.Attrs["number_of_alternate_modes"])
	if err != nil || n <= 0 {
		return nil
	}
	var modes []AlternateMode
	for k := 0; k < n; k++ {
		path := filepath.Join(s.root, classDir, typecDir, p.Name, p.Name+"."+strconv.Itoa(k))
		attrs, err := s.mapDir(path)
		if err != nil {
			s.log.Debug().Err(err).Str("path", path).Msg("alternate mode scan failed")
			continue
		}
		modes = append(modes, AlternateMode{Path: path, Attrs: attrs})
	}
	return modes
}

// AlternateMode is one alternate mode directory of a port or partner.
type AlternateMode struct {
	Path  string
	Attrs map[string]string
}
