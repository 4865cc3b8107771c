package sysfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/lsucpd/lsucpd/pdo"
)

// Capability is one PDO slot directory under a pd<n> object's
// source-capabilities or sink-capabilities directory, e.g.
// "1:fixed_supply".
type Capability struct {
	Name     string // directory basename
	Position int    // 1-based slot position within the capability list
	Category pdo.Category
	Role     pdo.Role
	Attrs    map[string]string

	// Raw is the 32-bit PDO rebuilt from Attrs through the codec. Only
	// populated when the scan was asked for it.
	Raw uint32
}

// AttrNames returns the capability's attribute names in sorted order, the
// order sysfs listings are conventionally shown in.
func (c Capability) AttrNames() []string {
	names := make([]string, 0, len(c.Attrs))
	for n := range c.Attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PDObject is one pd<n> entry under class/usb_power_delivery.
type PDObject struct {
	Num   int
	Match string // filter match string: pd<num>
	Path  string

	// Partner is true when a port partner (rather than a local port)
	// resolves to this object.
	Partner bool

	// USBCommsIncapable is true when the object's first fixed source PDO
	// reports usb_communication_capable=0. Used to suppress the data
	// direction decoration.
	USBCommsIncapable bool

	SourceCaps []Capability
	SinkCaps   []Capability
}

// PDObjects scans class/usb_power_delivery and returns all pd<n> objects,
// sorted by number, without their capabilities populated. partnerOf
// reports whether a pd index belongs to a partner port; it may be nil.
func (s *Scanner) PDObjects(partnerOf func(num int) bool) ([]PDObject, error) {
	dir := filepath.Join(s.root, classDir, updDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "sysfs: scan %s", dir)
	}
	var objs []PDObject
	for _, e := range entries {
		name := e.Name()
		var k int
		if n, _ := fmt.Sscanf(name, "pd%d", &k); n != 1 {
			s.log.Debug().Str("entry", name).Msg("unable to find 'pd<num>' to decode")
			continue
		}
		o := PDObject{Num: k, Match: "pd" + strconv.Itoa(k), Path: filepath.Join(dir, name)}
		if partnerOf != nil {
			o.Partner = partnerOf(k)
		}
		if o.Partner {
			ucc := filepath.Join(o.Path, srcCapsDir, "1:"+pdo.SuffixFixed, "usb_communication_capable")
			if v, err := ReadValue(ucc); err == nil && strings.TrimSpace(v) == "0" {
				o.USBCommsIncapable = true
			}
		}
		objs = append(objs, o)
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].Num < objs[j].Num })
	return objs, nil
}

// Populate fills in the object's source and sink capability lists. When
// buildRaw is set, each capability's Raw field is rebuilt from its
// attribute text through the codec.
func (s *Scanner) Populate(o *PDObject, buildRaw bool) error {
	var err error
	srcPath := filepath.Join(o.Path, srcCapsDir)
	if _, serr := os.Stat(srcPath); serr == nil {
		s.log.Debug().Str("path", srcPath).Msg("source capabilities exist")
		o.SourceCaps, err = s.capabilities(srcPath, pdo.RoleSource, buildRaw)
	}
	sinkPath := filepath.Join(o.Path, sinkCapsDir)
	if _, serr := os.Stat(sinkPath); serr == nil {
		s.log.Debug().Str("path", sinkPath).Msg("sink capabilities exist")
		var err2 error
		o.SinkCaps, err2 = s.capabilities(sinkPath, pdo.RoleSink, buildRaw)
		if err == nil {
			err = err2
		}
	}
	s.log.Debug().Int("source", len(o.SourceCaps)).Int("sink", len(o.SinkCaps)).
		Msgf("pd%d capabilities", o.Num)
	return err
}

// capabilities scans one capabilities directory into sorted PDO slots.
func (s *Scanner) capabilities(dir string, role pdo.Role, buildRaw bool) ([]Capability, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "sysfs: scan %s", dir)
	}
	var caps []Capability
	for _, e := range entries {
		name := e.Name()
		if name == "" || name[0] < '0' || name[0] > '9' {
			continue
		}
		pos, suffix, ok := splitSlotName(name)
		if !ok {
			continue
		}
		c := Capability{
			Name:     name,
			Position: pos,
			Category: pdo.CategoryForSuffix(suffix),
			Role:     role,
		}
		if c.Attrs, err = s.mapDir(filepath.Join(dir, name)); err != nil {
			return nil, err
		}
		if buildRaw {
			c.Raw = pdo.EncodePDO(c.Attrs, c.Category, role, pos == 1)
		}
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i].Position < caps[j].Position })
	return caps, nil
}

// splitSlotName splits a PDO slot directory name "<position>:<suffix>".
func splitSlotName(name string) (pos int, suffix string, ok bool) {
	i := strings.IndexByte(name, ':')
	if i <= 0 {
		return 0, "", false
	}
	pos, err := strconv.Atoi(name[:i])
	if err != nil || pos < 1 {
		return 0, "", false
	}
	return pos, name[i+1:], true
}
