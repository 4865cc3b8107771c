// Package cmd wires the lsucpd command line onto the sysfs scanner, the
// PDO/RDO codec and the renderers.
package cmd

import (
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lsucpd/lsucpd/config"
	"github.com/lsucpd/lsucpd/render"
	"github.com/lsucpd/lsucpd/sysfs"
)

const version = "0.92"

const (
	flagCaps      = "caps"
	flagData      = "data"
	flagLong      = "long"
	flagJSON      = "json"
	flagJSONFile  = "js-file"
	flagSysfsRoot = "sysfsroot"
	flagVerbose   = "verbose"
	flagConfig    = "config"
	flagColor     = "color"
)

var rootCmd = &cobra.Command{
	Use:   "lsucpd [FILTER ...]",
	Short: "List USB-C ports and their Power Delivery capabilities",
	Long: `lsucpd lists USB Type-C ports found under the sysfs typec class and the
USB Power Delivery objects they are bound to. Filters restrict the output:
'p<num>' names a local port, 'p<num>p' its partner, 'pd<num>' a PD object.
Filters are matched as case-insensitive regular expressions.`,
	Version:       version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runList,
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cobra.CheckErr(err)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.CountP(flagVerbose, "v", "increase verbosity, may be given twice or more")
	pf.String(flagConfig, "", "configuration file (default "+config.DefaultPath()+")")

	f := rootCmd.Flags()
	f.CountP(flagCaps, "c", "list capabilities; given twice: dump attributes; thrice: first position only")
	f.BoolP(flagData, "d", false, "show USB data direction on partner arrows")
	f.CountP(flagLong, "l", "more detail; may be given twice")
	f.BoolP(flagJSON, "j", false, "output in JSON")
	f.String(flagJSONFile, "", "write JSON output to this file ('-' means stdout)")
	f.StringP(flagSysfsRoot, "y", "", "alternate sysfs mount point (default /sys)")
	f.Bool(flagColor, false, "colorize text output")
	f.BoolP("version", "V", false, "print version and exit")
}

// newLogger maps the -v count onto zerolog levels and writes human readable
// diagnostics to stderr.
func newLogger(verbose int) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verbose >= 3:
		level = zerolog.TraceLevel
	case verbose == 2:
		level = zerolog.DebugLevel
	case verbose == 1:
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}

// loadConfig reads the configuration file, preferring an explicit --config
// path over the default location.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString(flagConfig)
	if path != "" {
		return config.Load(path, true)
	}
	if p := config.DefaultPath(); p != "" {
		return config.Load(p, false)
	}
	return config.Default(), nil
}

// filters holds the compiled FILTER arguments, split by target.
type filters struct {
	ports []*regexp.Regexp
	pds   []*regexp.Regexp
}

// compileFilters compiles the FILTER arguments. Invalid patterns are
// reported and skipped; the remaining filters still apply.
func compileFilters(args []string, log zerolog.Logger) filters {
	var fl filters
	for _, a := range args {
		re, err := regexp.Compile("(?i)^" + a + "$")
		if err != nil {
			log.Warn().Err(err).Str("filter", a).Msg("ignoring bad FILTER")
			continue
		}
		if strings.HasPrefix(strings.ToLower(a), "pd") {
			fl.pds = append(fl.pds, re)
		} else {
			fl.ports = append(fl.ports, re)
		}
	}
	return fl
}

func (fl filters) matchPort(match string) bool {
	if len(fl.ports) == 0 && len(fl.pds) == 0 {
		return true
	}
	for _, re := range fl.ports {
		if re.MatchString(match) {
			return true
		}
	}
	return false
}

func (fl filters) matchPD(match string) bool {
	if len(fl.ports) == 0 && len(fl.pds) == 0 {
		return true
	}
	for _, re := range fl.pds {
		if re.MatchString(match) {
			return true
		}
	}
	return false
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetCount(flagVerbose)
	log := newLogger(verbose)

	f := cmd.Flags()
	caps := cfg.Caps
	if f.Changed(flagCaps) {
		caps, _ = f.GetCount(flagCaps)
	}
	long := cfg.Long
	if f.Changed(flagLong) {
		long, _ = f.GetCount(flagLong)
	}
	dataDir := cfg.DataDirection
	if f.Changed(flagData) {
		dataDir, _ = f.GetBool(flagData)
	}
	asJSON := cfg.JSON
	if f.Changed(flagJSON) {
		asJSON, _ = f.GetBool(flagJSON)
	}
	colorize := cfg.Color
	if f.Changed(flagColor) {
		colorize, _ = f.GetBool(flagColor)
	}
	root := cfg.SysfsRoot
	if f.Changed(flagSysfsRoot) {
		root, _ = f.GetString(flagSysfsRoot)
	}
	jsFile, _ := f.GetString(flagJSONFile)
	if jsFile != "" {
		asJSON = true
	}
	if root != "" {
		st, err := os.Stat(root)
		if err != nil || !st.IsDir() {
			return errors.Newf("sysfs root %q is not a directory", root)
		}
	}

	fl := compileFilters(args, log)
	if len(fl.pds) > 0 && caps == 0 {
		// Naming a pd object asks for its capabilities.
		caps = 1
	}

	sc := sysfs.New(root, log)
	log.Info().Str("root", sc.Root()).Msg("scanning sysfs")

	ports, err := sc.Ports()
	if err != nil {
		return err
	}
	partnerPDs := make(map[int]bool)
	for _, p := range ports {
		if p.Partner && p.PDNum >= 0 {
			partnerPDs[p.PDNum] = true
		}
	}
	objs, err := sc.PDObjects(func(num int) bool { return partnerPDs[num] })
	if err != nil {
		if len(ports) == 0 {
			return err
		}
		// A system without PD objects still has listable Type-C ports.
		log.Info().Err(err).Msg("no usb_power_delivery class")
		objs = nil
	}
	for i := range objs {
		if err := sc.Populate(&objs[i], true); err != nil {
			return err
		}
	}
	byNum := make(map[int]*sysfs.PDObject, len(objs))
	for i := range objs {
		byNum[objs[i].Num] = &objs[i]
	}
	summaries := render.PortSummaries(ports, dataDir, func(pd int) bool {
		o := byNum[pd]
		return o != nil && o.USBCommsIncapable
	})

	if asJSON {
		return writeJSON(ports, objs, summaries, fl, jsFile)
	}

	r := render.New(os.Stdout, render.Options{
		Caps: caps, Long: long, DataDir: dataDir, Color: colorize,
	})
	for _, p := range ports {
		if p.Partner || !fl.matchPort(p.Match) {
			continue
		}
		r.PortLine(summaries[p.Num])
	}
	if long > 0 {
		for _, p := range ports {
			if !fl.matchPort(p.Match) {
				continue
			}
			r.ListPort(sc, p)
		}
	}
	if caps > 0 {
		for _, o := range objs {
			if !fl.matchPD(o.Match) {
				continue
			}
			r.ListPD(o)
		}
	}
	return nil
}

func writeJSON(ports []sysfs.Port, objs []sysfs.PDObject, summaries map[int]string, fl filters, jsFile string) error {
	kept := ports[:0:0]
	for _, p := range ports {
		if fl.matchPort(p.Match) {
			kept = append(kept, p)
		}
	}
	keptObjs := objs[:0:0]
	for _, o := range objs {
		if fl.matchPD(o.Match) {
			keptObjs = append(keptObjs, o)
		}
	}
	rep := render.BuildReport(kept, keptObjs, summaries)
	out := os.Stdout
	if jsFile != "" && jsFile != "-" {
		f, err := os.Create(jsFile)
		if err != nil {
			return errors.Wrapf(err, "create %s", jsFile)
		}
		defer f.Close()
		out = f
	}
	return render.WriteJSON(out, rep)
}
