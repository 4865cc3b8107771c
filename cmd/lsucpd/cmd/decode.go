package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/lsucpd/lsucpd/pdo"
	"github.com/lsucpd/lsucpd/render"
)

const (
	flagRole = "role"
)

var decodePDOCmd = &cobra.Command{
	Use:   "decode-pdo RAW [POSITION]",
	Short: "Decode a raw 32-bit PDO given on the command line",
	Long: `Decode a 32-bit Power Data Object. RAW is decimal by default; prefix
with 0x or append h for hexadecimal. The category is taken from the value's
own tag bits. POSITION is the object's 1-based slot in its capability list
and defaults to 1; only the first slot carries the fixed supply extension
flags.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDecodePDO,
}

var decodeRDOCmd = &cobra.Command{
	Use:   "decode-rdo RAW CATEGORY",
	Short: "Decode a raw 32-bit RDO given on the command line",
	Long: `Decode a 32-bit Request Data Object. An RDO does not describe its own
layout, so CATEGORY names the supply type of the source PDO it refers to,
as a single letter: F(ixed), B(attery), V(ariable), P(PS), A or E for
EPR-AVS, S for SPR-AVS.`,
	Args: cobra.ExactArgs(2),
	RunE: runDecodeRDO,
}

func init() {
	decodePDOCmd.Flags().String(flagRole, "source", "decode as a 'source' or 'sink' capability")
	rootCmd.AddCommand(decodePDOCmd)
	rootCmd.AddCommand(decodeRDOCmd)
}

func parseRole(s string) (pdo.Role, error) {
	switch s {
	case "source", "src":
		return pdo.RoleSource, nil
	case "sink":
		return pdo.RoleSink, nil
	}
	return pdo.RoleSource, errors.Newf("unknown role %q, expected 'source' or 'sink'", s)
}

func runDecodePDO(cmd *cobra.Command, args []string) error {
	raw, err := pdo.ParseNumber(args[0])
	if err != nil {
		return errors.Wrapf(err, "RAW argument %q", args[0])
	}
	position := 1
	if len(args) > 1 {
		position, err = strconv.Atoi(args[1])
		if err != nil || position < 1 {
			return errors.Newf("POSITION argument %q, expected a positive integer", args[1])
		}
	}
	roleName, _ := cmd.Flags().GetString(flagRole)
	role, err := parseRole(roleName)
	if err != nil {
		return err
	}
	c := pdo.CategoryOf(raw)
	fmt.Printf("0x%08x: %s, position %d, %s role\n", raw, c, position, role)
	if s, err := pdo.Summary(raw, c, role); err == nil {
		fmt.Printf("  %s\n", s)
	}
	r := render.New(os.Stdout, render.Options{})
	r.Attributes(pdo.DecodePDO(raw, c, role, position == 1))
	return nil
}

func runDecodeRDO(cmd *cobra.Command, args []string) error {
	raw, err := pdo.ParseNumber(args[0])
	if err != nil {
		return errors.Wrapf(err, "RAW argument %q", args[0])
	}
	ref := pdo.CategoryForLetter(args[1])
	attrs, err := pdo.DecodeRDO(raw, ref)
	if err != nil {
		return errors.Wrapf(err, "CATEGORY argument %q", args[1])
	}
	fmt.Printf("0x%08x: request referencing a %s\n", raw, ref)
	r := render.New(os.Stdout, render.Options{})
	r.Attributes(attrs)
	return nil
}
