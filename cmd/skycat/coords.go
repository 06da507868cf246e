package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/skycat/internal/domain"
)

// coordFlags are shared by the ra and dec commands.
type coordFlags struct {
	sep     string
	out     string
	arcsec  bool
	radians bool
}

func (f *coordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sep, "sep", "", "input separator characters (default: detected)")
	cmd.Flags().StringVar(&f.out, "out", domain.DefaultSeparator, "output separator")
	cmd.Flags().BoolVar(&f.arcsec, "arcsec", false, "input is arc-seconds")
	cmd.Flags().BoolVar(&f.radians, "radians", false, "input is radians")
	cmd.MarkFlagsMutuallyExclusive("arcsec", "radians")
}

func (f *coordFlags) separator(input string) string {
	if f.sep != "" {
		return f.sep
	}
	return domain.DetectSeparator(input)
}

func raCmd() *cobra.Command {
	var flags coordFlags

	cmd := &cobra.Command{
		Use:   "ra [value]",
		Short: "Parse or convert a right ascension",
		Example: `  skycat ra 01:10:12.98
  skycat ra --out " " 01.10.12.98
  skycat ra --arcsec 17594.7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				ra  domain.RA
				err error
			)
			switch {
			case flags.arcsec, flags.radians:
				v, perr := strconv.ParseFloat(args[0], 64)
				if perr != nil {
					return fmt.Errorf("invalid number %q", args[0])
				}
				if flags.arcsec {
					ra, err = domain.RAFromArcSeconds(v)
				} else {
					ra, err = domain.RAFromRadians(v)
				}
			default:
				ra, err = domain.ParseRA(args[0], flags.separator(args[0]))
			}
			if err != nil {
				return err
			}
			printRA(cmd.OutOrStdout(), ra, flags.out)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func decCmd() *cobra.Command {
	var (
		flags   coordFlags
		relaxed bool
	)

	cmd := &cobra.Command{
		Use:   "dec [value]",
		Short: "Parse or convert a declination",
		Long:  "Parse or convert a declination. Negative values must follow -- so they are not read as flags.",
		Example: `  skycat dec +60:04:35.9
  skycat dec -- -00:10:20
  skycat dec --relaxed 45.30.00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				dec domain.Dec
				err error
			)
			switch {
			case flags.arcsec, flags.radians:
				v, perr := strconv.ParseFloat(args[0], 64)
				if perr != nil {
					return fmt.Errorf("invalid number %q", args[0])
				}
				if flags.arcsec {
					dec, err = domain.DecFromArcSeconds(v)
				} else {
					dec, err = domain.DecFromRadians(v)
				}
			case relaxed:
				err = dec.ParseRelaxed(args[0], flags.separator(args[0]))
			default:
				err = dec.Parse(args[0], flags.separator(args[0]))
			}
			if err != nil {
				return err
			}
			printDec(cmd.OutOrStdout(), dec, flags.out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&relaxed, "relaxed", false, "accept a declination without a sign as positive")
	return cmd
}

func coordsCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "coords [ra dec...]",
		Short: "Parse a combined \"RA Dec\" string as returned by lookup services",
		Example: `  skycat coords "01 10 12.98 +60 04 35.9"
  skycat coords -- 05 28.5 -35 51.3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ra, dec, err := domain.ParseCombined(strings.Join(args, " "))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printRA(w, ra, out)
			fmt.Fprintln(w)
			printDec(w, dec, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", domain.DefaultSeparator, "output separator")
	return cmd
}

func printRA(w io.Writer, ra domain.RA, sep string) {
	fmt.Fprintf(w, "RA:       %s\n", ra.Format(sep))
	fmt.Fprintf(w, "Arcsec:   %.4f\n", ra.ArcSeconds())
	fmt.Fprintf(w, "Degrees:  %.6f\n", ra.Degrees())
	fmt.Fprintf(w, "Radians:  %.8f\n", ra.Radians())
}

func printDec(w io.Writer, dec domain.Dec, sep string) {
	fmt.Fprintf(w, "Dec:      %s\n", dec.Format(sep))
	fmt.Fprintf(w, "Arcsec:   %.4f\n", dec.ArcSeconds())
	fmt.Fprintf(w, "Degrees:  %.6f\n", dec.DecimalDegrees())
	fmt.Fprintf(w, "Radians:  %.8f\n", dec.Radians())
}
