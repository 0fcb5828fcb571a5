package main

import (
	"strconv"
	"strings"

	"github.com/san-kum/evoviz/internal/fault"
	"github.com/spf13/cobra"
)

// exactArgs is cobra.ExactArgs reporting an argument error with the usage
// line, so the process exits with the argument status.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fault.Argumentf("%s: expected %d arguments, got %d\nusage: %s", cmd.Name(), n, len(args), cmd.UseLine())
		}
		return nil
	}
}

func oneOfArgs(counts ...int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		for _, n := range counts {
			if len(args) == n {
				return nil
			}
		}
		want := make([]string, len(counts))
		for i, n := range counts {
			want[i] = strconv.Itoa(n)
		}
		return fault.Argumentf("%s: expected %s arguments, got %d\nusage: %s", cmd.Name(), strings.Join(want, " or "), len(args), cmd.UseLine())
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return fault.Argumentf("%s: expected at least %d arguments, got %d\nusage: %s", cmd.Name(), n, len(args), cmd.UseLine())
		}
		return nil
	}
}

func parseInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fault.Argumentf("%s must be an integer, got %q", name, s)
	}
	return v, nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fault.Argumentf("%s must be a number, got %q", name, s)
	}
	return v, nil
}

// parseBounds reads the xUpper and yUpper arguments.
func parseBounds(xs, ys string) (int, int, error) {
	x, err := parseInt("xUpper", xs)
	if err != nil {
		return 0, 0, err
	}
	y, err := parseInt("yUpper", ys)
	if err != nil {
		return 0, 0, err
	}
	if x < 2 || y < 2 {
		return 0, 0, fault.Argumentf("axis bounds must be at least 2, got %dx%d", x, y)
	}
	return x, y, nil
}
