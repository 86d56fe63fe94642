package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addSummaryFlagAliases lets --desc stand in for --summary.
func addSummaryFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.Flags().SetNormalizeFunc(normalizeSummaryFlag)
	}
}

func normalizeSummaryFlag(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "desc" {
		name = "summary"
	}
	return pflag.NormalizedName(name)
}
