package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestSummaryFlagAlias(t *testing.T) {
	cmd := &cobra.Command{Use: "probe"}
	var summary string
	cmd.Flags().StringVar(&summary, "summary", "", "")
	addSummaryFlagAliases(cmd)

	if err := cmd.Flags().Parse([]string{"--desc", "hello"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if summary != "hello" {
		t.Errorf("summary = %q, want %q", summary, "hello")
	}
}
