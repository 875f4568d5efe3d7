package cmd

import (
	"fmt"
	"strings"

	"github.com/doublegate/rustopt/internal/app"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// formatRunResult formats one pipeline run for terminal display.
//
//	⚡ 2 files rewritten │ cache miss │ backup 20260829_143005
//	  optimized/src/main.rs
//	  optimized/Cargo.toml
func formatRunResult(res *app.RunResult) string {
	var sb strings.Builder

	source := "cache miss"
	if res.CacheHit {
		source = "cache hit"
	}
	sb.WriteString(fmt.Sprintf("%s⚡ %d file(s) rewritten%s │ %s", colorBold, len(res.Parts), colorReset, source))
	if res.BackupID != "" {
		sb.WriteString(fmt.Sprintf(" │ backup %s", res.BackupID))
	}
	sb.WriteString("\n")

	if res.Aborted {
		sb.WriteString(fmt.Sprintf("  %sdeclined at preview: build and commit skipped%s\n", colorYellow, colorReset))
		return sb.String()
	}

	for _, p := range res.Parts {
		sb.WriteString(fmt.Sprintf("  %s%s%s\n", colorCyan, p.Path, colorReset))
	}

	if res.BuildRan {
		if res.Build.Success {
			sb.WriteString(fmt.Sprintf("  %s✓ cargo build passed%s\n", colorGreen, colorReset))
		} else {
			sb.WriteString(fmt.Sprintf("  %s✗ cargo build failed%s\n", colorYellow, colorReset))
			for _, d := range res.Build.Diagnostics {
				sb.WriteString(fmt.Sprintf("    %s%s%s\n", colorGray, d, colorReset))
			}
		}
	}

	if res.Committed {
		sb.WriteString(fmt.Sprintf("  %s✓ committed%s\n", colorGreen, colorReset))
	}

	return sb.String()
}
