package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MikeSquared-Agency/Hitchyard/internal/scoring"
	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
)

var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

func verdictStyle(composite int) lipgloss.Style {
	switch {
	case composite >= 80:
		return greenStyle
	case composite >= 60:
		return yellowStyle
	default:
		return redStyle
	}
}

func renderResult(r scoring.ScoreResult) string {
	var b strings.Builder
	style := verdictStyle(r.Composite)

	fmt.Fprintf(&b, "%s %s\n", boldStyle.Render("Hitchyard Performance Score:"), style.Bold(true).Render(fmt.Sprintf("%d", r.Composite)))
	fmt.Fprintf(&b, "%s\n", style.Render(r.Verdict))
	fmt.Fprintf(&b, "%s\n", dimStyle.Render("variant "+r.Variant))

	nameWidth := 0
	for _, f := range r.Factors {
		if len(f.Name) > nameWidth {
			nameWidth = len(f.Name)
		}
	}
	for _, f := range r.Factors {
		padding := strings.Repeat(" ", nameWidth-len(f.Name))
		fmt.Fprintf(&b, "  %s%s  %5.1f × %.2f = %5.2f  %s\n",
			f.Name, padding, f.Score, f.Weight, f.Weighted, dimStyle.Render(f.Reason))
	}

	if r.LegacyHPS != nil {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("legacy hps %.1f (not part of composite)", *r.LegacyHPS)))
	}
	if r.RatePerLb != nil {
		fmt.Fprintf(&b, "rate per lb $%s\n", r.RatePerLb.StringFixed(2))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderRejection(verr *shipment.ValidationError) string {
	return redStyle.Render("✗ ") + verr.Error()
}

func renderVariants(variants []*scoring.Variant, def string) string {
	var b strings.Builder
	for _, v := range variants {
		marker := "  "
		if v.Name == def {
			marker = greenStyle.Render("* ")
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, boldStyle.Render(v.Name),
			dimStyle.Render(fmt.Sprintf("pallets %d-%d, region %s", v.Rules.MinPallets, v.Rules.MaxPallets, v.Rules.Region)))
	}
	return strings.TrimRight(b.String(), "\n")
}
