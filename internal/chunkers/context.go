// Package chunkers provides the shared chunk enrichment contract and the
// strategy registry. Concrete strategies live in the wordcount and semantic
// subpackages.
package chunkers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kwak-labs/kwak-cli/internal/core/domain"
)

// BuildContext prepends the shared metadata header to a raw chunk body.
// Every strategy must produce byte-identical headers for the same dossier
// so embeddings from different strategies remain comparable.
func BuildContext(d domain.Dossier, body string) string {
	return fmt.Sprintf(
		"Dossier: %s\nType: %s\nPeriode: %s tot %s\nGoedgekeurd budget: €%s\n\n%s",
		d.Title,
		d.Type,
		d.StartDate.Format(domain.DateFormat),
		d.EndDate.Format(domain.DateFormat),
		formatBudget(d.Budget),
		body,
	)
}

// Enrich builds a chunk from a raw body, denormalizing the dossier
// metadata and applying the context header.
func Enrich(d domain.Dossier, origin domain.Origin, body string) domain.Chunk {
	return domain.Chunk{
		DossierID: d.ID,
		Type:      d.Type,
		Title:     d.Title,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Budget:    d.Budget,
		Origin:    origin,
		Content:   BuildContext(d, body),
	}
}

// formatBudget renders a budget with two decimal places and comma
// thousands separators, e.g. 1234567.891 -> "1,234,567.89".
func formatBudget(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	intPart, fracPart, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
