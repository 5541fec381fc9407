package rankcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/hirematch/internal/domain/types"
)

func writeJSON(w io.Writer, r types.Ranking) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeTable(w io.Writer, r types.Ranking) error {
	if _, err := fmt.Fprintf(w, "%s (%s): %d scored, %d listed\n\n",
		r.PositionTitle, r.PositionID, r.Total, len(r.Candidates)); err != nil {
		return err
	}
	if len(r.Candidates) == 0 {
		_, err := fmt.Fprintln(w, "no matching candidates")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tSCORE\tSKILLS\tEXPERIENCE\tYEARS\tMATCHED")
	for _, c := range r.Candidates {
		matched := strings.Join(c.MatchedSkills(), ", ")
		if matched == "" {
			matched = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.0f\t%.0f\t%d\t%s\n",
			c.Rank, c.Name, c.Score, c.SkillScore, c.ExperienceScore, c.ExperienceYears, matched)
	}
	return tw.Flush()
}
