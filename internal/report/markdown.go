package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/1homsi/gosurface/internal/aggregate"
)

// WriteMarkdown renders rep as a Markdown document.
func WriteMarkdown(w io.Writer, rep Report) error {
	bw := bufio.NewWriter(w)
	s := rep.Summary

	fmt.Fprintf(bw, "- Source: %s\n", rep.Source)
	fmt.Fprintf(bw, "- Projects: %d\n", s.ProjectsProcessed)
	fmt.Fprintf(bw, "- Projects with matches: %d\n", s.ProjectsWithMatches)
	fmt.Fprintf(bw, "- %s: %d\n", rep.Title, s.TypesMatched)
	if rep.Mode == aggregate.ModeMembers {
		fmt.Fprintf(bw, "- Members: %d\n", s.MembersMatched)
	}
	if s.ProjectsSkipped > 0 {
		fmt.Fprintf(bw, "- Skipped projects: %d\n", s.ProjectsSkipped)
	}
	if s.UnresolvedNodes > 0 {
		fmt.Fprintf(bw, "- Unresolved nodes: %d\n", s.UnresolvedNodes)
	}
	fmt.Fprintln(bw)

	if s.TypesMatched == 0 {
		fmt.Fprintln(bw, "0 matches")
		return bw.Flush()
	}

	for _, sec := range rep.Sections {
		fmt.Fprintf(bw, "# %s\n\n", sec.Project)
		for _, t := range sec.Types {
			if rep.Mode == aggregate.ModeMembers {
				writeMemberType(bw, t)
				continue
			}
			fmt.Fprintf(bw, " - `%s`%s\n", t.Display, typeSuffix(t))
		}
		if rep.Mode != aggregate.ModeMembers {
			fmt.Fprintln(bw)
		}
	}
	return bw.Flush()
}

func typeSuffix(t TypeEntry) string {
	switch {
	case t.Extensions:
		return " (extension methods)"
	case !t.Public():
		return " (" + t.Visibility + ")"
	}
	return ""
}

func writeMemberType(w io.Writer, t TypeEntry) {
	fmt.Fprintf(w, "## `%s`\n\n", t.Display)
	for _, m := range t.Members {
		inherited := ""
		if m.InheritedFrom != "" {
			inherited = fmt.Sprintf(" (inherited from `%s`)", m.InheritedFrom)
		}
		fmt.Fprintf(w, "- `%s`%s\n", m.Display, inherited)
	}
	fmt.Fprintln(w)
}
