package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/glyphgrid/internal/fsm"
	"github.com/specialistvlad/glyphgrid/internal/picture"
	"github.com/specialistvlad/glyphgrid/internal/scanner"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type reportEntry struct {
	Target   string         `json:"target"`
	Symbol   string         `json:"symbol"`
	Matched  bool           `json:"matched"`
	Anchor   *[2]int        `json:"anchor,omitempty"`
	Steps    int            `json:"steps,omitempty"`
	Captures []captureEntry `json:"captures,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type captureEntry struct {
	Color picture.Color   `json:"color"`
	Role  string          `json:"role"`
	Found []picture.Color `json:"found"`
}

// entries flattens results into report rows. Captures follow the symbol's
// role registration order, Function first.
func (a *App) entries(ctx context.Context, results []scanner.Result) []reportEntry {
	out := make([]reportEntry, 0, len(results))
	for _, r := range results {
		e := reportEntry{Target: r.Target, Symbol: r.Symbol, Matched: r.Matched()}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		if m := r.Match; m != nil {
			e.Anchor = &[2]int{m.Anchor.X, m.Anchor.Y}
			e.Steps = m.Steps
			if sym := a.symbolFor(ctx, r.Symbol); sym != nil {
				e.Captures = captures(sym.Graph.Roles, m)
			}
		}
		out = append(out, e)
	}
	return out
}

func captures(roles *fsm.RoleTable, m *fsm.Match) []captureEntry {
	colors := roles.Colors()
	out := make([]captureEntry, 0, len(colors))
	for _, c := range colors {
		role, _ := roles.Role(c)
		found := m.Captures[c]
		if found == nil {
			found = []picture.Color{}
		}
		out = append(out, captureEntry{Color: c, Role: role.String(), Found: found})
	}
	return out
}

func (a *App) report(ctx context.Context, results []scanner.Result) error {
	entries := a.entries(ctx, results)
	if a.cfg.Output == OutputJSON {
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	return writeText(a.outW, entries)
}

func writeText(w io.Writer, entries []reportEntry) error {
	title := cases.Title(language.English)
	for _, e := range entries {
		var err error
		switch {
		case e.Error != "":
			_, err = fmt.Fprintf(w, "%s / %s: error: %s\n", e.Target, e.Symbol, e.Error)
		case !e.Matched:
			_, err = fmt.Fprintf(w, "%s / %s: not found\n", e.Target, e.Symbol)
		default:
			_, err = fmt.Fprintf(w, "%s / %s: matched at (%d,%d) after %d steps\n", e.Target, e.Symbol, e.Anchor[0], e.Anchor[1], e.Steps)
			for _, c := range e.Captures {
				if err != nil {
					break
				}
				found := "-"
				if len(c.Found) > 0 {
					parts := make([]string, len(c.Found))
					for i, f := range c.Found {
						parts[i] = f.String()
					}
					found = strings.Join(parts, " ")
				}
				_, err = fmt.Fprintf(w, "  %s %s: %s\n", title.String(c.Role), c.Color, found)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
