// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/core/sweep"
	"github.com/similigh/triagebot/internal/orchestrator"
	"github.com/similigh/triagebot/internal/tui"
)

type sweepFunc func(ctx context.Context, e *orchestrator.Engine) (*sweep.Summary, error)

// runSweep runs fn and prints its summary. With --tui the sweep runs
// behind an interactive progress view; quitting the view cancels it.
func runSweep(cmd *cobra.Command, rt *runtime, title string, fn sweepFunc) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if !useTUI {
		summary, err := fn(ctx, rt.engine())
		if summary != nil {
			printSummary(out, summary)
		}
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(tui.NewModel(title), tea.WithContext(ctx))
	engine := rt.engine(orchestrator.WithObserver(tui.NewObserver(p)))

	var (
		summary *sweep.Summary
		runErr  error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		summary, runErr = fn(ctx, engine)
		p.Send(tui.DoneMsg{Summary: summary, Err: runErr})
	}()

	final, err := p.Run()
	if m, ok := final.(tui.Model); ok && m.Interrupted {
		cancel()
	}
	<-done

	if summary != nil {
		printSummary(out, summary)
	}
	if runErr != nil {
		return runErr
	}
	return err
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 100,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// printSummary renders one row per sweep item followed by the totals.
func printSummary(w io.Writer, s *sweep.Summary) {
	table := newTable(w, "Item", "Outcome", "Detail")
	for _, item := range s.Items {
		_ = table.Append([]string{fmt.Sprintf("#%d", item.Number), string(item.Outcome), itemDetail(item)})
	}
	_ = table.Render()
	fmt.Fprintf(w, "\n%s\n", s)
}

func itemDetail(item sweep.ItemResult) string {
	if item.Outcome != sweep.Success || item.Result == nil {
		return item.Reason
	}

	r := item.Result
	var parts []string
	if len(r.Labels) > 0 {
		parts = append(parts, "labels: "+strings.Join(r.Labels, ", "))
	}
	if r.CommentKind != "" {
		parts = append(parts, r.CommentKind+" comment")
	}
	if r.HighPriority {
		parts = append(parts, "high priority: "+r.PriorityReason)
	}
	if r.Indexed {
		parts = append(parts, "indexed")
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, "; ")
}

// printResult renders the outcome of a single-item command.
func printResult(w io.Writer, r *pipeline.Result) {
	if r.Skipped {
		fmt.Fprintf(w, "#%d skipped: %s\n", r.IssueNumber, r.SkipReason)
		return
	}

	table := newTable(w, "Field", "Value")
	_ = table.Append([]string{"Item", fmt.Sprintf("#%d", r.IssueNumber)})
	_ = table.Append([]string{"Labels", orNone(strings.Join(r.Labels, ", "))})
	_ = table.Append([]string{"Comment", orNone(r.CommentKind)})
	_ = table.Append([]string{"Applied", applied(r)})
	if r.Summary != "" {
		_ = table.Append([]string{"Summary", r.Summary})
	}
	_ = table.Render()

	if r.Comment != "" {
		fmt.Fprintf(w, "\n%s\n", r.Comment)
	}
}

func applied(r *pipeline.Result) string {
	var parts []string
	if len(r.LabelsApplied) > 0 {
		parts = append(parts, "labels")
	}
	if r.CommentPosted {
		parts = append(parts, "comment")
	}
	if r.MarkerRemoved {
		parts = append(parts, "marker removed")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
