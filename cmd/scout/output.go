package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/scout"
)

const titleWidth = 40

// printer writes tables to stdout and status lines to stderr.
type printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

func newPrinter(cmd *cobra.Command) *printer {
	return &printer{
		out:       cmd.OutOrStdout(),
		err:       cmd.ErrOrStderr(),
		useColors: resolveColors(),
	}
}

// resolveColors honors --no-color, NO_COLOR and dumb terminals.
func resolveColors() bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func (p *printer) info(format string, args ...any) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.err, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, format+"\n", args...)
}

func (p *printer) success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.err, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "✓ "+format+"\n", args...)
}

func (p *printer) warn(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "⚠ "+format+"\n", args...)
}

func (p *printer) fatal(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "✗ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "✗ "+format+"\n", args...)
}

// messages prints report messages at their level.
func (p *printer) messages(msgs []scout.Message) {
	for _, m := range msgs {
		switch m.Level {
		case scout.LevelFatal:
			p.fatal("%s", m.Text)
		case scout.LevelWarn:
			p.warn("%s", m.Text)
		default:
			p.info("%s", m.Text)
		}
	}
}

func (p *printer) quota(used, budget int) {
	if budget > 0 {
		p.info("quota: %d of %d units", used, budget)
		return
	}
	p.info("quota: %d units (no budget)", used)
}

// newTable creates a borderless left-aligned table on w.
func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

func (p *printer) table(header []string, rows [][]string) error {
	t := newTable(p.out)
	t.Header(header)
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

// resultTable renders run results in rank order.
func (p *printer) resultTable(rows []scout.ResultRow) error {
	data := make([][]string, 0, len(rows))
	for i, r := range rows {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			engine.TruncateRunes(r.Title, titleWidth, "…"),
			humanize.Comma(r.Subscribers),
			humanize.Comma(r.TotalViews),
			humanize.Comma(r.AvgViews),
			strconv.Itoa(r.Samples),
			r.Country,
			r.Link,
		})
	}
	return p.table([]string{"#", "Channel", "Subscribers", "Total views", "Avg views", "Videos", "Country", "Link"}, data)
}
