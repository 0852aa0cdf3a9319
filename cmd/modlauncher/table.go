package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnKind int

const (
	textColumn columnKind = iota
	// countColumn holds task or file counters. Right aligned and summed into
	// the footer when the table asks for totals.
	countColumn
	// numberColumn is right aligned but never summed (ranges, durations, ids).
	numberColumn
	// wideColumn holds zone paths and descriptions, wrapped at wideColumnMax.
	wideColumn
)

const wideColumnMax = 60

type column struct {
	title string
	kind  columnKind
}

// launcherTable is rendered by the list, history, settings, dvars, workshop
// and doctor commands.
type launcherTable struct {
	columns []column
	rows    [][]string
	// totalsLabel, when set, adds a footer row with the label in the first
	// column and the sum of every countColumn.
	totalsLabel string
}

func (t *launcherTable) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *launcherTable) render() string {
	if len(t.columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(t.columns))
	configs := make([]table.ColumnConfig, len(t.columns))
	for i, col := range t.columns {
		header[i] = col.title
		cfg := table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		switch col.kind {
		case countColumn, numberColumn:
			cfg.Align = text.AlignRight
			cfg.AlignFooter = text.AlignRight
		case wideColumn:
			cfg.WidthMax = wideColumnMax
			cfg.WidthMaxEnforcer = text.WrapSoft
		}
		configs[i] = cfg
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	sums := make([]int, len(t.columns))
	for _, cells := range t.rows {
		row := make(table.Row, len(t.columns))
		for i, col := range t.columns {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			row[i] = cell
			if col.kind == countColumn {
				if n, err := strconv.Atoi(cell); err == nil {
					sums[i] += n
				}
			}
		}
		tw.AppendRow(row)
	}

	if t.totalsLabel != "" {
		footer := make(table.Row, len(t.columns))
		footer[0] = t.totalsLabel
		for i, col := range t.columns[1:] {
			footer[i+1] = ""
			if col.kind == countColumn {
				footer[i+1] = strconv.Itoa(sums[i+1])
			}
		}
		tw.AppendFooter(footer)
	}

	return tw.Render()
}
