package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"

	"github.com/samcharles93/dsconv/internal/classify"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("  ")
	return table
}

func writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = os.Stdout.Write(data)
	return err
}

func formatMS(d time.Duration) string {
	return strconv.FormatFloat(float64(d.Microseconds())/1000, 'f', 3, 64) + " ms"
}

func printTimings(w io.Writer, t classify.Timings) {
	table := newTable(w, "STAGE", "TIME", "US")
	for _, row := range []struct {
		name string
		d    time.Duration
	}{
		{"dwconv", t.Depthwise},
		{"pwconv", t.Pointwise},
		{"avgpool", t.AvgPool},
		{"softmax", t.Softmax},
		{"total", t.Total},
	} {
		table.Append([]string{row.name, formatMS(row.d), strconv.FormatInt(row.d.Microseconds(), 10)})
	}
	table.Render()
}

func printTop(w io.Writer, top []classify.Score) {
	table := newTable(w, "RANK", "CLASS", "LABEL", "SCORE", "Q", "PERCENT")
	for i, s := range top {
		table.Append([]string{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.Index),
			s.Label,
			strconv.FormatFloat(float64(s.Prob), 'f', 4, 32),
			fmt.Sprintf("%d/255", s.Score255),
			fmt.Sprintf("%d%%", s.Percent),
		})
	}
	table.Render()
}

func printMemory(w io.Writer, m classify.Memory) {
	total := m.Input + m.Depthwise + m.Pointwise + m.Softmax
	_, _ = fmt.Fprintf(w, "RAM: in=%d dw_out=%d pw_out=%d sm=%d total=%d bytes\n",
		m.Input, m.Depthwise, m.Pointwise, m.Softmax, total)
}
