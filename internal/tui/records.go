package tui

import (
	"sort"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshRecords rebuilds the table of regions joined to a record, sorted by
// value descending.
func (m *Model) refreshRecords() {
	if m.scene == nil {
		return
	}
	entries := m.scene.Legend.Entries
	type row struct {
		id, name string
		value    float64
	}
	var rs []row
	for _, r := range m.scene.Regions {
		if r.HasData {
			rs = append(rs, row{id: r.ID, name: r.Name, value: r.Value})
		}
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].value > rs[j].value })

	cols := []table.Column{
		{Title: "#", Width: 5},
		{Title: "id", Width: 7},
		{Title: "name", Width: 28},
		{Title: m.cfg.Sources.ValueColumn, Width: 10},
		{Title: "bucket", Width: 14},
	}
	trows := make([]table.Row, 0, len(rs))
	for i, r := range rs {
		bucket := ""
		if k := m.scale.BucketIndex(r.value) + 1; k < len(entries) {
			bucket = entries[k].Label
		}
		trows = append(trows, table.Row{strconv.Itoa(i + 1), r.id, r.name, m.tooltip.Format(r.value), bucket})
	}
	// clear rows before swapping columns so the table never sees a mismatch
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(trows)
}
