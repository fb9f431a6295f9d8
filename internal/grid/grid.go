// Package grid holds the column definitions the dashboard hands to its data grids.
package grid

type ColumnDef struct {
	HeaderName string  `json:"headerName"`
	Field      string  `json:"field"`
	Flex       float64 `json:"flex,omitempty"`
	Filter     string  `json:"filter,omitempty"`
}

// DefaultColDef applies to every column: sortable, filterable and resizable.
type DefaultColDef struct {
	Sortable  bool `json:"sortable"`
	Filter    bool `json:"filter"`
	Resizable bool `json:"resizable"`
}

var Defaults = DefaultColDef{Sortable: true, Filter: true, Resizable: true}

// SelectionSingle is the only selection mode the dashboard grids use.
const SelectionSingle = "single"

var ManagerWorkerColumns = []ColumnDef{
	{HeaderName: "ID", Field: "id", Flex: 0.5},
	{HeaderName: "Manager Email", Field: "manager_name", Flex: 2, Filter: "agTextColumnFilter"},
	{HeaderName: "Worker Email", Field: "worker_name", Flex: 2},
	{HeaderName: "Timestamp", Field: "timestamp", Flex: 1},
}

var WorkerTeamColumns = []ColumnDef{
	{HeaderName: "ID", Field: "id", Flex: 0.5},
	{HeaderName: "Worker Email", Field: "worker_name", Flex: 2},
	{HeaderName: "Team Name", Field: "team_name", Flex: 1.5},
	{HeaderName: "Timestamp", Field: "timestamp", Flex: 1},
}

// ColumnsFor builds one equally weighted column per result column, in result order.
func ColumnsFor(columns []string) []ColumnDef {
	defs := make([]ColumnDef, 0, len(columns))
	for _, c := range columns {
		defs = append(defs, ColumnDef{HeaderName: c, Field: c, Flex: 1})
	}
	return defs
}
