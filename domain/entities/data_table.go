package entities

// DataRow is one row of a two column field/value table
type DataRow struct {
	Field string `json:"field" yaml:"field"`
	Value string `json:"value" yaml:"value"`
}

// DataTable is an ordered list of field/value rows
type DataTable []DataRow

// Value returns the value of the first row whose field matches
func (t DataTable) Value(field string) (string, bool) {
	for _, row := range t {
		if row.Field == field {
			return row.Value, true
		}
	}
	return "", false
}

// NamedAttribute is a table column name paired with a filter value
type NamedAttribute struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}
