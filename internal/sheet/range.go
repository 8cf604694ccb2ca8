package sheet

import "fmt"

// ColumnLabel converts a zero-based column index to its A1 letter form
// (0 = "A", 25 = "Z", 26 = "AA").
func ColumnLabel(index int) string {
	label := make([]byte, 0, 2)
	for index >= 0 {
		label = append([]byte{byte('A' + index%26)}, label...)
		index = index/26 - 1
	}
	return string(label)
}

// CellRef renders one cell in A1 notation. Row and column are zero-based
// indexes into SheetData.Values.
func CellRef(table string, rowIndex, colIndex int) string {
	return fmt.Sprintf("%s!%s%d", table, ColumnLabel(colIndex), rowIndex+1)
}

// RangeRef renders a rectangular block in A1 notation using zero-based
// inclusive bounds.
func RangeRef(table string, startRow, startCol, endRow, endCol int) string {
	return fmt.Sprintf("%s!%s%d:%s%d",
		table,
		ColumnLabel(startCol), startRow+1,
		ColumnLabel(endCol), endRow+1,
	)
}
