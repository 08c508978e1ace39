package table

import "strings"

// PostProcess validates and cleans a raw table grid. It returns
// (nil, false) if the grid fails structural validation — see the
// per-check comments below for the exact rejection criteria, each
// ported from the reference table-reconstruction behavior.
func PostProcess(grid [][]string) ([][]string, bool) {
	rows := stripEmptyRows(grid)
	if len(rows) == 0 {
		return nil, false
	}

	if isProse(rows) {
		return nil, false
	}

	colCount := 0
	if len(rows) > 0 {
		colCount = len(rows[0])
	}
	if colCount <= 2 {
		return nil, false
	}

	dataStart := findDataStart(rows)
	headerRows := rows[:dataStart]
	dataRows := rows[dataStart:]
	if len(headerRows) > 2 {
		headerRows = headerRows[len(headerRows)-2:]
	}

	if len(headerRows) == 0 {
		if len(dataRows) < 2 {
			return nil, false
		}
		headerRows = [][]string{dataRows[0]}
		dataRows = dataRows[1:]
	}

	columnCount := 0
	if len(headerRows) > 0 {
		columnCount = len(headerRows[0])
	} else if len(dataRows) > 0 {
		columnCount = len(dataRows[0])
	}
	if columnCount == 0 {
		return nil, false
	}

	header := mergeHeaderRows(headerRows, columnCount)

	processed := make([][]string, 0, 1+len(dataRows))
	processed = append(processed, header)
	processed = append(processed, dataRows...)
	if len(processed) <= 1 {
		return nil, false
	}

	processed = removeHeaderOnlyColumns(processed)
	if len(processed) == 0 || len(processed[0]) == 0 {
		return nil, false
	}

	if len(processed[0]) < 2 || len(processed) <= 1 {
		return nil, false
	}

	if columnSparse(processed) {
		return nil, false
	}
	if tooSparseOverall(processed) {
		return nil, false
	}
	if hasContentAsymmetry(processed) {
		return nil, false
	}

	normalizeHeader(processed[0])
	for _, row := range processed[1:] {
		for i, cell := range row {
			row[i] = normalizeDataCell(cell)
		}
	}

	return processed, true
}

func stripEmptyRows(grid [][]string) [][]string {
	var out [][]string
	for _, row := range grid {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// isProse rejects grids where non-empty cells skew long: either more
// than half exceed 60 characters, or the average exceeds 50 — both
// signs of flowing prose captured as pseudo-columns rather than real
// table data.
func isProse(rows [][]string) bool {
	nonEmpty, longCells, totalChars := 0, 0, 0
	for _, row := range rows {
		for _, cell := range row {
			trimmed := strings.TrimSpace(cell)
			if trimmed == "" {
				continue
			}
			n := len([]rune(trimmed))
			nonEmpty++
			totalChars += n
			if n > 60 {
				longCells++
			}
		}
	}
	if nonEmpty == 0 {
		return false
	}
	if longCells*2 > nonEmpty {
		return true
	}
	return totalChars/nonEmpty > 50
}

// findDataStart returns the index of the first row with at least 3
// cells containing a digit — the heuristic boundary between header
// rows and data rows.
func findDataStart(rows [][]string) int {
	for idx, row := range rows {
		digitCells := 0
		for _, cell := range row {
			if containsDigit(cell) {
				digitCells++
			}
		}
		if digitCells >= 3 {
			return idx
		}
	}
	return 0
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func mergeHeaderRows(headerRows [][]string, columnCount int) []string {
	header := make([]string, columnCount)
	for _, row := range headerRows {
		for idx, cell := range row {
			if idx >= columnCount {
				continue
			}
			trimmed := strings.TrimSpace(cell)
			if trimmed == "" {
				continue
			}
			if header[idx] != "" {
				header[idx] += " "
			}
			header[idx] += trimmed
		}
	}
	return header
}

// removeHeaderOnlyColumns drops or merges columns whose data cells are
// all empty but whose header carries text, walking left to right since
// each removal shifts subsequent column indices.
func removeHeaderOnlyColumns(processed [][]string) [][]string {
	col := 0
	for col < len(processed[0]) {
		headerText := strings.TrimSpace(processed[0][col])
		dataEmpty := true
		for _, row := range processed[1:] {
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				dataEmpty = false
				break
			}
		}
		if dataEmpty {
			processed = mergeHeaderOnlyColumn(processed, col, headerText)
			if len(processed) == 0 || len(processed[0]) == 0 {
				return processed
			}
			continue
		}
		col++
	}
	return processed
}

func mergeHeaderOnlyColumn(table [][]string, col int, headerText string) [][]string {
	if len(table) == 0 || len(table[0]) == 0 {
		return table
	}
	trimmed := strings.TrimSpace(headerText)

	if trimmed == "" {
		return removeColumn(table, col)
	}

	if col > 0 {
		target := col - 1
		for target > 0 && strings.TrimSpace(table[0][target]) == "" {
			target--
		}
		if strings.TrimSpace(table[0][target]) != "" || target == 0 {
			if table[0][target] != "" {
				table[0][target] += " "
			}
			table[0][target] += trimmed
			return removeColumn(table, col)
		}
	}

	if col+1 < len(table[0]) {
		if strings.TrimSpace(table[0][col+1]) == "" {
			table[0][col+1] = trimmed
		} else {
			table[0][col+1] = trimmed + " " + strings.TrimSpace(table[0][col+1])
		}
		return removeColumn(table, col)
	}

	return removeColumn(table, col)
}

func removeColumn(table [][]string, col int) [][]string {
	for i, row := range table {
		if col >= len(row) {
			continue
		}
		table[i] = append(row[:col], row[col+1:]...)
	}
	return table
}

func columnSparse(processed [][]string) bool {
	dataRowCount := len(processed) - 1
	if dataRowCount == 0 {
		return false
	}
	for c := range processed[0] {
		emptyCount := 0
		for _, row := range processed[1:] {
			if c >= len(row) || strings.TrimSpace(row[c]) == "" {
				emptyCount++
			}
		}
		if emptyCount*4 > dataRowCount*3 {
			return true
		}
	}
	return false
}

func tooSparseOverall(processed [][]string) bool {
	dataRowCount := len(processed) - 1
	totalCells := dataRowCount * len(processed[0])
	if totalCells == 0 {
		return false
	}
	filled := 0
	for _, row := range processed[1:] {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				filled++
			}
		}
	}
	return filled*5 < totalCells*2
}

func hasContentAsymmetry(processed [][]string) bool {
	dataRowCount := len(processed) - 1
	if dataRowCount == 0 {
		return false
	}
	numCols := len(processed[0])
	colCharCounts := make([]int, numCols)
	total := 0
	for c := 0; c < numCols; c++ {
		for _, row := range processed[1:] {
			if c < len(row) {
				colCharCounts[c] += len(strings.TrimSpace(row[c]))
			}
		}
		total += colCharCounts[c]
	}
	if total == 0 {
		return false
	}
	for c, count := range colCharCounts {
		charShare := float64(count) / float64(total)
		emptyInCol := 0
		for _, row := range processed[1:] {
			if c >= len(row) || strings.TrimSpace(row[c]) == "" {
				emptyInCol++
			}
		}
		emptyRatio := float64(emptyInCol) / float64(dataRowCount)
		if charShare < 0.15 && emptyRatio > 0.5 {
			return true
		}
	}
	return false
}

func normalizeHeader(header []string) {
	for i, cell := range header {
		header[i] = strings.ReplaceAll(strings.TrimSpace(cell), "  ", " ")
	}
}

func normalizeDataCell(cell string) string {
	text := strings.TrimSpace(cell)
	if text == "" {
		return ""
	}

	for _, dash := range []string{"—", "–", "−"} {
		text = strings.ReplaceAll(text, dash, "-")
	}

	if strings.HasPrefix(text, "- ") {
		text = "-" + strings.TrimLeft(text[2:], " ")
	}
	text = strings.ReplaceAll(text, "- ", "-")
	text = strings.ReplaceAll(text, " -", "-")
	text = strings.ReplaceAll(text, "E-", "e-")
	text = strings.ReplaceAll(text, "E+", "e+")

	if text == "-" {
		return ""
	}
	return text
}
