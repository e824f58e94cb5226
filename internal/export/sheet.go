package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Extracted Text"

// excelCellLimit is the maximum number of characters a cell holds.
const excelCellLimit = 32767

// Spreadsheet writes each line of text to its own row in column A. A line
// longer than one cell can hold continues on the rows below it.
func (e *Engine) Spreadsheet(text string) (Artifact, error) {
	if err := requireText(text); err != nil {
		return Artifact{}, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return Artifact{}, fmt.Errorf("xlsx sheet: %w", err)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	row := 0
	for _, line := range strings.Split(text, "\n") {
		for _, chunk := range cellChunks(line) {
			row++
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return Artifact{}, fmt.Errorf("xlsx cell: %w", err)
			}
			if err := f.SetCellStr(sheetName, cell, chunk); err != nil {
				return Artifact{}, fmt.Errorf("xlsx write %s: %w", cell, err)
			}
		}
	}
	if err := f.SetColWidth(sheetName, "A", "A", 100); err != nil {
		return Artifact{}, fmt.Errorf("xlsx column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Artifact{}, fmt.Errorf("xlsx write: %w", err)
	}
	return Artifact{Filename: SpreadsheetFilename, MIMEType: SpreadsheetMIME, Data: buf.Bytes()}, nil
}

// cellChunks splits line into pieces of at most excelCellLimit runes. An
// empty line yields one empty chunk so blank lines keep their row.
func cellChunks(line string) []string {
	runes := []rune(line)
	if len(runes) <= excelCellLimit {
		return []string{line}
	}
	var chunks []string
	for len(runes) > excelCellLimit {
		chunks = append(chunks, string(runes[:excelCellLimit]))
		runes = runes[excelCellLimit:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
