package execution

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX, "excel":
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// Export is a rendered result ready to be sent as an attachment.
type Export struct {
	Data        []byte
	Filename    string
	ContentType string
}

const cellTimeLayout = "2006-01-02 15:04:05"

// Render writes result in the requested format. name prefixes the file name.
func Render(result *Result, format Format, name string, at time.Time) (*Export, error) {
	base := fmt.Sprintf("%s_report_%s", slug(name), at.Format("20060102_150405"))
	switch format {
	case FormatCSV:
		data, err := renderCSV(result)
		if err != nil {
			return nil, err
		}
		return &Export{Data: data, Filename: base + ".csv", ContentType: "text/csv"}, nil
	case FormatXLSX:
		data, err := renderXLSX(result)
		if err != nil {
			return nil, err
		}
		return &Export{
			Data:        data,
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}, nil
	}
	return nil, fmt.Errorf("unsupported export format: %s", format)
}

func renderCSV(result *Result) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(result.Columns); err != nil {
		return nil, err
	}
	for _, row := range result.Rows {
		record := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			v, _ := row.Get(col)
			record[i] = cellText(v)
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(result *Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Report"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, col := range result.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range result.Rows {
		for colIdx, col := range result.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			v, _ := row.Get(col)
			switch tv := v.(type) {
			case nil:
				continue
			case time.Time:
				v = tv.Format(cellTimeLayout)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	for i := range result.Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(cellTimeLayout)
	}
	return fmt.Sprint(v)
}

func slug(name string) string {
	s := strings.Join(strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}), "_")
	if s == "" {
		return "report"
	}
	return s
}
