package sink

import (
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	gserrors "github.com/codeWuws/th-governance-web-sub002/pkg/errors"
	"github.com/codeWuws/th-governance-web-sub002/pkg/grid"
	"github.com/codeWuws/th-governance-web-sub002/pkg/jsonvalue"
)

// DefaultSheetName is the worksheet name used when none is configured.
const DefaultSheetName = "Sheet1"

// XLSXOption configures spreadsheet rendering via [RenderXLSX].
type XLSXOption func(*xlsxRenderer)

type xlsxRenderer struct {
	sheet  string
	freeze bool
	width  float64
}

// WithSheetName names the worksheet. Names are validated with
// [gserrors.ValidateSheetName].
func WithSheetName(name string) XLSXOption { return func(r *xlsxRenderer) { r.sheet = name } }

// WithFrozenHeader keeps the header rows visible while scrolling.
func WithFrozenHeader() XLSXOption { return func(r *xlsxRenderer) { r.freeze = true } }

// WithColumnWidth sets the width of every leaf column.
func WithColumnWidth(w float64) XLSXOption { return func(r *xlsxRenderer) { r.width = w } }

// RenderXLSX writes t as a single-sheet workbook. The header uses merged
// cells for groups and for leaves above the deepest level. Every Head(n)
// span becomes a vertical merge of n cells. Numbers that fit a float64 are
// written as numbers; everything else as the formatter's text.
func RenderXLSX(t grid.Table, f grid.Formatter, opts ...XLSXOption) ([]byte, error) {
	r := xlsxRenderer{sheet: DefaultSheetName}
	for _, opt := range opts {
		opt(&r)
	}
	if err := gserrors.ValidateSheetName(r.sheet); err != nil {
		return nil, err
	}

	wb := excelize.NewFile()
	defer wb.Close()
	if r.sheet != DefaultSheetName {
		if err := wb.SetSheetName(DefaultSheetName, r.sheet); err != nil {
			return nil, err
		}
	}
	sheet := r.sheet

	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F4F4F4"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, err
	}
	mergedStyle, err := wb.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	depth := t.HeaderDepth()
	for _, hr := range HeaderRows(t.Columns) {
		for _, c := range hr {
			top, err := excelize.CoordinatesToCellName(c.Col+1, c.Level+1)
			if err != nil {
				return nil, err
			}
			bottom, err := excelize.CoordinatesToCellName(c.Col+c.ColSpan, c.Level+c.RowSpan)
			if err != nil {
				return nil, err
			}
			if err := wb.SetCellValue(sheet, top, c.Title); err != nil {
				return nil, err
			}
			if top != bottom {
				if err := wb.MergeCell(sheet, top, bottom); err != nil {
					return nil, err
				}
			}
			if err := wb.SetCellStyle(sheet, top, bottom, headerStyle); err != nil {
				return nil, err
			}
		}
	}

	leaves := grid.LeafPaths(t.Columns)
	for i, row := range t.Rows {
		excelRow := depth + i + 1
		for j, path := range leaves {
			span := row.Span(path)
			if span.IsSuppressed() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, excelRow)
			if err != nil {
				return nil, err
			}
			if err := wb.SetCellValue(sheet, cell, xlsxValue(f, row.Cell(path))); err != nil {
				return nil, err
			}
			if span.Rows() > 1 {
				end, err := excelize.CoordinatesToCellName(j+1, excelRow+span.Rows()-1)
				if err != nil {
					return nil, err
				}
				if err := wb.MergeCell(sheet, cell, end); err != nil {
					return nil, err
				}
				if err := wb.SetCellStyle(sheet, cell, end, mergedStyle); err != nil {
					return nil, err
				}
			}
		}
	}

	if r.width > 0 && len(leaves) > 0 {
		last, err := excelize.ColumnNumberToName(len(leaves))
		if err != nil {
			return nil, err
		}
		if err := wb.SetColWidth(sheet, "A", last, r.width); err != nil {
			return nil, err
		}
	}
	if r.freeze && depth > 0 {
		topLeft, _ := excelize.CoordinatesToCellName(1, depth+1)
		if err := wb.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      depth,
			TopLeftCell: topLeft,
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, err
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// xlsxValue returns the value written for c: a float64 for finite numbers
// that survive the conversion, display text otherwise.
func xlsxValue(f grid.Formatter, c grid.Cell) any {
	if !c.Missing && c.Value.Kind() == jsonvalue.KindNumber {
		lit := c.Value.Literal()
		if x, err := strconv.ParseFloat(lit, 64); err == nil && !math.IsInf(x, 0) {
			if strconv.FormatFloat(x, 'f', -1, 64) == lit || strconv.FormatFloat(x, 'g', -1, 64) == lit {
				return x
			}
		}
	}
	return f.Format(c)
}
