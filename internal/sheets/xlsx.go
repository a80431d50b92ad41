package sheets

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/rostersync/internal/roster"
)

// WriteXLSX writes the export to a local workbook with the same layout as
// ExportToSheet. Acuity and status colors are applied as static cell styles
// since the values are known at write time.
func WriteXLSX(w io.Writer, req ExportRequest) (int, error) {
	if err := req.Mapping.Validate(); err != nil {
		return 0, err
	}
	tab := req.Tab
	if tab == "" {
		tab = "Roster"
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", tab); err != nil {
		return 0, fmt.Errorf("name worksheet: %w", err)
	}

	layout := BuildLayout(req.Records, req.Mapping)
	for i, row := range layout.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return 0, err
		}
		if err := f.SetSheetRow(tab, cell, &row); err != nil {
			return 0, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if layout.Columns > 0 {
		st := &xlsxStyles{f: f, cache: make(map[string]int)}
		if err := st.apply(tab, layout, req); err != nil {
			return 0, err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	return layout.DataRows(), nil
}

type xlsxStyles struct {
	f     *excelize.File
	cache map[string]int
}

func (s *xlsxStyles) style(bg, fg RGB, bold bool) (int, error) {
	key := fmt.Sprintf("%s/%s/%t", bg.Hex(), fg.Hex(), bold)
	if id, ok := s.cache[key]; ok {
		return id, nil
	}
	border := strings.TrimPrefix(borderColor.Hex(), "#")
	id, err := s.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(bg.Hex(), "#")}},
		Font: &excelize.Font{Bold: bold, Color: strings.TrimPrefix(fg.Hex(), "#")},
		Border: []excelize.Border{
			{Type: "left", Color: border, Style: 1},
			{Type: "right", Color: border, Style: 1},
			{Type: "top", Color: border, Style: 1},
			{Type: "bottom", Color: border, Style: 1},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	s.cache[key] = id
	return id, nil
}

func (s *xlsxStyles) set(tab string, col, row int, id int) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	return s.f.SetCellStyle(tab, cell, cell, id)
}

func (s *xlsxStyles) apply(tab string, l *Layout, req ExportRequest) error {
	black := RGB{}

	header, err := s.f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(headerColors.Background.Hex(), "#")}},
		Font:      &excelize.Font{Bold: true, Color: strings.TrimPrefix(headerColors.Foreground.Hex(), "#")},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(l.Columns, 1)
	if err := s.f.SetCellStyle(tab, "A1", last, header); err != nil {
		return err
	}

	if err := s.f.SetPanes(tab, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	acuityCol, hasAcuity := l.Index[roster.FieldAcuity]
	statusCol, hasStatus := l.Index[roster.FieldStatus]
	physCol, hasPhys := l.Index[roster.FieldAttendingPhysician]

	for i, r := range req.Records {
		row := i + 1
		bg := White
		doctor, tinted := req.DoctorColors.Lookup(r.AttendingPhysician)
		if tinted {
			bg = Tint(doctor)
		}

		for col := 0; col < l.Columns; col++ {
			cellBG, cellFG, bold := bg, black, false
			switch {
			case hasAcuity && col == acuityCol:
				if p, ok := AcuityColors[r.Acuity]; ok {
					cellBG, cellFG = p.Background, p.Foreground
				}
			case hasStatus && col == statusCol:
				if p, ok := StatusColors[strings.ToLower(r.Status)]; ok {
					cellBG, cellFG = p.Background, p.Foreground
				}
			case tinted && hasPhys && col == physCol:
				cellFG, bold = doctor, true
			}

			id, err := s.style(cellBG, cellFG, bold)
			if err != nil {
				return err
			}
			if err := s.set(tab, col, row, id); err != nil {
				return err
			}
		}
	}

	for col := 0; col < l.Columns; col++ {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := s.f.SetColWidth(tab, name, name, columnWidth(l, col)); err != nil {
			return err
		}
	}
	return nil
}

// columnWidth approximates auto-resize from the longest rendered value.
func columnWidth(l *Layout, col int) float64 {
	width := 8
	for _, row := range l.Rows {
		if n := len(fmt.Sprint(row[col])) + 2; n > width {
			width = n
		}
	}
	return float64(min(width, 60))
}
