package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/stemsi/classgrid-backend/internal/model"
)

// XLSXContentType is the MIME type of exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]+`)

// ExportService renders section timetables as spreadsheets.
type ExportService struct {
	schedule *ScheduleService
	sections *SectionService
	dir      string
	log      zerolog.Logger
}

func NewExportService(schedule *ScheduleService, sections *SectionService, dir string, log zerolog.Logger) *ExportService {
	return &ExportService{
		schedule: schedule,
		sections: sections,
		dir:      dir,
		log:      log.With().Str("component", "export_service").Logger(),
	}
}

// Section returns the workbook of one section and a download file name.
func (s *ExportService) Section(sectionID int) ([]byte, string, error) {
	week, err := s.schedule.Week(sectionID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(week.Section)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, "", err
	}
	if err := writeWeek(f, sheet, week); err != nil {
		return nil, "", fmt.Errorf("write section %d: %w", sectionID, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("encode workbook: %w", err)
	}
	name := fmt.Sprintf("schedule-%s.xlsx", strings.ToLower(unsafeName.ReplaceAllString(sheet, "-")))
	return buf.Bytes(), name, nil
}

// Archive writes one workbook with a sheet per section into the export directory.
func (s *ExportService) Archive(ctx context.Context, now time.Time) (string, error) {
	sections := s.sections.List(model.AllGrades)
	if len(sections) == 0 {
		s.log.Info().Msg("no sections to archive")
		return "", nil
	}

	f := excelize.NewFile()
	defer f.Close()
	first := f.GetSheetName(0)

	for i, sec := range sections {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		week, err := s.schedule.Week(sec.ID)
		if err != nil {
			return "", err
		}
		sheet, err := uniqueSheetName(f, sheetName(sec), sec.ID)
		if err != nil {
			return "", err
		}
		if i == 0 {
			err = f.SetSheetName(first, sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			return "", fmt.Errorf("sheet %q: %w", sheet, err)
		}
		if err := writeWeek(f, sheet, week); err != nil {
			return "", fmt.Errorf("write section %d: %w", sec.ID, err)
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("schedule-%s.xlsx", now.Format("2006-01-02")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}

	s.log.Info().Str("path", path).Int("sections", len(sections)).Msg("schedule archived")
	return path, nil
}

const maxSheetName = 31

// sheetName is "G9 Section A", cut to the 31 characters a sheet name allows.
func sheetName(sec model.Section) string {
	name := fmt.Sprintf("G%s %s", sec.GradeLevel, unsafeName.ReplaceAllString(sec.Name, " "))
	name = strings.TrimSpace(name)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

// uniqueSheetName returns name, or name suffixed with the section id when the
// workbook already has a sheet of that name. Excel compares sheet names case-insensitively.
func uniqueSheetName(f *excelize.File, name string, sectionID int) (string, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return "", err
	}
	if idx == -1 {
		return name, nil
	}
	suffix := fmt.Sprintf(" #%d", sectionID)
	base := name
	if len(base)+len(suffix) > maxSheetName {
		base = strings.TrimSpace(base[:maxSheetName-len(suffix)])
	}
	return base + suffix, nil
}

// writeWeek lays the week out as a slot × day table. A class spanning several
// slots is merged into one vertical cell.
func writeWeek(f *excelize.File, sheet string, week *WeekView) error {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	class, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border: []excelize.Border{
			{Type: "left", Color: "8EA9DB", Style: 1},
			{Type: "right", Color: "8EA9DB", Style: 1},
			{Type: "top", Color: "8EA9DB", Style: 1},
			{Type: "bottom", Color: "8EA9DB", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellValue(sheet, "A1", "Time"); err != nil {
		return err
	}
	for i, d := range week.Days {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		if err := f.SetCellValue(sheet, cell, string(d)); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(week.Days) + 1)
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", header); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 22); err != nil {
		return err
	}

	for r, row := range week.Rows {
		excelRow := r + 2
		timeCell, _ := excelize.CoordinatesToCellName(1, excelRow)
		if err := f.SetCellValue(sheet, timeCell, row.Slot.String()); err != nil {
			return err
		}
		for c, cell := range row.Cells {
			if cell.Class == nil {
				continue
			}
			top, _ := excelize.CoordinatesToCellName(c+2, excelRow)
			text := fmt.Sprintf("%s\n%s\n%s", cell.Class.SubjectName, cell.Class.TeacherName, cell.Class.Room)
			if err := f.SetCellValue(sheet, top, text); err != nil {
				return err
			}
			bottom, _ := excelize.CoordinatesToCellName(c+2, excelRow+slotSpan(cell.Class.DurationMinutes)-1)
			if bottom != top {
				if err := f.MergeCell(sheet, top, bottom); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(sheet, top, bottom, class); err != nil {
				return err
			}
		}
	}
	return nil
}

// slotSpan is the number of grid rows a class of the given length occupies.
func slotSpan(minutes int) int {
	return max(1, (minutes+model.SlotMinutes-1)/model.SlotMinutes)
}
