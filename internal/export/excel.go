package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resto/internal/domain"
	"resto/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Exporter writes daily Excel reports: the reservation book for the day
// and the settled orders with their totals.
type Exporter struct {
	repo   domain.Repository
	dir    string
	logger *zerolog.Logger
}

func NewExporter(repo domain.Repository, dir string, logger *zerolog.Logger) *Exporter {
	return &Exporter{repo: repo, dir: dir, logger: logger}
}

// DailyReport builds the report for one day and returns the file path.
func (e *Exporter) DailyReport(ctx context.Context, date time.Time) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	reservations, err := e.repo.GetReservationsByDate(ctx, date)
	if err != nil {
		return "", fmt.Errorf("error getting reservations: %v", err)
	}

	// The range bounds are inclusive calendar dates.
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	orders, err := e.repo.GetOrdersByDateRange(ctx, dayStart, dayStart)
	if err != nil {
		return "", fmt.Errorf("error getting orders: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeReservationsSheet(f, date, reservations); err != nil {
		return "", err
	}
	if err := e.writeOrdersSheet(f, orders); err != nil {
		return "", err
	}
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("daily_report_%s.xlsx", date.Format("2006-01-02"))
	filePath := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel report created")
	return filePath, nil
}

func (e *Exporter) writeReservationsSheet(f *excelize.File, date time.Time, reservations []*models.Reservation) error {
	const sheet = "Reservations"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Reservations for %s", date.Format("02.01.2006")))
	_ = f.MergeCell(sheet, "A1", "G1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	headers := []string{"ID", "Table", "Client", "Phone", "From", "To", "Status"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, r := range reservations {
		row := i + 3
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.TableID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.ClientName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.ClientPhone)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.StartTime.Format("15:04"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.EndTime.Format("15:04"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), string(r.Status))
	}

	_ = f.SetColWidth(sheet, "A", "B", 8)
	_ = f.SetColWidth(sheet, "C", "D", 20)
	_ = f.SetColWidth(sheet, "E", "G", 12)
	return nil
}

func (e *Exporter) writeOrdersSheet(f *excelize.File, orders []*models.Order) error {
	const sheet = "Orders"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}

	headers := []string{"ID", "Table", "Opened", "Closed", "Status", "Items", "Total"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	var revenue float64
	for i, o := range orders {
		row := i + 2
		closed := ""
		if o.ClosedTime != nil {
			closed = o.ClosedTime.Format("15:04")
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), o.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), o.TableID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), o.CreatedTime.Format("15:04"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), closed)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), string(o.Status))
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), len(o.Items))
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), o.TotalAmount())

		if o.Status == models.OrderPaid {
			revenue += o.TotalAmount()
		}
	}

	totalRow := len(orders) + 3
	_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", totalRow), "Revenue (paid)")
	_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", totalRow), revenue)
	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheet, fmt.Sprintf("F%d", totalRow), fmt.Sprintf("G%d", totalRow), boldStyle)

	_ = f.SetColWidth(sheet, "A", "B", 8)
	_ = f.SetColWidth(sheet, "C", "E", 12)
	_ = f.SetColWidth(sheet, "F", "G", 15)
	return nil
}
