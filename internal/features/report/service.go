package report

import (
	"context"
	"fmt"
	"time"

	"go-docdist/internal/features/department"
	"go-docdist/internal/features/distribution"
	"go-docdist/internal/features/disttype"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportService interface {
	// TransmittalExcel renders the transmittal sheet for one distribution:
	// header block with the routing details, then one row per document with
	// both verification outcomes.
	TransmittalExcel(ctx context.Context, distributionID primitive.ObjectID) ([]byte, string, error)
}

type ReportServiceImpl struct {
	Distributions distribution.DistributionService
	Departments   department.DepartmentService
	Types         disttype.TypeService
}

func NewReportService(
	distributions distribution.DistributionService,
	departments department.DepartmentService,
	types disttype.TypeService,
) ReportService {
	return &ReportServiceImpl{
		Distributions: distributions,
		Departments:   departments,
		Types:         types,
	}
}

func (s *ReportServiceImpl) TransmittalExcel(ctx context.Context, distributionID primitive.ObjectID) ([]byte, string, error) {
	dist, docs, err := s.Distributions.Get(ctx, distributionID)
	if err != nil {
		return nil, "", err
	}

	originName := s.departmentName(ctx, dist.OriginDepartmentID)
	destName := s.departmentName(ctx, dist.DestinationDepartmentID)
	typeName := s.typeName(ctx, dist.TypeID)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Transmittal"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	labelStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	f.SetCellValue(sheetName, "A1", "Document Transmittal")
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	header := []struct {
		label string
		value string
	}{
		{"Number", dist.Number},
		{"Type", typeName},
		{"From", originName},
		{"To", destName},
		{"Status", string(dist.Status)},
		{"Created", dist.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	for i, h := range header {
		row := i + 3
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), h.label)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), h.value)
	}

	tableStart := len(header) + 4
	columns := []string{"#", "Document Kind", "Document ID", "Sender Status", "Sender Notes", "Receiver Status", "Receiver Notes"}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableStart)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, doc := range docs {
		row := tableStart + rowIdx + 1
		values := []any{
			rowIdx + 1,
			string(doc.DocumentKind),
			doc.DocumentID.Hex(),
			verificationCell(doc.SenderVerified, doc.SenderStatus),
			doc.SenderNotes,
			verificationCell(doc.ReceiverVerified, doc.ReceiverStatus),
			doc.ReceiverNotes,
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 20)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("transmittal_%s_%s.xlsx",
		sanitizeFilename(dist.Number),
		time.Now().Format("20060102_150405"),
	)
	return buffer.Bytes(), filename, nil
}

func verificationCell(verified bool, status distribution.VerificationStatus) string {
	if !verified {
		return "pending"
	}
	return string(status)
}

// sanitizeFilename replaces the slashes a distribution number carries.
func sanitizeFilename(number string) string {
	out := make([]rune, 0, len(number))
	for _, r := range number {
		if r == '/' || r == '\\' {
			out = append(out, '-')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func (s *ReportServiceImpl) departmentName(ctx context.Context, id primitive.ObjectID) string {
	dept, err := s.Departments.GetByID(ctx, id)
	if err != nil || dept == nil {
		return id.Hex()
	}
	return dept.Name
}

func (s *ReportServiceImpl) typeName(ctx context.Context, id primitive.ObjectID) string {
	dt, err := s.Types.GetByID(ctx, id)
	if err != nil || dt == nil {
		return id.Hex()
	}
	return dt.Name
}
