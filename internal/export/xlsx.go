package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gorushbn/pharmacydash/internal/model"
)

const packingListSheet = "Packing List"

var packingListHeaders = []string{
	"TRACKING NO. #", "NAME", "DRY MEDICINE", "FRIDGE STICKER", "FRIDGE ITEM",
	"REMARKS (CUSTOMER)", "AREA", "BRUHIMS#", "TRACKING #", "PHONE #",
	"DELIVERY TYPE", "REMARKS (INTERNAL)",
}

// PackingListXLSX renders the warehouse packing list from a frozen manifest
// snapshot. The sheet layout (title merge, header row, footer block) mirrors
// the printed form the packers work from.
func PackingListXLSX(p model.PreviewData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), packingListSheet); err != nil {
		return nil, err
	}

	// title spans C1:H3 above the table
	if err := f.MergeCell(packingListSheet, "C1", "H3"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(packingListSheet, "C1", "GO RUSH ORDER / PACKING LIST"); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(packingListSheet, "C1", "H3", titleStyle); err != nil {
		return nil, err
	}

	if err := f.MergeCell(packingListSheet, "A3", "B3"); err != nil {
		return nil, err
	}
	if err := f.MergeCell(packingListSheet, "K3", "L3"); err != nil {
		return nil, err
	}
	setCells(f, map[string]any{
		"A3": "DATE:",
		"B3": p.Meta.FormDate,
		"K3": "PREPARED BY:",
	})

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	headerRow := 4
	for i, h := range packingListHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(packingListSheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(packingListSheet, cell, cell, boldStyle); err != nil {
			return nil, err
		}
	}

	for i, row := range p.Rows {
		raw := row.RawData
		values := []any{
			row.Number,
			raw.ReceiverName,
			"", // dry medicine, filled by the packer
			"", // fridge sticker
			"", // fridge item
			raw.Remarks,
			raw.Area,
			raw.PatientNumber,
			raw.DOTrackingNumber,
			raw.ReceiverPhoneNumber,
			raw.JobMethod,
			raw.InternalRemarks,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, headerRow+1+i)
			if err := f.SetCellValue(packingListSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	footerRow := headerRow + len(p.Rows) + 2
	setCells(f, map[string]any{
		fmt.Sprintf("A%d", footerRow):   "COLLECTION DATE:",
		fmt.Sprintf("B%d", footerRow):   p.Summary.CollectionDate,
		fmt.Sprintf("A%d", footerRow+1): "RECEIVED BY (DRIVER):",
		fmt.Sprintf("A%d", footerRow+2): "PHARMACY:",
		fmt.Sprintf("B%d", footerRow+2): p.Summary.Pharmacy,
	})

	if err := f.SetColWidth(packingListSheet, "A", "L", 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setCells(f *excelize.File, cells map[string]any) {
	for cell, v := range cells {
		// SetCellValue only errors on bad coordinates, which are fixed here
		_ = f.SetCellValue(packingListSheet, cell, v)
	}
}

// PackingListFileName - "Packing_List_{batch}.xlsx" with the batch label's
// spaces flattened.
func PackingListFileName(p model.PreviewData) string {
	batch := p.Summary.Batch
	if batch == "" {
		batch = p.Meta.FormDate
	}
	safe := make([]rune, 0, len(batch))
	for _, r := range batch {
		if r == ' ' || r == '/' {
			r = '_'
		}
		safe = append(safe, r)
	}
	return fmt.Sprintf("Packing_List_%s.xlsx", string(safe))
}
