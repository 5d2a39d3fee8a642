// Package export writes transcript history to spreadsheet files.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tealeg/xlsx"

	"clipscribe/internal/app/model"
)

// ToExcel writes the transcripts to an xlsx workbook at outputFilePath.
func ToExcel(transcripts []model.Transcript, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcripts")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "Source"
	headerRow.AddCell().Value = "Language"
	headerRow.AddCell().Value = "Lines"
	headerRow.AddCell().Value = "Created At"
	headerRow.AddCell().Value = "Sent Email"
	headerRow.AddCell().Value = "Sent SMS"
	headerRow.AddCell().Value = "Sent WhatsApp"
	headerRow.AddCell().Value = "Transcript"

	for _, t := range transcripts {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(t.ID)
		row.AddCell().Value = t.SourceURL
		row.AddCell().Value = t.Language
		row.AddCell().Value = fmt.Sprint(t.LineCount)
		row.AddCell().Value = t.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = strconv.FormatBool(t.SentEmail)
		row.AddCell().Value = strconv.FormatBool(t.SentSMS)
		row.AddCell().Value = strconv.FormatBool(t.SentWhatsApp)
		row.AddCell().Value = t.Text
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
