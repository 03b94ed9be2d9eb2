package store

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/agilemorph/firewatch/internal/model"
)

// xlsxColumns defines the ordered spreadsheet output columns.
var xlsxColumns = []string{
	"tweet_id",
	"title",
	"content",
	"published_date",
	"url",
	"source",
	"fire_related_score",
	"state",
	"county",
	"verification_result",
	"verified_at",
}

// WriteXLSX mirrors the incident collection to a spreadsheet for human
// consumption: auto-sized columns and clickable URL cells. The file is
// rewritten whole; the JSON/sqlite store remains the durable record.
func WriteXLSX(path string, records []model.Incident) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Verified Incidents")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range xlsxColumns {
		header.AddCell().Value = col
	}

	for _, inc := range records {
		row := sheet.AddRow()
		row.AddCell().Value = inc.TweetID
		row.AddCell().Value = inc.Title
		row.AddCell().Value = inc.Content
		row.AddCell().Value = inc.PublishedDate

		urlCell := row.AddCell()
		urlCell.Value = inc.URL
		if strings.HasPrefix(inc.URL, "http") {
			urlCell.SetFormula(fmt.Sprintf("HYPERLINK(%q)", inc.URL))
		}

		row.AddCell().Value = inc.Source
		row.AddCell().SetInt(inc.FireRelatedScore)
		row.AddCell().Value = inc.State
		row.AddCell().Value = inc.County
		row.AddCell().Value = inc.VerificationResult
		row.AddCell().Value = inc.VerifiedAt
	}

	autosizeColumns(sheet)

	return eris.Wrap(file.Save(path), "xlsx: save")
}

// ReadXLSX loads incidents back from a spreadsheet written by WriteXLSX.
// Used by the output cleanup command.
func ReadXLSX(path string) ([]model.Incident, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(file.Sheets) == 0 {
		return nil, eris.New("xlsx: no sheets")
	}

	sheet := file.Sheets[0]
	var records []model.Incident
	for i, row := range sheet.Rows {
		if i == 0 {
			continue // header
		}
		cells := row.Cells
		if len(cells) < len(xlsxColumns) {
			continue
		}
		score, _ := cells[6].Int()
		records = append(records, model.Incident{
			TweetID:            cells[0].String(),
			Title:              cells[1].String(),
			Content:            cells[2].String(),
			PublishedDate:      cells[3].String(),
			URL:                cells[4].String(),
			Source:             cells[5].String(),
			FireRelatedScore:   score,
			State:              cells[7].String(),
			County:             cells[8].String(),
			VerificationResult: cells[9].String(),
			VerifiedAt:         cells[10].String(),
		})
	}
	return records, nil
}

// autosizeColumns widens each column to fit its longest value, clamped to
// a readable range.
func autosizeColumns(sheet *xlsx.Sheet) {
	widths := make([]int, len(xlsxColumns))
	for _, row := range sheet.Rows {
		for i, cell := range row.Cells {
			if i >= len(widths) {
				break
			}
			if n := len(cell.String()); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i, w := range widths {
		width := float64(w + 2)
		if width < 15 {
			width = 15
		}
		if width > 60 {
			width = 60
		}
		sheet.SetColWidth(i, i, width)
	}
}
