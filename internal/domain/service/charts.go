package service

import (
	"VolDash/internal/domain/models"
)

// ImageRenderer draws a chart specification as an image.
type ImageRenderer interface {
	PNG(spec *models.ChartSpec, width, height int) ([]byte, error)
}

// SheetSection is one table's worth of selected rows.
type SheetSection struct {
	Table   models.TableName
	Columns []string
	Rows    []models.Record
}

// Exporter writes selected rows as a downloadable workbook.
type Exporter interface {
	Workbook(sections []SheetSection) ([]byte, error)
}
