package models

import "fmt"

// ManufacturerColumns is the number of table cells a manufacturer row carries.
const ManufacturerColumns = 7

// ManufacturerHeader is the output header, in table column order.
var ManufacturerHeader = []string{
	"Actor ID/SRN",
	"Version",
	"Role",
	"Name",
	"Abbreviated Name",
	"City",
	"Country",
}

// Manufacturer is one row of the EUDAMED economic operator table
type Manufacturer struct {
	ActorID         string
	Version         string
	Role            string
	Name            string
	AbbreviatedName string
	City            string
	Country         string
}

// ManufacturerFromCells builds a record from the first seven cell texts.
// Cells beyond the seventh are ignored.
func ManufacturerFromCells(cells []string) (Manufacturer, error) {
	if len(cells) < ManufacturerColumns {
		return Manufacturer{}, fmt.Errorf("row has %d cells, need %d", len(cells), ManufacturerColumns)
	}
	return Manufacturer{
		ActorID:         cells[0],
		Version:         cells[1],
		Role:            cells[2],
		Name:            cells[3],
		AbbreviatedName: cells[4],
		City:            cells[5],
		Country:         cells[6],
	}, nil
}

// Values returns the fields in output column order.
func (m Manufacturer) Values() []string {
	return []string{m.ActorID, m.Version, m.Role, m.Name, m.AbbreviatedName, m.City, m.Country}
}
