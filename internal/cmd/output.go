package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Josh-Grafman/boatrental/internal/boat"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// printTable writes rows under headers as a bordered table.
func printTable(out io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(out, t.String())
}

// printJSON writes v as indented JSON.
func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var boatHeaders = []string{"ID", "Name", "Type", "Price", "Length", "Year", "Owner"}

func boatRow(b boat.Boat) []string {
	year := ""
	if b.Year != 0 {
		year = strconv.Itoa(b.Year)
	}
	return []string{b.ID, b.Name, b.TypeName, boat.FormatPrice(b.Price), boat.FormatLength(b.Length), year, b.OwnerName}
}

// printBoats writes boats as a table, or a short message when there are none.
func printBoats(out io.Writer, boats []boat.Boat) {
	if len(boats) == 0 {
		fmt.Fprintln(out, "No boats found.")
		return
	}
	rows := make([][]string, 0, len(boats))
	for _, b := range boats {
		rows = append(rows, boatRow(b))
	}
	printTable(out, boatHeaders, rows)
}
