package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alejandrodnm/oreplan/internal/domain"
)

// ReadCSV lee el formato tabular de yields:
//
//	typeName,typeId,volume,Tritanium (34),Pyerite (35),...
//
// Las columnas de mineral se reconocen por el " (" del nombre. Los yields
// del CSV son por unidad.
func ReadCSV(r io.Reader) ([]domain.Ore, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog.ReadCSV: header: %w", err)
	}

	nameCol, idCol, volCol := -1, -1, -1
	minerals := make(map[int]domain.Mineral)
	for i, h := range header {
		switch h {
		case "typeName":
			nameCol = i
		case "typeId":
			idCol = i
		case "volume":
			volCol = i
		default:
			base, _, ok := strings.Cut(h, " (")
			if !ok {
				continue
			}
			m, err := domain.ParseMineral(base)
			if err != nil {
				return nil, fmt.Errorf("catalog.ReadCSV: column %q: %w", h, err)
			}
			minerals[i] = m
		}
	}
	if nameCol < 0 || idCol < 0 || volCol < 0 {
		return nil, fmt.Errorf("catalog.ReadCSV: header needs typeName, typeId and volume, got %v", header)
	}

	var ores []domain.Ore
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog.ReadCSV: line %d: %w", line, err)
		}

		id, err := strconv.Atoi(row[idCol])
		if err != nil {
			return nil, fmt.Errorf("catalog.ReadCSV: line %d: typeId: %w", line, err)
		}
		vol, err := strconv.ParseFloat(row[volCol], 64)
		if err != nil {
			return nil, fmt.Errorf("catalog.ReadCSV: line %d: volume: %w", line, err)
		}
		ore := domain.Ore{TypeID: id, Name: row[nameCol], Volume: vol}
		for col, m := range minerals {
			if row[col] == "" {
				continue
			}
			q, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, fmt.Errorf("catalog.ReadCSV: line %d: %s: %w", line, m, err)
			}
			ore.Yield[m] = q
		}
		ores = append(ores, ore)
	}
	return ores, nil
}

// LoadCSV lee un catálogo CSV desde disco.
func LoadCSV(path string) ([]domain.Ore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadCSV: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}
