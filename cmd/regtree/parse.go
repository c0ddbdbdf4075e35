package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// parsedInput holds a CSV dataset parsed into the row-major dense form
// the tree/forest packages expect: X has len(Y)*RowLength entries, target
// in column 0.
type parsedInput struct {
	X         []float64
	Y         []float64
	RowLength int
	VarNames  []string
}

// parseCSV reads a CSV file with the target in column 0 and features in
// the remaining columns. The first row is treated as a header of
// variable names if none of its non-target values parses as a float;
// otherwise X1..Xn are synthesized.
func parseCSV(r io.Reader) (*parsedInput, error) {
	reader := csv.NewReader(r)

	p := &parsedInput{}

	row, err := reader.Read()
	if err != nil {
		return p, err
	}

	if names, herr := parseHeader(row); herr == nil {
		p.VarNames = names
	} else {
		for i := range row[1:] {
			p.VarNames = append(p.VarNames, fmt.Sprintf("X%d", i+1))
		}
		if err := p.parseRow(row); err != nil {
			return p, err
		}
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return p, err
		}
		if err := p.parseRow(row); err != nil {
			return p, err
		}
	}

	p.RowLength = len(p.VarNames)
	return p, nil
}

func (p *parsedInput) parseRow(row []string) error {
	xi, err := parseFeatureVals(row)
	if err != nil {
		return err
	}
	yi, err := strconv.ParseFloat(row[0], 64)
	if err != nil {
		return fmt.Errorf("parsing target %q: %w", row[0], err)
	}
	p.X = append(p.X, xi...)
	p.Y = append(p.Y, yi)
	return nil
}

func parseFeatureVals(row []string) ([]float64, error) {
	if len(row) < 1 {
		return nil, errors.New("row has no columns")
	}
	xi := make([]float64, 0, len(row)-1)
	for _, val := range row[1:] {
		fv, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, err
		}
		xi = append(xi, fv)
	}
	return xi, nil
}

func parseHeader(row []string) ([]string, error) {
	var colNames []string
	if len(row) <= 1 {
		return colNames, errors.New("not a header row")
	}
	for _, val := range row[1:] {
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			return nil, errors.New("not a header row")
		}
		colNames = append(colNames, val)
	}
	return colNames, nil
}
