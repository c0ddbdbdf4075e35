package main

import (
	"strings"
	"testing"
)

func TestParseCSVWithHeader(t *testing.T) {
	csv := "y,a,b\n1.0,2.0,3.0\n4.0,5.0,6.0\n"
	d, err := parseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if d.RowLength != 2 {
		t.Fatalf("expected RowLength=2, got %d", d.RowLength)
	}
	if len(d.Y) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(d.Y))
	}
	if d.VarNames[0] != "a" || d.VarNames[1] != "b" {
		t.Errorf("expected header names [a b], got %v", d.VarNames)
	}
	if d.Y[0] != 1.0 || d.X[0] != 2.0 {
		t.Errorf("expected first row y=1.0 x=[2.0 3.0], got y=%v x=%v", d.Y[0], d.X[:2])
	}
}

func TestParseCSVWithoutHeader(t *testing.T) {
	csv := "1.0,2.0,3.0\n4.0,5.0,6.0\n"
	d, err := parseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Y) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(d.Y))
	}
	if d.VarNames[0] != "X1" || d.VarNames[1] != "X2" {
		t.Errorf("expected synthesized names [X1 X2], got %v", d.VarNames)
	}
}

func TestParseCSVRejectsMalformedFloat(t *testing.T) {
	csv := "y,a\n1.0,not_a_number\n"
	if _, err := parseCSV(strings.NewReader(csv)); err == nil {
		t.Error("expected an error for a malformed feature value")
	}
}
