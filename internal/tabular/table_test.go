package tabular

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestReadTabDelimited(t *testing.T) {
	t.Parallel()

	input := "gene\tscore\nTP53\t0.9\nEGFR\t0.5\n"
	table, err := Read(strings.NewReader(input), '\t')
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}

	if got := table.Headers(); !reflect.DeepEqual(got, []string{"gene", "score"}) {
		t.Fatalf("unexpected headers: %v", got)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	if got := table.Rows()[1]; !reflect.DeepEqual(got, []string{"EGFR", "0.5"}) {
		t.Fatalf("unexpected row: %v", got)
	}
}

func TestReadRaggedRowIsFormatError(t *testing.T) {
	t.Parallel()

	input := "a,b,c\n1,2,3\n4,5\n"
	_, err := Read(strings.NewReader(input), ',')

	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestColumnMissingIsSchemaError(t *testing.T) {
	t.Parallel()

	table, err := New([]string{"a"}, [][]string{{"1"}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = table.Column("b")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if !reflect.DeepEqual(schemaErr.Missing, []string{"b"}) {
		t.Fatalf("unexpected missing columns: %v", schemaErr.Missing)
	}
}

func TestSelectReordersAndReportsAllGaps(t *testing.T) {
	t.Parallel()

	table, err := New([]string{"a", "b", "c"}, [][]string{{"1", "2", "3"}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	reordered, err := table.Select("c", "a")
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if got := reordered.Headers(); !reflect.DeepEqual(got, []string{"c", "a"}) {
		t.Fatalf("unexpected headers: %v", got)
	}
	if got := reordered.Rows()[0]; !reflect.DeepEqual(got, []string{"3", "1"}) {
		t.Fatalf("unexpected row: %v", got)
	}

	_, err = table.Select("a", "x", "y")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if !reflect.DeepEqual(schemaErr.Missing, []string{"x", "y"}) {
		t.Fatalf("unexpected missing columns: %v", schemaErr.Missing)
	}
}

func TestDropRemovesColumnAndIgnoresAbsent(t *testing.T) {
	t.Parallel()

	table, err := New([]string{"a", "b"}, [][]string{{"1", "2"}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	dropped := table.Drop("a")
	if dropped.HasColumn("a") {
		t.Fatal("column a should be gone")
	}
	if got := dropped.Rows()[0]; !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("unexpected row: %v", got)
	}

	if again := dropped.Drop("a"); again.Len() != 1 {
		t.Fatal("dropping an absent column should be a no-op")
	}
}

func TestInsertConstAppendsEverywhere(t *testing.T) {
	t.Parallel()

	table, err := New([]string{"a"}, [][]string{{"1"}, {"2"}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	tagged := table.InsertConst("tag", "X")
	if got := tagged.Headers(); !reflect.DeepEqual(got, []string{"a", "tag"}) {
		t.Fatalf("unexpected headers: %v", got)
	}
	for i, row := range tagged.Rows() {
		if row[1] != "X" {
			t.Fatalf("row %d missing constant tag: %v", i, row)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	table, err := New(
		[]string{"name", "note"},
		[][]string{
			{"alpha", "plain"},
			{"beta", "has, comma"},
			{"gamma", `has "quotes"`},
		},
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	parsed, err := Read(strings.NewReader(table.CSV()), ',')
	if err != nil {
		t.Fatalf("reparse returned error: %v", err)
	}

	if !reflect.DeepEqual(parsed.Headers(), table.Headers()) {
		t.Fatalf("headers changed in round trip: %v", parsed.Headers())
	}
	if !reflect.DeepEqual(parsed.Rows(), table.Rows()) {
		t.Fatalf("rows changed in round trip: %v", parsed.Rows())
	}
}
