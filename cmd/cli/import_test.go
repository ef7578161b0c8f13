package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bigredeye/temrin/internal/models"
)

const smallRoster = `
- studentNo: "101"
  fullName:  Ayşe Kaya
  gender:    Kadın
  scores: {t1: 80, t2: 75, t3: 90, t4: 60, t5: 185}

- studentNo: 102
  fullName:  " Ali Veli "
  scores:
    t1: -5
    t3: 40
`

func TestRosterParsing(t *testing.T) {
	roster, err := parseRoster([]byte(smallRoster))
	if err != nil {
		t.Fatal("Failed to parse roster:", err)
	}

	expected := Roster{{
		StudentNo: "101",
		FullName:  "Ayşe Kaya",
		Gender:    models.GenderFemale,
		Scores:    models.Scores{T1: 80, T2: 75, T3: 90, T4: 60, T5: 100},
	}, {
		StudentNo: "102",
		FullName:  "Ali Veli",
		Gender:    models.GenderMale,
		Scores:    models.Scores{T3: 40},
	}}

	if diff := cmp.Diff(expected, roster); diff != "" {
		t.Fatalf("Unexpected roster (-want +got):\n%s", diff)
	}
}

func TestRosterRejectsNameless(t *testing.T) {
	_, err := parseRoster([]byte(`- studentNo: "1"`))
	if err == nil {
		t.Fatal("Expected an error for a roster entry without a name")
	}
}

func TestMergeForm(t *testing.T) {
	current := models.StudentForm{StudentNo: "1", FullName: "A", Gender: models.GenderMale, Scores: models.Scores{T1: 10, T2: 20}}
	update := models.StudentForm{FullName: "B", Scores: models.Scores{T2: 99}}
	changed := func(name string) bool { return name == "name" || name == "t2" }

	got := mergeForm(current, update, changed)
	want := models.StudentForm{StudentNo: "1", FullName: "B", Gender: models.GenderMale, Scores: models.Scores{T1: 10, T2: 99}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Unexpected merge (-want +got):\n%s", diff)
	}
}

func TestImportRejectsNonPositiveParallel(t *testing.T) {
	file := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(file, []byte(smallRoster), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, parallel := range []int64{0, -2} {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := importRoster(ctx, file, parallel)
		cancel()
		if err == nil {
			t.Fatalf("Expected an error for parallel=%d", parallel)
		}
		if ctx.Err() != nil {
			t.Fatalf("Import with parallel=%d blocked until the deadline", parallel)
		}
	}
}
