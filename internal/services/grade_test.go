package services

import (
	"testing"

	"github.com/smart-result/records-service/internal/models"
)

func TestGradeForScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  models.Grade
	}{
		{name: "zero is F", score: 0, want: models.GradeF},
		{name: "just below D", score: 44.9, want: models.GradeF},
		{name: "D lower bound", score: 45, want: models.GradeD},
		{name: "top of D band", score: 49.9, want: models.GradeD},
		{name: "C lower bound", score: 50, want: models.GradeC},
		{name: "top of C band", score: 59.9, want: models.GradeC},
		{name: "B lower bound", score: 60, want: models.GradeB},
		{name: "top of B band", score: 69.9, want: models.GradeB},
		{name: "A lower bound", score: 70, want: models.GradeA},
		{name: "full marks", score: 100, want: models.GradeA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GradeForScore(tt.score); got != tt.want {
				t.Errorf("GradeForScore(%v) = %v, want %v", tt.score, got, tt.want)
			}
		})
	}
}
