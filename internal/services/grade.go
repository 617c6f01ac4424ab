package services

import "github.com/smart-result/records-service/internal/models"

// GradeForScore maps a percentage score to its letter grade. Boundaries are
// inclusive at the lower edge: 70 is an A, 69.9 is a B.
func GradeForScore(score float64) models.Grade {
	switch {
	case score >= 70:
		return models.GradeA
	case score >= 60:
		return models.GradeB
	case score >= 50:
		return models.GradeC
	case score >= 45:
		return models.GradeD
	default:
		return models.GradeF
	}
}
