package enums

import "fmt"

// QualityGrade is the per-item inspection outcome. "scarto" marks a reject.
type QualityGrade string

const (
	QualityGradeA      QualityGrade = "A"
	QualityGradeB      QualityGrade = "B"
	QualityGradeC      QualityGrade = "C"
	QualityGradeReject QualityGrade = "scarto"
)

var validQualityGrades = []QualityGrade{
	QualityGradeA,
	QualityGradeB,
	QualityGradeC,
	QualityGradeReject,
}

// IsValid reports whether the value is a known QualityGrade.
func (g QualityGrade) IsValid() bool {
	for _, candidate := range validQualityGrades {
		if candidate == g {
			return true
		}
	}
	return false
}

// IsPassing reports whether the grade counts toward the supplier quality rate.
func (g QualityGrade) IsPassing() bool {
	return g == QualityGradeA || g == QualityGradeB
}

// ParseQualityGrade converts the raw string to QualityGrade.
func ParseQualityGrade(value string) (QualityGrade, error) {
	for _, candidate := range validQualityGrades {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quality grade %q", value)
}
