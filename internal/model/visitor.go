package model

import (
	"fmt"
	"regexp"
	"time"
)

// VisitStatus defines the approval state of a visitor registration.
type VisitStatus string

const (
	VisitPending  VisitStatus = "pending"
	VisitApproved VisitStatus = "approved"
)

// VisitorRecord is one visitor registration. Records are partitioned into one
// document per (unit, year-month) pair to bound document size.
type VisitorRecord struct {
	ID           string      `json:"id"`
	SoldierName  string      `json:"soldierName"`
	SoldierUnit  string      `json:"soldierUnit"`
	VisitorName  string      `json:"visitorName"`
	Relationship string      `json:"relationship"`
	Phone        string      `json:"phone"`
	VisitDate    string      `json:"visitDate"` // YYYY-MM-DD
	Status       VisitStatus `json:"status"`
}

// unitPattern restricts unit identifiers to characters safe to embed in a
// document path.
var unitPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidUnit reports whether unit may be used in VisitDocPath. Path separators
// and dot segments would escape the Visits partition.
func ValidUnit(unit string) bool {
	return unitPattern.MatchString(unit)
}

// VisitDocPath returns the drive path of the visitor document for one unit and
// month, e.g. "Visits/c18_e88_2024_06.json". The unit must have passed
// ValidUnit.
func VisitDocPath(unit string, t time.Time) string {
	return fmt.Sprintf("Visits/%s_%04d_%02d.json", unit, t.Year(), int(t.Month()))
}

// ParseVisitDate parses the YYYY-MM-DD visit date carried on a record.
func ParseVisitDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
