package models

import (
	"fmt"
	"strings"
	"time"
)

var spanishMonths = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

const presentLabel = "Actualidad"

// DateRange is the start/end pair shared by experience and education entries.
// When Current is set the stored end date is ignored.
type DateRange struct {
	Start   time.Time
	End     *time.Time
	Current bool
}

// EffectiveEnd is nil for ongoing ranges.
func (r DateRange) EffectiveEnd() *time.Time {
	if r.Current {
		return nil
	}
	return r.End
}

// Label renders "Ene 2020 - Actualidad" or "Ene 2020 - Mar 2022".
func (r DateRange) Label() string {
	end := presentLabel
	if e := r.EffectiveEnd(); e != nil {
		end = monthYear(*e)
	}
	return monthYear(r.Start) + " - " + end
}

// Months counts whole months between the start and the effective end,
// using now for ongoing ranges. The starting month counts as one.
func (r DateRange) Months(now time.Time) int {
	end := now
	if e := r.EffectiveEnd(); e != nil {
		end = *e
	}
	months := (end.Year()-r.Start.Year())*12 + int(end.Month()) - int(r.Start.Month()) + 1
	if months < 0 {
		return 0
	}
	return months
}

// Duration renders the length of the range as "2 años 3 meses".
func (r DateRange) Duration(now time.Time) string {
	total := r.Months(now)
	years, months := total/12, total%12

	var parts []string
	switch {
	case years == 1:
		parts = append(parts, "1 año")
	case years > 1:
		parts = append(parts, fmt.Sprintf("%d años", years))
	}
	switch {
	case months == 1:
		parts = append(parts, "1 mes")
	case months > 1:
		parts = append(parts, fmt.Sprintf("%d meses", months))
	}
	if len(parts) == 0 {
		return "Menos de un mes"
	}
	return strings.Join(parts, " ")
}

func monthYear(t time.Time) string {
	return fmt.Sprintf("%s %d", spanishMonths[t.Month()-1], t.Year())
}
