package service

import (
	"sort"
	"time"

	"github.com/noah-isme/grievance-api/internal/models"
)

// ApplyFilter returns the grievances matching every set criterion, most
// recently submitted first. Equal submission times keep their input order.
// now anchors the date ranges; today starts at local midnight of now.
func ApplyFilter(grievances []models.Grievance, criteria models.GrievanceFilter, now time.Time) []models.Grievance {
	cutoff, bounded := rangeStart(criteria.DateRange, now)

	out := make([]models.Grievance, 0, len(grievances))
	for _, g := range grievances {
		if criteria.Status != "" && g.Status != criteria.Status {
			continue
		}
		if criteria.Category != "" && g.Category != criteria.Category {
			continue
		}
		if bounded && g.SubmittedAt.Before(cutoff) {
			continue
		}
		out = append(out, g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

func rangeStart(r models.DateRange, now time.Time) (time.Time, bool) {
	switch r {
	case models.DateRangeToday:
		local := now.Local()
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local), true
	case models.DateRangeLast7Days:
		return now.Add(-7 * 24 * time.Hour), true
	case models.DateRangeLast30Days:
		return now.Add(-30 * 24 * time.Hour), true
	default:
		return time.Time{}, false
	}
}

// Aggregate counts grievances per dashboard bucket. Rejected counts toward
// Total only.
func Aggregate(grievances []models.Grievance) models.GrievanceStats {
	stats := models.GrievanceStats{Total: len(grievances)}
	for _, g := range grievances {
		switch g.Status {
		case models.GrievanceStatusSubmitted, models.GrievanceStatusUnderReview:
			stats.Pending++
		case models.GrievanceStatusInProgress:
			stats.InProgress++
		case models.GrievanceStatusResolved:
			stats.Resolved++
		}
	}
	return stats
}
