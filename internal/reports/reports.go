// Package reports derives dashboard and reporting views from the current
// store snapshots. Every function is pure and recomputes from scratch; there
// is no cache, so results are exactly as fresh as the snapshots passed in.
package reports

import (
	"sort"
	"time"

	"github.com/tallervms/workshop-dashboard/internal/models"
)

// UnknownLabel is used when a maintenance record references a vehicle or
// technician that no longer exists. Dangling references are a first-class
// case: entity deletion does not cascade.
const UnknownLabel = "Desconocido"

// TopVehicles caps the group-by-vehicle report.
const TopVehicles = 5

var monthLabels = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// Filter narrows a maintenance snapshot. Zero values match everything; set
// fields combine with logical AND.
type Filter struct {
	TechnicianID string
	VehicleID    string
	Year         int
}

// Matches reports whether one record passes the filter.
func (f Filter) Matches(m models.Maintenance) bool {
	if f.TechnicianID != "" && m.TechnicianID != f.TechnicianID {
		return false
	}
	if f.VehicleID != "" && m.VehicleID != f.VehicleID {
		return false
	}
	if f.Year != 0 && m.CreatedAt.Year() != f.Year {
		return false
	}
	return true
}

// Apply returns the records passing the filter, preserving order. Filtering
// always runs before bucketing or grouping.
func Apply(maintenances []models.Maintenance, f Filter) []models.Maintenance {
	out := make([]models.Maintenance, 0, len(maintenances))
	for _, m := range maintenances {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// Counters are the headline dashboard numbers.
type Counters struct {
	Vehicles    int `json:"vehicles"`
	Technicians int `json:"technicians"`
	Pending     int `json:"pending"`
	InProgress  int `json:"inProgress"`
	Completed   int `json:"completed"`
}

// DashboardCounters computes the headline numbers in a single pass over each
// snapshot.
func DashboardCounters(vehicles []models.Vehicle, users []models.User, maintenances []models.Maintenance) Counters {
	c := Counters{Vehicles: len(vehicles)}
	for _, u := range users {
		if u.Role == models.RoleTechnician {
			c.Technicians++
		}
	}
	for _, m := range maintenances {
		switch m.Status {
		case models.StatusPending:
			c.Pending++
		case models.StatusInProgress:
			c.InProgress++
		case models.StatusCompleted:
			c.Completed++
		}
	}
	return c
}

// MonthBucket is one calendar month of maintenance activity.
type MonthBucket struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Completed int    `json:"completados"`
}

// MonthlyBuckets allocates twelve buckets for the target year and counts
// each record created in that year into its month, tracking the completed
// subset alongside. Records outside the target year are excluded entirely.
func MonthlyBuckets(maintenances []models.Maintenance, year int) []MonthBucket {
	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		buckets[i].Name = monthLabels[i]
	}
	for _, m := range maintenances {
		if m.CreatedAt.Year() != year {
			continue
		}
		i := int(m.CreatedAt.Month()) - 1
		buckets[i].Total++
		if m.Status == models.StatusCompleted {
			buckets[i].Completed++
		}
	}
	return buckets
}

// StatusCount is one slice of the status distribution.
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// StatusDistribution counts the given records per lifecycle state.
func StatusDistribution(maintenances []models.Maintenance) []StatusCount {
	var pending, inProgress, completed int
	for _, m := range maintenances {
		switch m.Status {
		case models.StatusPending:
			pending++
		case models.StatusInProgress:
			inProgress++
		case models.StatusCompleted:
			completed++
		}
	}
	return []StatusCount{
		{Name: "Pendientes", Value: pending},
		{Name: "En progreso", Value: inProgress},
		{Name: "Completados", Value: completed},
	}
}

// GroupCount is one labeled entry of a grouped report.
type GroupCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ByTechnician counts records per technician. Every known technician is
// seeded at zero, ids that no longer resolve fall back to the unknown label,
// zero-count entries are dropped and the result is sorted by count
// descending.
func ByTechnician(maintenances []models.Maintenance, users []models.User) []GroupCount {
	counts := make(map[string]int)
	for _, u := range users {
		if u.Role == models.RoleTechnician {
			counts[u.ID.Hex()] = 0
		}
	}
	for _, m := range maintenances {
		counts[m.TechnicianID]++
	}
	return grouped(counts, func(id string) string {
		for _, u := range users {
			if u.ID.Hex() == id {
				return u.FullName()
			}
		}
		return UnknownLabel
	}, 0)
}

// ByVehicle counts records per vehicle the same way and truncates to the
// TopVehicles busiest ones.
func ByVehicle(maintenances []models.Maintenance, vehicles []models.Vehicle) []GroupCount {
	counts := make(map[string]int)
	for _, v := range vehicles {
		counts[v.ID.Hex()] = 0
	}
	for _, m := range maintenances {
		counts[m.VehicleID]++
	}
	return grouped(counts, func(id string) string {
		for _, v := range vehicles {
			if v.ID.Hex() == id {
				return v.Label()
			}
		}
		return UnknownLabel
	}, TopVehicles)
}

func grouped(counts map[string]int, label func(string) string, limit int) []GroupCount {
	out := make([]GroupCount, 0, len(counts))
	for id, count := range counts {
		if count == 0 {
			continue
		}
		out = append(out, GroupCount{Name: label(id), Value: count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// YearOptions lists the years present in the snapshot, newest first. When no
// records exist the current year is offered so a year selector is never left
// without a value.
func YearOptions(maintenances []models.Maintenance) []int {
	seen := make(map[int]bool)
	var years []int
	for _, m := range maintenances {
		y := m.CreatedAt.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	if len(years) == 0 {
		return []int{time.Now().Year()}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
