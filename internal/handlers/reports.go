package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tallervms/workshop-dashboard/internal/reports"
	"github.com/tallervms/workshop-dashboard/internal/store"
)

// ReportsHandler serves the aggregated views. It refreshes the three
// snapshots jointly before computing anything, so the aggregation always
// runs over data from the same load.
type ReportsHandler struct {
	vehicles     *store.VehicleStore
	users        *store.UserStore
	maintenances *store.MaintenanceStore
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(vehicles *store.VehicleStore, users *store.UserStore, maintenances *store.MaintenanceStore) *ReportsHandler {
	return &ReportsHandler{vehicles: vehicles, users: users, maintenances: maintenances}
}

func (h *ReportsHandler) refresh(r *http.Request) error {
	if err := h.vehicles.FetchAll(r.Context()); err != nil {
		return err
	}
	if err := h.users.FetchAll(r.Context()); err != nil {
		return err
	}
	return h.maintenances.FetchAll(r.Context())
}

// Dashboard returns the headline counters plus the current-year monthly and
// status breakdowns.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if err := h.refresh(r); err != nil {
		http.Error(w, "Failed to load dashboard data", http.StatusBadGateway)
		return
	}
	maintenances := h.maintenances.Maintenances()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"counters": reports.DashboardCounters(h.vehicles.Vehicles(), h.users.Users(), maintenances),
		"monthly":  reports.MonthlyBuckets(maintenances, time.Now().Year()),
		"status":   reports.StatusDistribution(maintenances),
	})
}

// Reports returns the filtered report views. Filters arrive as query
// parameters (technicianId, vehicleId, year) and combine with AND; filtering
// runs before every bucketing or grouping step.
func (h *ReportsHandler) Reports(w http.ResponseWriter, r *http.Request) {
	if err := h.refresh(r); err != nil {
		http.Error(w, "Failed to load report data", http.StatusBadGateway)
		return
	}

	q := r.URL.Query()
	filter := reports.Filter{
		TechnicianID: q.Get("technicianId"),
		VehicleID:    q.Get("vehicleId"),
	}
	year := time.Now().Year()
	if y, err := strconv.Atoi(q.Get("year")); err == nil && y != 0 {
		year = y
	}
	filter.Year = year

	maintenances := h.maintenances.Maintenances()
	filtered := reports.Apply(maintenances, filter)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"monthly":      reports.MonthlyBuckets(filtered, year),
		"status":       reports.StatusDistribution(filtered),
		"byTechnician": reports.ByTechnician(filtered, h.users.Users()),
		"byVehicle":    reports.ByVehicle(filtered, h.vehicles.Vehicles()),
		"years":        reports.YearOptions(maintenances),
	})
}
