package models

import (
	"testing"
	"time"
)

func TestIsValidVehicleType(t *testing.T) {
	tests := []struct {
		name     string
		vtype    VehicleType
		expected bool
	}{
		{"sedan", VehicleSedan, true},
		{"suv", VehicleSUV, true},
		{"pickup", VehiclePickup, true},
		{"van", VehicleVan, true},
		{"truck", VehicleTruck, true},
		{"motorcycle", VehicleMotorcycle, true},
		{"unknown", "hovercraft", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidVehicleType(tt.vtype); got != tt.expected {
				t.Errorf("IsValidVehicleType(%s) = %v, want %v", tt.vtype, got, tt.expected)
			}
		})
	}
}

func TestVehicleDraft_Validate(t *testing.T) {
	valid := VehicleDraft{Brand: "Toyota", Model: "Hilux", Year: 2020, Type: VehiclePickup}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid draft rejected: %v", err)
	}

	nextYear := valid
	nextYear.Year = time.Now().Year() + 1
	if err := nextYear.Validate(); err != nil {
		t.Errorf("next-year model rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*VehicleDraft)
	}{
		{"no brand", func(d *VehicleDraft) { d.Brand = "" }},
		{"no model", func(d *VehicleDraft) { d.Model = "" }},
		{"year before 1900", func(d *VehicleDraft) { d.Year = 1899 }},
		{"year too far ahead", func(d *VehicleDraft) { d.Year = time.Now().Year() + 2 }},
		{"bad type", func(d *VehicleDraft) { d.Type = "boat" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := valid
			tt.mutate(&draft)
			if err := draft.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []MaintenanceStatus{StatusPending, StatusInProgress, StatusCompleted} {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%s) = false, want true", s)
		}
	}
	if IsValidStatus("cancelled") {
		t.Error("IsValidStatus(cancelled) = true, want false")
	}
}
