package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"technician role", RoleTechnician, true},
		{"invalid role", "manager", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_IsTechnician(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected bool
	}{
		{"technician role", User{Role: RoleTechnician, Email: "x@taller.cl"}, true},
		{"technician email convention", User{Role: RoleAdmin, Email: "jp@tecnico.taller.cl"}, true},
		{"plain admin", User{Role: RoleAdmin, Email: "admin@admin.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.IsTechnician(); got != tt.expected {
				t.Errorf("IsTechnician() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUser_FullName(t *testing.T) {
	u := User{Name: "Juan", LastName: "Pérez"}
	if got := u.FullName(); got != "Juan Pérez" {
		t.Errorf("FullName() = %q, want %q", got, "Juan Pérez")
	}
	u.LastName = ""
	if got := u.FullName(); got != "Juan" {
		t.Errorf("FullName() = %q, want %q", got, "Juan")
	}
}

func TestUser_PasswordHashNeverSerialized(t *testing.T) {
	u := User{Name: "Juan", Email: "jp@taller.cl", PasswordHash: "$2a$10$secret"}
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("password hash leaked into JSON: %s", data)
	}
}
