// Command seed fills a running server with plausible workshop data so the
// dashboard and reports have something to show during development.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"
)

var vehicles = []map[string]interface{}{
	{"brand": "Toyota", "model": "Hilux", "year": 2021, "licensePlate": "GHJK34", "type": "pickup"},
	{"brand": "Chevrolet", "model": "Sail", "year": 2019, "licensePlate": "BBCD12", "type": "sedan"},
	{"brand": "Hyundai", "model": "Tucson", "year": 2022, "licensePlate": "KLMN56", "type": "suv"},
	{"brand": "Mercedes-Benz", "model": "Sprinter", "year": 2018, "licensePlate": "PQRS78", "type": "van"},
	{"brand": "Honda", "model": "CB190", "year": 2023, "licensePlate": "TUVW90", "type": "motorcycle"},
}

var technicians = []map[string]interface{}{
	{"rut": "12.345.678-9", "name": "Juan", "lastname": "Pérez", "email": "jperez@tecnico.taller.cl", "password": "taller123!", "role": "technician"},
	{"rut": "23.456.789-0", "name": "María", "lastname": "Soto", "email": "msoto@tecnico.taller.cl", "password": "taller123!", "role": "technician"},
}

var descriptions = []string{
	"Cambio de aceite y filtro",
	"Revisión de frenos",
	"Alineación y balanceo",
	"Cambio de pastillas de freno",
	"Mantención de 10.000 km",
	"Revisión sistema eléctrico",
}

type seeder struct {
	baseURL string
	token   string
	client  *http.Client
}

func main() {
	baseURL := os.Getenv("SEED_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD is required to seed")
	}

	s := &seeder{baseURL: baseURL, client: http.DefaultClient}
	if err := s.login("admin@admin.com", password); err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	for _, v := range vehicles {
		if err := s.postJSON("/api/vehicles", v); err != nil {
			log.WithError(err).WithField("vehicle", v["licensePlate"]).Error("Failed to create vehicle")
		}
	}
	for _, u := range technicians {
		if err := s.postJSON("/api/users", u); err != nil {
			log.WithError(err).WithField("email", u["email"]).Error("Failed to create technician")
		}
	}

	vehicleIDs, err := s.listIDs("/api/vehicles")
	if err != nil {
		log.Fatalf("Failed to list vehicles: %v", err)
	}
	technicianIDs, err := s.technicianIDs()
	if err != nil {
		log.Fatalf("Failed to list technicians: %v", err)
	}
	if len(vehicleIDs) == 0 || len(technicianIDs) == 0 {
		log.Fatal("Nothing to assign maintenances to")
	}

	statuses := []string{"pending", "in-progress", "completed"}
	for i := 0; i < 12; i++ {
		err := s.createMaintenance(
			vehicleIDs[rand.Intn(len(vehicleIDs))],
			technicianIDs[rand.Intn(len(technicianIDs))],
			descriptions[rand.Intn(len(descriptions))],
			statuses[rand.Intn(len(statuses))],
		)
		if err != nil {
			log.WithError(err).Error("Failed to create maintenance")
		}
	}

	log.Info("Seeding complete")
}

func (s *seeder) login(email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := s.client.Post(s.baseURL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return err
	}
	s.token = loginResp.Token
	return nil
}

func (s *seeder) postJSON(path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (s *seeder) get(path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *seeder) listIDs(path string) ([]string, error) {
	var items []struct {
		ID string `json:"id"`
	}
	if err := s.get(path, &items); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids, nil
}

func (s *seeder) technicianIDs() ([]string, error) {
	var users []struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	if err := s.get("/api/users", &users); err != nil {
		return nil, err
	}
	var ids []string
	for _, u := range users {
		if u.Role == "technician" {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (s *seeder) createMaintenance(vehicleID, technicianID, description, status string) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	form.WriteField("vehicleId", vehicleID)
	form.WriteField("technicianId", technicianID)
	form.WriteField("description", description)
	form.WriteField("status", status)
	if err := form.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/api/maintenances", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
