// File: /services/matching_service.go
package services

import (
	"math"

	"gorm.io/gorm"

	"crewcall-api/models"
	"crewcall-api/repositories"
)

// MaxMatchDistanceKm is the discovery radius. The boundary is inclusive: an
// event at exactly this distance is still available.
const MaxMatchDistanceKm = 10.0

const earthRadiusKm = 6371

type MatchingService struct {
	db      *gorm.DB
	appRepo *repositories.ApplicationRepository
}

func NewMatchingService(db *gorm.DB) *MatchingService {
	return &MatchingService{
		db:      db,
		appRepo: repositories.NewApplicationRepository(db),
	}
}

// Haversine calculates the great-circle distance in kilometers between two
// points. No rounding; callers compare against the radius directly.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// EventDistance returns the distance between a staff member and an event
// venue. ok is false when either side has no coordinates; such pairs never
// match.
func EventDistance(staff *models.Account, event *models.Event) (km float64, ok bool) {
	if !staff.HasLocation() || !event.HasLocation() {
		return 0, false
	}
	return Haversine(*staff.Latitude, *staff.Longitude, *event.VenueLatitude, *event.VenueLongitude), true
}

// NearbyEvents returns the events available to a staff member: approved,
// within MaxMatchDistanceKm (inclusive), and without an active application
// from this staff member. Each result carries the organiser summary and the
// computed distance.
func (s *MatchingService) NearbyEvents(staff *models.Account) ([]models.EventResponse, error) {
	results := []models.EventResponse{}
	if !staff.HasLocation() {
		return results, nil
	}

	var events []models.Event
	if err := s.db.Preload("Organiser").Where("approved = ?", true).
		Order("start_time ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	applied, err := s.appRepo.ActiveEventIDs(staff.ID)
	if err != nil {
		return nil, err
	}

	for i := range events {
		event := &events[i]
		if applied[event.ID] {
			continue
		}
		distance, ok := EventDistance(staff, event)
		if !ok || distance > MaxMatchDistanceKm {
			continue
		}

		resp := event.ToResponse()
		d := math.Round(distance*100) / 100
		resp.DistanceKm = &d
		results = append(results, resp)
	}

	return results, nil
}
