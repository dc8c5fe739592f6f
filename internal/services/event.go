package services

import (
	"errors"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/models"

	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type EventService struct{}

func NewEventService() *EventService {
	return &EventService{}
}

func (s *EventService) CreateEvent(title, description, location string, startsAt time.Time, organizerID uint) (*models.Event, error) {
	event := &models.Event{
		Title:       title,
		Description: description,
		Location:    location,
		StartsAt:    startsAt,
		OrganizerID: organizerID,
	}
	if err := models.DB.Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) GetEvents() ([]models.Event, error) {
	var events []models.Event
	if err := models.DB.Order("starts_at DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventService) GetEvent(id uint) (*models.Event, error) {
	var event models.Event
	if err := models.DB.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (s *EventService) UpdateEvent(id uint, title, description, location string, startsAt time.Time) (*models.Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	event.Title = title
	event.Description = description
	event.Location = location
	event.StartsAt = startsAt

	if err := models.DB.Save(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) DeleteEvent(id uint) error {
	event, err := s.GetEvent(id)
	if err != nil {
		return err
	}
	return models.DB.Delete(event).Error
}
