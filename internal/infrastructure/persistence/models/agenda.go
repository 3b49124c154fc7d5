package models

import (
	"time"

	"github.com/terreiro/backend/internal/domain/agenda"
)

// EventModel is the persistence model for the calendar Event domain entity.
type EventModel struct {
	TenantAggregateModel
	Title string    `gorm:"type:varchar(200);not null"`
	Type  string    `gorm:"type:varchar(100);index"`
	Date  time.Time `gorm:"not null;index"`
	Notes string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (EventModel) TableName() string {
	return "agenda_events"
}

// ToDomain converts the persistence model to a domain Event entity
func (m *EventModel) ToDomain() *agenda.Event {
	event := &agenda.Event{
		Title: m.Title,
		Type:  m.Type,
		Date:  m.Date,
		Notes: m.Notes,
	}
	m.PopulateTenantAggregateRoot(&event.TenantAggregateRoot)
	return event
}

// FromDomain populates the persistence model from a domain Event entity
func (m *EventModel) FromDomain(e *agenda.Event) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.Title = e.Title
	m.Type = e.Type
	m.Date = e.Date
	m.Notes = e.Notes
}

// CourseModel is the persistence model for the Course domain entity.
type CourseModel struct {
	TenantAggregateModel
	Title      string `gorm:"type:varchar(200);not null"`
	Instructor string `gorm:"type:varchar(200)"`
	Schedule   string `gorm:"type:varchar(200)"`
	MemberIDs  string `gorm:"type:jsonb;default:'null'"`
	Active     bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CourseModel) TableName() string {
	return "courses"
}

// ToDomain converts the persistence model to a domain Course entity
func (m *CourseModel) ToDomain() *agenda.Course {
	course := &agenda.Course{
		Title:      m.Title,
		Instructor: m.Instructor,
		Schedule:   m.Schedule,
		Active:     m.Active,
	}
	m.PopulateTenantAggregateRoot(&course.TenantAggregateRoot)
	fromJSON(m.MemberIDs, &course.MemberIDs)
	return course
}

// FromDomain populates the persistence model from a domain Course entity
func (m *CourseModel) FromDomain(c *agenda.Course) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Title = c.Title
	m.Instructor = c.Instructor
	m.Schedule = c.Schedule
	m.MemberIDs = toJSON(c.MemberIDs)
	m.Active = c.Active
}
