package agenda

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/terreiro/backend/internal/domain/shared"
)

// Course represents a doctrine or development course with enrolled members
type Course struct {
	shared.TenantAggregateRoot
	Title      string `gorm:"type:varchar(200);not null"`
	Instructor string `gorm:"type:varchar(200)"`
	Schedule   string `gorm:"type:varchar(200)"`
	MemberIDs  []uuid.UUID
	Active     bool `gorm:"not null;default:true"`
}

// NewCourse creates a new course
func NewCourse(tenantID uuid.UUID, title, instructor, schedule string) (*Course, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Course title cannot be empty")
	}

	return &Course{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Instructor:          instructor,
		Schedule:            schedule,
		Active:              true,
	}, nil
}

// Update changes the course's descriptive fields
func (c *Course) Update(title, instructor, schedule string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Course title cannot be empty")
	}
	c.Title = title
	c.Instructor = instructor
	c.Schedule = schedule
	c.touch()
	return nil
}

// Enroll adds a member, ignoring duplicates
func (c *Course) Enroll(memberID uuid.UUID) {
	for _, id := range c.MemberIDs {
		if id == memberID {
			return
		}
	}
	c.MemberIDs = append(c.MemberIDs, memberID)
	c.touch()
}

// Withdraw removes a member from the course
func (c *Course) Withdraw(memberID uuid.UUID) {
	for i, id := range c.MemberIDs {
		if id == memberID {
			c.MemberIDs = append(c.MemberIDs[:i], c.MemberIDs[i+1:]...)
			c.touch()
			return
		}
	}
}

// Close marks the course as finished
func (c *Course) Close() {
	c.Active = false
	c.touch()
}

func (c *Course) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// CourseRepository defines the tenant-scoped course persistence interface
type CourseRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Course, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Course, error)
	Save(ctx context.Context, course *Course) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}
