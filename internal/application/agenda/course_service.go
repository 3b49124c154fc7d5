package agenda

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/agenda"
	"github.com/terreiro/backend/internal/domain/community"
	"github.com/terreiro/backend/internal/domain/shared"
)

// CourseInput carries the fields of a course
type CourseInput struct {
	Title      string `json:"title" validate:"required,max=200"`
	Instructor string `json:"instructor" validate:"max=200"`
	Schedule   string `json:"schedule" validate:"max=200"`
}

// CourseService manages courses and their enrollments
type CourseService struct {
	courseRepo agenda.CourseRepository
	memberRepo community.MemberRepository
	enqueuer   *appsync.Enqueuer
	logger     *zap.Logger
}

// NewCourseService creates a new course service
func NewCourseService(
	courseRepo agenda.CourseRepository,
	memberRepo community.MemberRepository,
	enqueuer *appsync.Enqueuer,
	logger *zap.Logger,
) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		memberRepo: memberRepo,
		enqueuer:   enqueuer,
		logger:     logger,
	}
}

// Create opens a new course
func (s *CourseService) Create(ctx context.Context, tenantID uuid.UUID, input CourseInput) (*agenda.Course, error) {
	course, err := agenda.NewCourse(tenantID, input.Title, input.Instructor, input.Schedule)
	if err != nil {
		return nil, err
	}
	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}
	s.replicate(ctx, course)
	return course, nil
}

// Get returns a single course
func (s *CourseService) Get(ctx context.Context, tenantID, id uuid.UUID) (*agenda.Course, error) {
	return s.courseRepo.FindByID(ctx, tenantID, id)
}

// List returns the courses matching the filter
func (s *CourseService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]agenda.Course, error) {
	return s.courseRepo.FindAll(ctx, tenantID, filter)
}

// Update edits a course's descriptive fields
func (s *CourseService) Update(ctx context.Context, tenantID, id uuid.UUID, input CourseInput) (*agenda.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := course.Update(input.Title, input.Instructor, input.Schedule); err != nil {
		return nil, err
	}
	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}
	s.replicate(ctx, course)
	return course, nil
}

// Enroll adds a roster member to a course. The member must exist in the same
// tenant; duplicate enrollments are ignored.
func (s *CourseService) Enroll(ctx context.Context, tenantID, courseID, memberID uuid.UUID) (*agenda.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, tenantID, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.memberRepo.FindByID(ctx, tenantID, memberID); err != nil {
		return nil, err
	}
	course.Enroll(memberID)

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}
	s.replicate(ctx, course)
	return course, nil
}

// Withdraw removes a member from a course
func (s *CourseService) Withdraw(ctx context.Context, tenantID, courseID, memberID uuid.UUID) (*agenda.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, tenantID, courseID)
	if err != nil {
		return nil, err
	}
	course.Withdraw(memberID)

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}
	s.replicate(ctx, course)
	return course, nil
}

// Close marks a course as finished, keeping its enrollment history
func (s *CourseService) Close(ctx context.Context, tenantID, id uuid.UUID) (*agenda.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	course.Close()

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}
	s.replicate(ctx, course)
	return course, nil
}

// Delete removes a course permanently
func (s *CourseService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.courseRepo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.courseRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.enqueuer.Delete(ctx, tenantID, appsync.CollectionCourses, id); err != nil {
		s.logger.Error("failed to queue course deletion", zap.Error(err))
	}
	return nil
}

func (s *CourseService) replicate(ctx context.Context, course *agenda.Course) {
	if err := s.enqueuer.Upsert(ctx, course.TenantID, appsync.CollectionCourses, course.ID, course); err != nil {
		s.logger.Error("failed to queue course replication",
			zap.String("course_id", course.ID.String()),
			zap.Error(err))
	}
}
