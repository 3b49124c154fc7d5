package agenda

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/community"
	"github.com/terreiro/backend/internal/domain/shared"
	"github.com/terreiro/backend/internal/infrastructure/persistence"
)

type agendaFixture struct {
	events     *EventService
	courses    *CourseService
	memberRepo community.MemberRepository
	tenantID   uuid.UUID
}

func setupAgenda(t *testing.T) *agendaFixture {
	t.Helper()
	database, err := persistence.NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	eventRepo := persistence.NewGormEventRepository(database.DB)
	courseRepo := persistence.NewGormCourseRepository(database.DB)
	memberRepo := persistence.NewGormMemberRepository(database.DB)
	outboxRepo := persistence.NewGormOutboxRepository(database.DB)
	enqueuer := appsync.NewEnqueuer(outboxRepo, false, zap.NewNop())
	logger := zap.NewNop()

	return &agendaFixture{
		events:     NewEventService(eventRepo, enqueuer, logger),
		courses:    NewCourseService(courseRepo, memberRepo, enqueuer, logger),
		memberRepo: memberRepo,
		tenantID:   uuid.New(),
	}
}

func (f *agendaFixture) seedMember(t *testing.T, name string) *community.Member {
	t.Helper()
	member, err := community.NewMember(f.tenantID, name, "", "")
	require.NoError(t, err)
	require.NoError(t, f.memberRepo.Save(context.Background(), member))
	return member
}

func TestEventService_CalendarRange(t *testing.T) {
	ctx := context.Background()
	f := setupAgenda(t)

	dates := []time.Time{
		time.Date(2024, 3, 2, 20, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 16, 20, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 6, 20, 0, 0, 0, time.UTC),
	}
	for i, date := range dates {
		_, err := f.events.Create(ctx, f.tenantID, EventInput{
			Title: "Gira", Type: "gira", Date: date, Notes: "",
		})
		require.NoError(t, err, "event %d", i)
	}

	march, err := f.events.Calendar(ctx, f.tenantID,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, march, 2)

	_, err = f.events.Calendar(ctx, f.tenantID,
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
}

func TestCourseService_EnrollRequiresExistingMember(t *testing.T) {
	ctx := context.Background()
	f := setupAgenda(t)

	course, err := f.courses.Create(ctx, f.tenantID, CourseInput{
		Title: "Desenvolvimento mediúnico", Instructor: "Pai João",
	})
	require.NoError(t, err)

	_, err = f.courses.Enroll(ctx, f.tenantID, course.ID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	member := f.seedMember(t, "Maria da Silva")
	course, err = f.courses.Enroll(ctx, f.tenantID, course.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{member.ID}, course.MemberIDs)

	// Enrolling twice keeps a single seat
	course, err = f.courses.Enroll(ctx, f.tenantID, course.ID, member.ID)
	require.NoError(t, err)
	assert.Len(t, course.MemberIDs, 1)
}

func TestCourseService_WithdrawAndClose(t *testing.T) {
	ctx := context.Background()
	f := setupAgenda(t)

	course, err := f.courses.Create(ctx, f.tenantID, CourseInput{Title: "Doutrina"})
	require.NoError(t, err)
	member := f.seedMember(t, "Maria da Silva")

	_, err = f.courses.Enroll(ctx, f.tenantID, course.ID, member.ID)
	require.NoError(t, err)

	course, err = f.courses.Withdraw(ctx, f.tenantID, course.ID, member.ID)
	require.NoError(t, err)
	assert.Empty(t, course.MemberIDs)

	course, err = f.courses.Close(ctx, f.tenantID, course.ID)
	require.NoError(t, err)
	assert.False(t, course.Active)
}
