package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eunsilJANG/EasyGo/internal/adapter/geocode"
	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/service"
)

type fakeGeocoder struct {
	known map[string]domain.Coordinate
	calls int
}

func (f *fakeGeocoder) Resolve(ctx context.Context, address string) (domain.Coordinate, error) {
	f.calls++
	if coord, ok := f.known[address]; ok {
		return coord, nil
	}
	return domain.Coordinate{}, geocode.ErrNoMatch
}

func TestSaveCourseGeocodesSpots(t *testing.T) {
	geocoder := &fakeGeocoder{known: map[string]domain.Coordinate{
		"서울 중구 세종대로 110": {Latitude: 37.5663, Longitude: 126.9779},
	}}
	courses := &memoryCourseRepo{courses: map[int64]domain.Course{}}
	node, err := snowflake.NewNode(4)
	require.NoError(t, err)
	svc := service.NewCourseService(courses, geocoder, nil, node, zap.NewNop())

	actor := domain.Principal{UserID: 1, Nickname: "alice"}
	saved, err := svc.SaveCourse(context.Background(), actor, "seoul day 1", []domain.Spot{
		{Day: 1, Order: 1, Name: "City Hall", Address: "서울 중구 세종대로 110"},
		{Day: 1, Order: 2, Name: "Unknown", Address: "nowhere"},
		{Day: 1, Order: 3, Name: "Pinned", Address: "ignored", Latitude: 1, Longitude: 2},
	})
	require.NoError(t, err)
	require.InDelta(t, 37.5663, saved.Spots[0].Latitude, 1e-6)
	require.InDelta(t, 126.9779, saved.Spots[0].Longitude, 1e-6)

	// Unresolvable addresses stay unset instead of failing the save.
	require.Zero(t, saved.Spots[1].Latitude)

	// Spots arriving with coordinates skip the geocoder entirely.
	require.Equal(t, 2, geocoder.calls)

	list, err := svc.ListCourses(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestGetCourseIsPrivateToOwner(t *testing.T) {
	courses := &memoryCourseRepo{courses: map[int64]domain.Course{}}
	node, err := snowflake.NewNode(4)
	require.NoError(t, err)
	svc := service.NewCourseService(courses, &fakeGeocoder{}, nil, node, zap.NewNop())

	owner := domain.Principal{UserID: 1}
	saved, err := svc.SaveCourse(context.Background(), owner, "mine", nil)
	require.NoError(t, err)

	_, err = svc.GetCourse(context.Background(), domain.Principal{UserID: 2}, saved.ID)
	require.ErrorIs(t, err, domain.ErrNotAuthor)

	got, err := svc.GetCourse(context.Background(), owner, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "mine", got.Name)
}

type memoryCourseRepo struct {
	mu      sync.Mutex
	courses map[int64]domain.Course
}

func (m *memoryCourseRepo) Create(ctx context.Context, course domain.Course) (domain.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course.CreatedAt = time.Now()
	m.courses[course.ID] = course
	return course, nil
}

func (m *memoryCourseRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Course
	for _, c := range m.courses {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryCourseRepo) GetByID(ctx context.Context, courseID int64) (domain.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.courses[courseID]; ok {
		return c, nil
	}
	return domain.Course{}, pgx.ErrNoRows
}
