package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/eunsilJANG/EasyGo/internal/adapter/cache"
	"github.com/eunsilJANG/EasyGo/internal/adapter/geocode"
	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/repository"
)

// CourseService persists travel courses, resolving each spot address to
// coordinates before saving. Geocode results are cached; cache failures are
// logged and ignored so a Redis outage never blocks a save.
type CourseService struct {
	courses   repository.CourseRepository
	geocoder  geocode.Geocoder
	cache     *cache.GeocodeCache
	snowflake *snowflake.Node
	logger    *zap.Logger
}

// NewCourseService wires dependencies.
func NewCourseService(courses repository.CourseRepository, geocoder geocode.Geocoder, geocodeCache *cache.GeocodeCache, node *snowflake.Node, logger *zap.Logger) *CourseService {
	return &CourseService{courses: courses, geocoder: geocoder, cache: geocodeCache, snowflake: node, logger: logger}
}

// SaveCourse geocodes the spots that carry an address but no coordinates,
// then stores the course for the principal. A spot whose address cannot be
// resolved is kept without coordinates rather than failing the save.
func (s *CourseService) SaveCourse(ctx context.Context, actor domain.Principal, name string, spots []domain.Spot) (domain.Course, error) {
	if name == "" {
		return domain.Course{}, fmt.Errorf("course name required")
	}

	for i := range spots {
		spot := &spots[i]
		if spot.Address == "" || spot.Latitude != 0 || spot.Longitude != 0 {
			continue
		}
		coord, err := s.resolve(ctx, spot.Address)
		if err != nil {
			s.logger.Warn("geocode failed",
				zap.String("address", spot.Address),
				zap.Error(err))
			continue
		}
		spot.Latitude = coord.Latitude
		spot.Longitude = coord.Longitude
	}

	course, err := s.courses.Create(ctx, domain.Course{
		ID:     s.snowflake.Generate().Int64(),
		UserID: actor.UserID,
		Name:   name,
		Spots:  spots,
	})
	if err != nil {
		return domain.Course{}, fmt.Errorf("create course: %w", err)
	}
	s.logger.Info("course.saved", zap.Int64("course_id", course.ID), zap.Int64("user_id", actor.UserID))
	return course, nil
}

// ListCourses returns the principal's saved courses.
func (s *CourseService) ListCourses(ctx context.Context, actor domain.Principal) ([]domain.Course, error) {
	return s.courses.ListByUser(ctx, actor.UserID)
}

// GetCourse loads one course. Courses are private to their owner.
func (s *CourseService) GetCourse(ctx context.Context, actor domain.Principal, courseID int64) (domain.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return domain.Course{}, domain.ErrNotFound
	}
	if course.UserID != actor.UserID {
		return domain.Course{}, domain.ErrNotAuthor
	}
	return course, nil
}

func (s *CourseService) resolve(ctx context.Context, address string) (domain.Coordinate, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, address); err != nil {
			s.logger.Warn("geocode cache read failed", zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	coord, err := s.geocoder.Resolve(ctx, address)
	if err != nil {
		return domain.Coordinate{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, address, coord); err != nil {
			s.logger.Warn("geocode cache write failed", zap.Error(err))
		}
	}
	return coord, nil
}
