package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/repositories"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/collection"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/orm"
)

var validRoles = map[string]bool{
	auth.RoleUser:   true,
	auth.RoleSeller: true,
	auth.RoleAdmin:  true,
}

// Dashboard is the admin analytics snapshot.
type Dashboard struct {
	UsersByRole    map[string]int64 `json:"users_by_role"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	OrdersByDay    []DayStat        `json:"orders_by_day"`
	Revenue        float64          `json:"revenue"`
}

// DayStat is one day's order volume for the dashboard chart data.
type DayStat struct {
	Day   string  `json:"day"` // YYYY-MM-DD
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// dashboardWindow bounds the per-day grouping.
const dashboardWindow = 30 * 24 * time.Hour

// AdminService covers account administration: role conversion, the
// blocked flag, credential resets, and dashboard analytics.
type AdminService struct {
	users  *repositories.UserRepository
	orders *repositories.OrderRepository
}

func NewAdminService() *AdminService {
	return &AdminService{
		users:  repositories.NewUserRepository(),
		orders: repositories.NewOrderRepository(),
	}
}

// Users returns one page of accounts, optionally filtered by role.
func (s *AdminService) Users(role string, page, limit int) ([]models.User, orm.Pagination, error) {
	if role != "" && !validRoles[role] {
		return nil, orm.Pagination{}, fmt.Errorf("%w: unknown role %q", ErrInvalid, role)
	}
	return s.users.All(role, page, limit)
}

// SetRole converts an account to another role.
func (s *AdminService) SetRole(userID uint, role string, actorID uint) (models.User, error) {
	if !validRoles[role] {
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalid, role)
	}
	// An admin demoting themselves locks everyone out of admin if they
	// are the last one; refuse self-demotion outright.
	if userID == actorID {
		return models.User{}, fmt.Errorf("%w: cannot change own role", ErrInvalid)
	}

	user, err := s.load(userID)
	if err != nil {
		return models.User{}, err
	}

	user.Role = role
	if err := s.users.Update(&user); err != nil {
		return models.User{}, err
	}
	logger.Info("role converted", "user_id", userID, "role", role, "actor", actorID)
	return user, nil
}

// SetBlocked flips the blocked flag. Blocked accounts cannot log in;
// their existing tokens die at the next refresh.
func (s *AdminService) SetBlocked(userID uint, blocked bool, actorID uint) (models.User, error) {
	if userID == actorID {
		return models.User{}, fmt.Errorf("%w: cannot block own account", ErrInvalid)
	}

	user, err := s.load(userID)
	if err != nil {
		return models.User{}, err
	}

	user.Blocked = blocked
	if err := s.users.Update(&user); err != nil {
		return models.User{}, err
	}
	logger.Info("blocked flag set", "user_id", userID, "blocked", blocked, "actor", actorID)
	return user, nil
}

// ResetCredentials replaces an account's password.
func (s *AdminService) ResetCredentials(userID uint, newPassword string, actorID uint) error {
	user, err := s.load(userID)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash
	if err := s.users.Update(&user); err != nil {
		return err
	}
	logger.Info("credentials reset", "user_id", userID, "actor", actorID)
	return nil
}

// Stats assembles the dashboard snapshot.
func (s *AdminService) Stats() (Dashboard, error) {
	usersByRole, err := s.users.CountByRole()
	if err != nil {
		return Dashboard{}, err
	}
	ordersByStatus, err := s.orders.CountByStatus()
	if err != nil {
		return Dashboard{}, err
	}
	revenue, err := s.orders.Revenue()
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := s.orders.Since(time.Now().UTC().Add(-dashboardWindow))
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		UsersByRole:    usersByRole,
		OrdersByStatus: ordersByStatus,
		OrdersByDay:    groupByDay(recent),
		Revenue:        revenue,
	}, nil
}

func groupByDay(orders []models.Order) []DayStat {
	grouped := collection.GroupBy(orders, func(o models.Order) string {
		return o.CreatedAt.UTC().Format("2006-01-02")
	})
	stats := make([]DayStat, 0, len(grouped))
	for day, batch := range grouped {
		stats = append(stats, DayStat{
			Day:   day,
			Count: len(batch),
			Total: collection.SumBy(batch, func(o models.Order) float64 { return o.Total }),
		})
	}
	return collection.SortBy(stats, func(a, b DayStat) bool { return a.Day < b.Day })
}

func (s *AdminService) load(userID uint) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
