package repository

import (
	"time"

	"bbwaitlist/internal/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalUsers     int64            `json:"total_users"`
	TodaySignups   int64            `json:"today_signups"`
	TotalReferrals int64            `json:"total_referrals"`
	ConversionRate int              `json:"conversion_rate"` // % of signups that came via a referral
	TopReferrers   []ReferrerEntry  `json:"top_referrers"`
	RecentSignups  []RecentSignup   `json:"recent_signups"`
}

type ReferrerEntry struct {
	Name          string `json:"name"`
	ReferralCount int    `json:"referral_count"`
	Position      int    `json:"position"`
}

type RecentSignup struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type CountByDate struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type CountByLabel struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type TopReferralCode struct {
	Code     string `json:"code"`
	Count    int    `json:"count"`
	UserName string `json:"user_name"`
}

type Analytics struct {
	SignupsByDate         []CountByDate     `json:"signups_by_date"`
	SignupsByNeighborhood []CountByLabel    `json:"signups_by_neighborhood"`
	SignupsByAgeRange     []CountByLabel    `json:"signups_by_age_range"`
	SignupsByOccupation   []CountByLabel    `json:"signups_by_occupation"`
	ReferralStats         ReferralStats     `json:"referral_stats"`
	ConversionFunnel      ConversionFunnel  `json:"conversion_funnel"`
}

type ReferralStats struct {
	TotalReferrals          int64             `json:"total_referrals"`
	UsersWithReferrals      int64             `json:"users_with_referrals"`
	AverageReferralsPerUser float64           `json:"average_referrals_per_user"`
	TopReferralCodes        []TopReferralCode `json:"top_referral_codes"`
}

type ConversionFunnel struct {
	TotalSignups   int64 `json:"total_signups"`
	WithPayment    int64 `json:"with_payment"`
	WithReferrals  int64 `json:"with_referrals"`
	ConversionRate int   `json:"conversion_rate"` // % of signups with a saved payment method
}

// AdminRepository serves the dashboard's read-side aggregation queries.
type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	var s DashboardStats
	if err := r.db.Model(&models.User{}).Count(&s.TotalUsers).Error; err != nil {
		return nil, err
	}
	today := time.Now().Truncate(24 * time.Hour)
	r.db.Model(&models.User{}).Where("created_at >= ?", today).Count(&s.TodaySignups)
	r.db.Model(&models.User{}).Where("referred_by IS NOT NULL").Count(&s.TotalReferrals)
	if s.TotalUsers > 0 {
		s.ConversionRate = int(float64(s.TotalReferrals) / float64(s.TotalUsers) * 100)
	}

	var top []models.User
	r.db.Where("referral_count > 0").Order("referral_count DESC").Limit(5).Find(&top)
	for _, u := range top {
		s.TopReferrers = append(s.TopReferrers, ReferrerEntry{
			Name:          u.FullName(),
			ReferralCount: u.ReferralCount,
			Position:      u.WaitlistPosition,
		})
	}

	var recent []models.User
	r.db.Order("created_at DESC").Limit(5).Find(&recent)
	for _, u := range recent {
		s.RecentSignups = append(s.RecentSignups, RecentSignup{
			ID:        u.ID,
			Name:      u.FullName(),
			Email:     u.Email,
			Position:  u.WaitlistPosition,
			CreatedAt: u.CreatedAt,
		})
	}
	return &s, nil
}

// ListUsers returns users with search and pagination, ordered by position.
func (r *AdminRepository) ListUsers(search string, page, limit int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR referral_code ILIKE ?", like, like, like, like)
	}
	var total int64
	q.Count(&total)
	var users []models.User
	err := q.Order("waitlist_position ASC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	return users, total, err
}

func (r *AdminRepository) GetUserByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser applies a pre-whitelisted field patch.
func (r *AdminRepository) UpdateUser(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// ListAllOrdered returns every user by ascending position, for CSV export.
func (r *AdminRepository) ListAllOrdered() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("waitlist_position ASC").Find(&users).Error
	return users, err
}

func (r *AdminRepository) GetAnalytics(since time.Time) (*Analytics, error) {
	var a Analytics
	base := func() *gorm.DB {
		return r.db.Model(&models.User{}).Where("created_at >= ?", since)
	}

	err := base().
		Select("to_char(created_at, 'YYYY-MM-DD') AS date, COUNT(*) AS count").
		Group("date").Order("date ASC").
		Scan(&a.SignupsByDate).Error
	if err != nil {
		return nil, err
	}

	base().
		Select("neighborhood AS label, COUNT(*) AS count").
		Group("neighborhood").Order("count DESC").
		Scan(&a.SignupsByNeighborhood)

	base().
		Select("age_range AS label, COUNT(*) AS count").
		Group("age_range").Order("label ASC").
		Scan(&a.SignupsByAgeRange)

	base().
		Select("occupation AS label, COUNT(*) AS count").
		Group("occupation").Order("count DESC").Limit(10).
		Scan(&a.SignupsByOccupation)

	var sum struct{ Total int64 }
	base().Select("COALESCE(SUM(referral_count), 0) AS total").Scan(&sum)
	a.ReferralStats.TotalReferrals = sum.Total
	base().Where("referral_count > 0").Count(&a.ReferralStats.UsersWithReferrals)
	if a.ReferralStats.UsersWithReferrals > 0 {
		a.ReferralStats.AverageReferralsPerUser =
			float64(a.ReferralStats.TotalReferrals) / float64(a.ReferralStats.UsersWithReferrals)
	}

	var top []models.User
	base().Where("referral_count > 0").Order("referral_count DESC").Limit(5).Find(&top)
	for _, u := range top {
		a.ReferralStats.TopReferralCodes = append(a.ReferralStats.TopReferralCodes, TopReferralCode{
			Code:     u.ReferralCode,
			Count:    u.ReferralCount,
			UserName: u.FullName(),
		})
	}

	base().Count(&a.ConversionFunnel.TotalSignups)
	base().Where("payment_completed = ?", true).Count(&a.ConversionFunnel.WithPayment)
	base().Where("referral_count > 0").Count(&a.ConversionFunnel.WithReferrals)
	if a.ConversionFunnel.TotalSignups > 0 {
		a.ConversionFunnel.ConversionRate =
			int(float64(a.ConversionFunnel.WithPayment) / float64(a.ConversionFunnel.TotalSignups) * 100)
	}
	return &a, nil
}
