package service

import (
	"context"
	"strings"
	"sync"

	"bbwaitlist/internal/models"

	"gorm.io/gorm"
)

// memUserStore is an in-memory UserStore. The mutex serializes
// CreateWithPosition the way the real store's advisory lock does.
type memUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User

	// countdown of ReferralCodeExists calls forced to report a collision
	forceCollisions int

	failCreate    error
	failIncrement error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uint]*models.User)}
}

func (s *memUserStore) seed(u *models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u.ID = s.nextID
	u.WaitlistPosition = len(s.users) + 1
	s.users[u.ID] = u
	return u
}

func (s *memUserStore) GetByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memUserStore) GetByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memUserStore) GetByReferralCode(code string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memUserStore) ReferralCodeExists(code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forceCollisions > 0 {
		s.forceCollisions--
		return true, nil
	}
	for _, u := range s.users {
		if u.ReferralCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *memUserStore) CreateWithPosition(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate != nil {
		return s.failCreate
	}
	s.nextID++
	u.ID = s.nextID
	u.WaitlistPosition = len(s.users) + 1
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) IncrementReferralCount(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIncrement != nil {
		return s.failIncrement
	}
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.ReferralCount++
	return nil
}

func (s *memUserStore) SetStripeCustomer(id uint, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.StripeCustomerID = &customerID
	return nil
}

func (s *memUserStore) SavePaymentMethod(id uint, paymentMethodID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.StripePaymentMethodID = &paymentMethodID
	u.PaymentCompleted = true
	return nil
}

func (s *memUserStore) Count() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

type memReferralStore struct {
	mu       sync.Mutex
	edges    []models.Referral
	failNext error
}

func (s *memReferralStore) Create(r *models.Referral) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNext; err != nil {
		s.failNext = nil
		return err
	}
	for _, e := range s.edges {
		if e.RefereeID == r.RefereeID {
			return gorm.ErrDuplicatedKey
		}
	}
	s.edges = append(s.edges, *r)
	return nil
}

type memMailer struct {
	mu          sync.Mutex
	welcomes    []uint // user ids
	referrals   []uint // referrer ids
	failWelcome error
}

func (m *memMailer) SendWelcome(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failWelcome; err != nil {
		m.failWelcome = nil
		return err
	}
	m.welcomes = append(m.welcomes, u.ID)
	return nil
}

func (m *memMailer) SendReferralSuccess(ctx context.Context, referrer *models.User, refereeFirstName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.referrals = append(m.referrals, referrer.ID)
	return nil
}

type memEmailLogStore struct {
	mu   sync.Mutex
	logs []models.EmailLog
}

func (s *memEmailLogStore) Create(l *models.EmailLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = uint(len(s.logs) + 1)
	s.logs = append(s.logs, *l)
	return nil
}
