package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"socialnet/internal/mailer"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// fakeUserRepository is an in-memory UserRepository.
type fakeUserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User
	pages  map[string]uint
	groups map[string]uint
	err    error
}

var _ repository.UserRepository = (*fakeUserRepository)(nil)

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users:  map[uint]*model.User{},
		pages:  map[string]uint{},
		groups: map[string]uint{},
	}
}

func (r *fakeUserRepository) add(u model.User) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = &u
	cp := u
	return &cp
}

func (r *fakeUserRepository) get(id uint) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (r *fakeUserRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *fakeUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepository) find(match func(u *model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepository) FindByID(_ context.Context, id uint) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *fakeUserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *fakeUserRepository) FindNameOwner(ctx context.Context, kind model.EntityKind, name string) (uint, error) {
	switch kind {
	case model.EntityUser:
		u, err := r.FindByUsername(ctx, name)
		if err != nil {
			return 0, err
		}
		return u.ID, nil
	case model.EntityPage, model.EntityGroup:
		r.mu.Lock()
		defer r.mu.Unlock()
		names := r.pages
		if kind == model.EntityGroup {
			names = r.groups
		}
		if id, ok := names[name]; ok {
			return id, nil
		}
		return 0, gorm.ErrRecordNotFound
	default:
		return 0, fmt.Errorf("unsupported entity kind %q", kind)
	}
}

func (r *fakeUserRepository) update(id uint, fn func(u *model.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if u, ok := r.users[id]; ok {
		fn(u)
	}
	return nil
}

func (r *fakeUserRepository) SetPasswordResetOTP(_ context.Context, userID uint, otp string, expires time.Time) error {
	return r.update(userID, func(u *model.User) {
		u.PasswordResetOTP = &otp
		u.PasswordResetExpires = &expires
	})
}

func (r *fakeUserRepository) ResetPassword(_ context.Context, userID uint, otp, hash string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	u, ok := r.users[userID]
	if !ok || u.PasswordResetOTP == nil || *u.PasswordResetOTP != otp ||
		u.PasswordResetExpires == nil || u.PasswordResetExpires.Before(now) {
		return false, nil
	}
	u.PasswordHash = hash
	u.PasswordResetOTP = nil
	u.PasswordResetExpires = nil
	return true, nil
}

func (r *fakeUserRepository) RecordFailedLogin(_ context.Context, userID uint, count int, first time.Time) error {
	return r.update(userID, func(u *model.User) {
		u.FailedLoginCount = count
		u.FirstFailedLogin = &first
	})
}

func (r *fakeUserRepository) ResetFailedLogins(_ context.Context, userID uint, now time.Time) error {
	return r.update(userID, func(u *model.User) {
		u.FailedLoginCount = 0
		u.FirstFailedLogin = nil
		u.LastLogin = &now
	})
}

func (r *fakeUserRepository) SetVerificationCode(_ context.Context, userID uint, code string) error {
	return r.update(userID, func(u *model.User) { u.EmailVerificationCode = &code })
}

func (r *fakeUserRepository) Activate(_ context.Context, userID uint, code string, approve bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.EmailVerificationCode == nil || *u.EmailVerificationCode != code {
		return false, nil
	}
	u.Activated = true
	u.EmailVerificationCode = nil
	if approve {
		u.Approved = true
	}
	return true, nil
}

// fakeBlacklistRepository bans exact values per type.
type fakeBlacklistRepository struct {
	banned map[model.BlacklistType]map[string]bool
	err    error
}

func newFakeBlacklist() *fakeBlacklistRepository {
	return &fakeBlacklistRepository{banned: map[model.BlacklistType]map[string]bool{}}
}

func (r *fakeBlacklistRepository) ban(t model.BlacklistType, value string) {
	if r.banned[t] == nil {
		r.banned[t] = map[string]bool{}
	}
	r.banned[t][value] = true
}

func (r *fakeBlacklistRepository) IsBlacklisted(_ context.Context, t model.BlacklistType, values ...string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for _, v := range values {
		if r.banned[t][v] {
			return true, nil
		}
	}
	return false, nil
}

// fakeSessionRepository records inserted sessions.
type fakeSessionRepository struct {
	mu       sync.Mutex
	sessions []model.Session
	err      error
}

func (r *fakeSessionRepository) Create(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	s.ID = uint(len(r.sessions) + 1)
	r.sessions = append(r.sessions, *s)
	return nil
}

func (r *fakeSessionRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// fakeEventRepository keeps events and members in memory. WithTransaction
// restores a snapshot when fn fails.
type fakeEventRepository struct {
	mu      sync.Mutex
	events  map[uint]*model.Event
	members map[[2]uint]*model.EventMember
	writes  int

	failUpdateCounters error
}

func newFakeEventRepository() *fakeEventRepository {
	return &fakeEventRepository{
		events:  map[uint]*model.Event{},
		members: map[[2]uint]*model.EventMember{},
	}
}

func (r *fakeEventRepository) Create(_ context.Context, e *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uint(len(r.events) + 1)
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *fakeEventRepository) FindByID(_ context.Context, id uint) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Event, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeEventRepository) findMember(eventID, userID uint) (*model.EventMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[[2]uint{eventID, userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeEventRepository) member(eventID, userID uint) *model.EventMember {
	key := [2]uint{eventID, userID}
	m, ok := r.members[key]
	if !ok {
		m = &model.EventMember{ID: uint(len(r.members) + 1), EventID: eventID, UserID: userID}
		r.members[key] = m
	}
	return m
}

func (r *fakeEventRepository) UpsertRSVP(_ context.Context, eventID, userID uint, interested, going bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	m := r.member(eventID, userID)
	m.IsInvited = false
	m.IsInterested = interested
	m.IsGoing = going
	return nil
}

func (r *fakeEventRepository) UpsertInvite(_ context.Context, eventID, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.member(eventID, userID).IsInvited = true
	return nil
}

func (r *fakeEventRepository) CountMembers(_ context.Context, eventID uint) (model.EventCounters, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.liveCounts(eventID), nil
}

func (r *fakeEventRepository) liveCounts(eventID uint) model.EventCounters {
	var c model.EventCounters
	for _, m := range r.members {
		if m.EventID != eventID {
			continue
		}
		if m.IsInvited {
			c.Invited++
		}
		if m.IsInterested {
			c.Interested++
		}
		if m.IsGoing {
			c.Going++
		}
	}
	return c
}

func (r *fakeEventRepository) UpdateCounters(_ context.Context, eventID uint, c model.EventCounters) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdateCounters != nil {
		return r.failUpdateCounters
	}
	r.writes++
	if e, ok := r.events[eventID]; ok {
		e.Invited, e.Interested, e.Going = c.Invited, c.Interested, c.Going
	}
	return nil
}

func (r *fakeEventRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.EventRepository) error) error {
	r.mu.Lock()
	events := make(map[uint]model.Event, len(r.events))
	for k, v := range r.events {
		events[k] = *v
	}
	members := make(map[[2]uint]model.EventMember, len(r.members))
	for k, v := range r.members {
		members[k] = *v
	}
	r.mu.Unlock()

	if err := fn(ctx, r); err != nil {
		r.mu.Lock()
		r.events = make(map[uint]*model.Event, len(events))
		for k, v := range events {
			v := v
			r.events[k] = &v
		}
		r.members = make(map[[2]uint]*model.EventMember, len(members))
		for k, v := range members {
			v := v
			r.members[k] = &v
		}
		r.mu.Unlock()
		return err
	}
	return nil
}

// fakePackageRepository serves packages from a map.
type fakePackageRepository struct {
	packages map[uint]*model.Package
	calls    int
}

func (r *fakePackageRepository) FindByID(_ context.Context, id uint) (*model.Package, error) {
	r.calls++
	p, ok := r.packages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

// memoryCache is an in-process cache.Store.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if data, err := json.Marshal(value); err == nil {
		c.data[key] = data
	}
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
}

// MockMailer is a mock implementation of mailer.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// recordingMailer keeps every message it is asked to send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *recordingMailer) last() mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}
