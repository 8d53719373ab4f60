package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/loopmarket/service-rental/internal/domain/booking"
	"github.com/loopmarket/service-rental/internal/domain/item"
	"github.com/loopmarket/service-rental/internal/domain/user"
	"github.com/loopmarket/service-rental/internal/platform/apperrors"
)

// fakeUserRepo is an in-memory user.Repository for service tests.
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint64]*user.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*user.User{}, nextID: 1}
}

func (f *fakeUserRepo) add(name, email string) *user.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := user.Reconstruct(f.nextID, name, email)
	f.users[f.nextID] = u
	f.nextID++
	return u
}

func (f *fakeUserRepo) Save(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email() == u.Email() {
			return apperrors.NewConflict("email " + u.Email() + " is already registered")
		}
	}
	u.SetID(f.nextID)
	f.users[f.nextID] = u
	f.nextID++
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID()] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint64) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.NewNotFound("user", id)
	}
	return copyUser(u), nil
}

func (f *fakeUserRepo) FindByIDs(_ context.Context, ids []uint64) (map[uint64]*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uint64]*user.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = copyUser(u)
		}
	}
	return out, nil
}

// fakeItemRepo is an in-memory item.Repository for service tests.
type fakeItemRepo struct {
	mu     sync.Mutex
	items  map[uint64]*item.Item
	nextID uint64
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[uint64]*item.Item{}, nextID: 1}
}

func (f *fakeItemRepo) add(ownerID uint64, name string, available bool) *item.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	itm := item.Reconstruct(f.nextID, name, name+" description", available, ownerID)
	f.items[f.nextID] = itm
	f.nextID++
	return itm
}

func (f *fakeItemRepo) Save(_ context.Context, itm *item.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	itm.SetID(f.nextID)
	f.items[f.nextID] = itm
	f.nextID++
	return nil
}

func (f *fakeItemRepo) Update(_ context.Context, itm *item.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[itm.ID()] = itm
	return nil
}

func (f *fakeItemRepo) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) FindByID(_ context.Context, id uint64) (*item.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	itm, ok := f.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("item", id)
	}
	return copyItem(itm), nil
}

func (f *fakeItemRepo) FindByIDs(_ context.Context, ids []uint64) (map[uint64]*item.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uint64]*item.Item{}
	for _, id := range ids {
		if itm, ok := f.items[id]; ok {
			out[id] = copyItem(itm)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) FindByOwner(_ context.Context, ownerID uint64, offset, limit int) ([]*item.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*item.Item
	for _, itm := range f.items {
		if itm.IsOwnedBy(ownerID) {
			list = append(list, copyItem(itm))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID() < list[j].ID() })
	return window(list, offset, limit), nil
}

func (f *fakeItemRepo) Search(_ context.Context, text string, offset, limit int) ([]*item.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*item.Item
	for _, itm := range f.items {
		if itm.Available() && (contains(itm.Name(), text) || contains(itm.Description(), text)) {
			list = append(list, copyItem(itm))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID() < list[j].ID() })
	return window(list, offset, limit), nil
}

// fakeBookingRepo is an in-memory booking.Repository implementing the same
// ordering and tie-break rules as the Postgres repository. Reads return
// reconstructed copies, matching the store: a caller mutating a loaded
// booking must go through UpdateStatusIfWaiting to change what is persisted.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uint64]*booking.Booking
	owners   map[uint64]uint64 // item id -> owner id, for FindByOwner
	nextID   uint64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: map[uint64]*booking.Booking{},
		owners:   map[uint64]uint64{},
		nextID:   1,
	}
}

func (f *fakeBookingRepo) setOwner(itemID, ownerID uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owners[itemID] = ownerID
}

func (f *fakeBookingRepo) seed(itemID, bookerID uint64, start, end time.Time, status booking.Status) *booking.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	b := booking.Reconstruct(f.nextID, itemID, bookerID, start, end, status, now, now)
	f.bookings[f.nextID] = b
	f.nextID++
	return copyBooking(b)
}

func (f *fakeBookingRepo) Save(_ context.Context, b *booking.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.SetID(f.nextID)
	f.bookings[f.nextID] = b
	f.nextID++
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uint64) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, apperrors.NewNotFound("booking", id)
	}
	return copyBooking(b), nil
}

func (f *fakeBookingRepo) FindByBooker(_ context.Context, bookerID uint64, filter booking.StateFilter, page booking.Page) ([]*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectLocked(func(b *booking.Booking) bool { return b.BookerID() == bookerID }, filter, page), nil
}

func (f *fakeBookingRepo) FindByOwner(_ context.Context, ownerID uint64, filter booking.StateFilter, page booking.Page) ([]*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectLocked(func(b *booking.Booking) bool { return f.owners[b.ItemID()] == ownerID }, filter, page), nil
}

func (f *fakeBookingRepo) UpdateStatusIfWaiting(_ context.Context, id uint64, target booking.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status() != booking.StatusWaiting {
		return booking.ErrStatusAlreadySet
	}
	f.bookings[id] = booking.Reconstruct(b.ID(), b.ItemID(), b.BookerID(), b.Start(), b.End(), target, b.CreatedAt(), time.Now().UTC())
	return nil
}

func (f *fakeBookingRepo) LastForItem(_ context.Context, itemID uint64, now time.Time) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b := f.lastLocked(itemID, now); b != nil {
		return copyBooking(b), nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) NextForItem(_ context.Context, itemID uint64, now time.Time) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b := f.nextLocked(itemID, now); b != nil {
		return copyBooking(b), nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) LastForItems(_ context.Context, itemIDs []uint64, now time.Time) (map[uint64]*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uint64]*booking.Booking{}
	for _, id := range itemIDs {
		if b := f.lastLocked(id, now); b != nil {
			out[id] = copyBooking(b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) NextForItems(_ context.Context, itemIDs []uint64, now time.Time) (map[uint64]*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uint64]*booking.Booking{}
	for _, id := range itemIDs {
		if b := f.nextLocked(id, now); b != nil {
			out[id] = copyBooking(b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) selectLocked(match func(*booking.Booking) bool, filter booking.StateFilter, page booking.Page) []*booking.Booking {
	status, restricted := filter.Status()
	var list []*booking.Booking
	for _, b := range f.bookings {
		if !match(b) {
			continue
		}
		if restricted && b.Status() != status {
			continue
		}
		list = append(list, copyBooking(b))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Start().After(list[j].Start()) })
	return window(list, page.Offset, page.Limit)
}

func (f *fakeBookingRepo) lastLocked(itemID uint64, now time.Time) *booking.Booking {
	var best *booking.Booking
	for _, b := range f.bookings {
		if b.ItemID() != itemID || b.Status() != booking.StatusApproved || !b.End().Before(now) {
			continue
		}
		if best == nil || b.End().After(best.End()) || (b.End().Equal(best.End()) && b.ID() > best.ID()) {
			best = b
		}
	}
	return best
}

func (f *fakeBookingRepo) nextLocked(itemID uint64, now time.Time) *booking.Booking {
	var best *booking.Booking
	for _, b := range f.bookings {
		if b.ItemID() != itemID || b.Status() != booking.StatusApproved || !b.Start().After(now) {
			continue
		}
		if best == nil || b.Start().Before(best.Start()) || (b.Start().Equal(best.Start()) && b.ID() < best.ID()) {
			best = b
		}
	}
	return best
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Type string
	Key  string
	Data any
}

func (r *recordingPublisher) Publish(_ context.Context, eventType, key string, data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, publishedEvent{Type: eventType, Key: key, Data: data})
	return nil
}

func (r *recordingPublisher) published() []publishedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]publishedEvent(nil), r.events...)
}

// The copy helpers mirror the real repositories, which reconstruct a fresh
// domain object per read instead of handing out shared state.

func copyUser(u *user.User) *user.User {
	return user.Reconstruct(u.ID(), u.Name(), u.Email())
}

func copyItem(i *item.Item) *item.Item {
	return item.Reconstruct(i.ID(), i.Name(), i.Description(), i.Available(), i.OwnerID())
}

func copyBooking(b *booking.Booking) *booking.Booking {
	return booking.Reconstruct(b.ID(), b.ItemID(), b.BookerID(), b.Start(), b.End(), b.Status(), b.CreatedAt(), b.UpdatedAt())
}

func window[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

func contains(haystack, needle string) bool {
	return needle != "" && strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
