package service_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"stays/internal/domains/booking/model"
	"stays/internal/domains/booking/repository"
	gDto "stays/shared/dto"
)

// memoryStore is a booking repository that evaluates the same filters the Postgres
// repository renders, so overlap and ownership rules are exercised for real.
type memoryStore struct {
	mu       sync.Mutex
	bookings []model.Booking
	inserts  int
}

var _ repository.Booking = (*memoryStore)(nil)

func (m *memoryStore) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if matches(b, filter) {
			return b, nil
		}
	}

	return model.Booking{}, nil
}

func (m *memoryStore) GetAll(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := []model.Booking{}

	for _, b := range m.bookings {
		if matches(b, filter) {
			res = append(res, b)
		}
	}

	return res, nil
}

func (m *memoryStore) Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error) {
	n, err := m.Count(ctx, filter)

	return n > 0, err
}

func (m *memoryStore) Count(_ context.Context, filter gDto.FilterGroup) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0

	for _, b := range m.bookings {
		if matches(b, filter) {
			n++
		}
	}

	return n, nil
}

func (m *memoryStore) InsertIfNoConflict(_ context.Context, booking model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	overlap := repository.OverlapFilter(booking.RoomID, booking.CheckInDate, booking.CheckOutDate)

	for _, b := range m.bookings {
		if matches(b, overlap) {
			return repository.ErrOverlap
		}
	}

	m.bookings = append(m.bookings, booking)
	m.inserts++

	return nil
}

func (m *memoryStore) UpdateStatus(_ context.Context, id string, from, to model.Status, user string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.bookings {
		if m.bookings[i].ID == id && m.bookings[i].Status == from {
			m.bookings[i].Status = to
			m.bookings[i].ModifiedBy = user

			return true, nil
		}
	}

	return false, nil
}

func (m *memoryStore) status(id string) model.Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if b.ID == id {
			return b.Status
		}
	}

	return ""
}

func (m *memoryStore) createdBy(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if b.ID == id {
			return b.CreatedBy
		}
	}

	return ""
}

func matches(b model.Booking, filter any) bool {
	switch f := filter.(type) {
	case gDto.FilterGroup:
		or := f.Operator == gDto.FilterGroupOperatorOr

		for _, child := range f.Filters {
			ok := matches(b, child)
			if or && ok {
				return true
			}

			if !or && !ok {
				return false
			}
		}

		return !or || len(f.Filters) == 0
	case gDto.Filter:
		return matchFilter(b, f)
	default:
		panic(fmt.Sprintf("unexpected filter %T", filter))
	}
}

func matchFilter(b model.Booking, f gDto.Filter) bool {
	var value any

	switch f.Field {
	case model.FieldID:
		value = b.ID
	case model.FieldRoomID:
		value = b.RoomID
	case model.FieldStatus:
		value = string(b.Status)
	case model.FieldUserID:
		value = b.UserID.String
	case model.FieldCheckInDate:
		value = b.CheckInDate
	case model.FieldCheckOutDate:
		value = b.CheckOutDate
	default:
		panic("unsupported field " + f.Field)
	}

	switch f.Operator {
	case gDto.FilterOperatorEq:
		return fmt.Sprint(value) == fmt.Sprint(f.Value)
	case gDto.FilterOperatorIn:
		values, _ := f.Value.([]string)

		return slices.Contains(values, fmt.Sprint(value))
	case gDto.FilterOperatorLessEq:
		return !value.(time.Time).After(f.Value.(time.Time))
	case gDto.FilterOperatorGreaterEq:
		return !value.(time.Time).Before(f.Value.(time.Time))
	default:
		panic("unsupported operator " + f.Operator)
	}
}
