package trip

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"backend-yatra/internal/apperr"
	"backend-yatra/internal/kv"
)

// DocumentLinker moves documents captured under a planning session onto a trip.
type DocumentLinker interface {
	TransferSession(ctx context.Context, userID, sessionID, tripID string) (int64, error)
}

type Service struct {
	store kv.Store
	docs  DocumentLinker
	now   func() time.Time

	// Guards the read-modify-write of each user's list.
	mu sync.Mutex
}

// NewService stores trips in store. docs may be nil.
func NewService(store kv.Store, docs DocumentLinker) *Service {
	return &Service{store: store, docs: docs, now: time.Now}
}

func listKey(userID string) string {
	return "upcoming_trips:" + userID
}

// Create validates the form and prepends the resulting trip to the user's list.
func (s *Service) Create(ctx context.Context, userID string, form Form) (Trip, error) {
	form.ResizePassengers()
	if err := Validate(form); err != nil {
		return Trip{}, err
	}

	t := Trip{
		ID:              uuid.NewString(),
		Kind:            form.Kind,
		Heading:         Heading,
		FromAddress:     form.StartingPoint,
		ToAddress:       form.Destination,
		DepartureDate:   form.DepartureDate,
		ReturnDate:      form.ReturnDate,
		Cities:          form.Cities,
		Purpose:         form.Purpose,
		ModeOfTransport: form.ModeOfTransport,
		Passengers:      form.Passengers,
		CreatedAt:       s.now().UTC(),
	}
	if t.Passengers == nil {
		t.Passengers = []Passenger{}
	}
	if form.Kind == MultiCity {
		t.ToAddress = form.Cities[len(form.Cities)-1].To
		t.DepartureDate = form.Cities[0].DepartureDate
	}

	s.mu.Lock()
	trips, err := s.load(ctx, userID)
	if err != nil {
		s.mu.Unlock()
		return Trip{}, err
	}
	s.save(ctx, userID, append([]Trip{t}, trips...))
	s.mu.Unlock()

	if s.docs != nil && form.SessionID != "" {
		n, err := s.docs.TransferSession(ctx, userID, form.SessionID, t.ID)
		if err != nil {
			slog.Error("transfer session documents", "trip_id", t.ID, "session_id", form.SessionID, "err", err)
		} else if n > 0 {
			slog.Debug("session documents moved", "trip_id", t.ID, "count", n)
		}
	}
	return t, nil
}

// List returns the user's trips, newest first. An unreadable list reads as
// empty.
func (s *Service) List(ctx context.Context, userID string) []Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	trips, err := s.load(ctx, userID)
	if err != nil {
		slog.Error("load trips", "user_id", userID, "err", err)
		return []Trip{}
	}
	return trips
}

func (s *Service) Get(ctx context.Context, userID, id string) (Trip, error) {
	for _, t := range s.List(ctx, userID) {
		if t.ID == id {
			return t, nil
		}
	}
	return Trip{}, fmt.Errorf("trip %s: %w", id, apperr.ErrNotFound)
}

// Delete removes the trip with id and keeps the rest in order.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trips, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	for i, t := range trips {
		if t.ID != id {
			continue
		}
		kept := make([]Trip, 0, len(trips)-1)
		kept = append(kept, trips[:i]...)
		kept = append(kept, trips[i+1:]...)
		s.save(ctx, userID, kept)
		return nil
	}
	return fmt.Errorf("trip %s: %w", id, apperr.ErrNotFound)
}

// load reads the stored list. A failed read is returned so that writers never
// replace a list they could not see.
func (s *Service) load(ctx context.Context, userID string) ([]Trip, error) {
	var trips []Trip
	if _, err := kv.GetJSON(ctx, s.store, listKey(userID), &trips); err != nil {
		return nil, fmt.Errorf("trips %s: %w", userID, err)
	}
	if trips == nil {
		trips = []Trip{}
	}
	return trips, nil
}

func (s *Service) save(ctx context.Context, userID string, trips []Trip) {
	if err := kv.SetJSON(ctx, s.store, listKey(userID), trips); err != nil {
		slog.Error("save trips", "user_id", userID, "err", err)
	}
}
