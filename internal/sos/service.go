package sos

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"backend-yatra/internal/apperr"
	"backend-yatra/internal/db"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Directory never fails: if personal contacts cannot be read the helplines
// are still returned.
func (s *Service) Directory(ctx context.Context, userID string) Directory {
	personal, err := s.Personal(ctx, userID)
	if err != nil {
		slog.Error("load personal contacts", "user_id", userID, "err", err)
		personal = []Contact{}
	}
	return Directory{National: National(), Personal: personal}
}

func (s *Service) Personal(ctx context.Context, userID string) ([]Contact, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, subtitle, numbers
		FROM emergency_contacts
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	contacts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Contact, error) {
		var c Contact
		err := row.Scan(&c.ID, &c.Title, &c.Subtitle, &c.Numbers)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	if contacts == nil {
		contacts = []Contact{}
	}
	return contacts, nil
}

func (s *Service) AddPersonal(ctx context.Context, userID string, req ContactRequest) (Contact, error) {
	c := Contact{
		ID:       uuid.NewString(),
		Title:    strings.TrimSpace(req.Title),
		Subtitle: strings.TrimSpace(req.Subtitle),
	}
	for _, n := range req.Numbers {
		if n = strings.TrimSpace(n); n != "" {
			c.Numbers = append(c.Numbers, n)
		}
	}

	verr := apperr.NewValidationError()
	if c.Title == "" {
		verr.Add("title", "Please enter a name")
	}
	if len(c.Numbers) == 0 {
		verr.Add("numbers", "Please enter at least one number")
	}
	if !verr.Empty() {
		return Contact{}, verr
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO emergency_contacts (id, user_id, title, subtitle, numbers)
		VALUES ($1,$2,$3,$4,$5)
	`, c.ID, userID, c.Title, c.Subtitle, c.Numbers)
	if err != nil {
		return Contact{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return c, nil
}

func (s *Service) DeletePersonal(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM emergency_contacts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contact %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
