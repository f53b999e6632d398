package documents

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"backend-yatra/internal/apperr"
	"backend-yatra/internal/db"
)

type Service struct {
	db      db.Querier
	baseURL string
}

func NewService(db db.Querier, baseURL string) *Service {
	return &Service{db: db, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Service) Upload(ctx context.Context, userID string, req UploadRequest) (Document, error) {
	verr := apperr.NewValidationError()
	if req.SessionID == "" && req.TripID == "" {
		verr.Add("session_id", "session_id or trip_id is required")
	}
	if req.Source != Camera && req.Source != Gallery {
		verr.Add("source", "source must be camera or gallery")
	}
	if !verr.Empty() {
		return Document{}, verr
	}
	if req.FileName == "" {
		req.FileName = "upload.jpg"
	}

	doc := Document{
		ID:        uuid.NewString(),
		UserID:    userID,
		SessionID: req.SessionID,
		Source:    req.Source,
		Kind:      req.Kind,
		FileName:  req.FileName,
	}
	if req.TripID != "" {
		doc.TripID = &req.TripID
	}
	doc.URL = s.baseURL + "/" + doc.ID + "/" + doc.FileName

	row := s.db.QueryRow(ctx, `
		INSERT INTO trip_documents (id, user_id, session_id, trip_id, url, source, kind, file_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, doc.ID, doc.UserID, doc.SessionID, doc.TripID, doc.URL, string(doc.Source), doc.Kind, doc.FileName)
	if err := row.Scan(&doc.CreatedAt); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *Service) ListBySession(ctx context.Context, userID, sessionID string) ([]Document, error) {
	return s.list(ctx, `
		SELECT id, user_id, session_id, COALESCE(trip_id, ''), url, source, kind, file_name, created_at
		FROM trip_documents
		WHERE user_id = $1 AND session_id = $2
		ORDER BY created_at
	`, userID, sessionID)
}

func (s *Service) ListByTrip(ctx context.Context, userID, tripID string) ([]Document, error) {
	return s.list(ctx, `
		SELECT id, user_id, session_id, COALESCE(trip_id, ''), url, source, kind, file_name, created_at
		FROM trip_documents
		WHERE user_id = $1 AND trip_id = $2
		ORDER BY created_at
	`, userID, tripID)
}

// TransferSession moves everything captured in a planning session onto the
// trip created from it and reports how many documents moved.
func (s *Service) TransferSession(ctx context.Context, userID, sessionID, tripID string) (int64, error) {
	if sessionID == "" {
		return 0, nil
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE trip_documents
		SET trip_id = $1, session_id = ''
		WHERE user_id = $2 AND session_id = $3
	`, tripID, userID, sessionID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Service) list(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Document, error) {
		var d Document
		var tripID, source string
		err := row.Scan(&d.ID, &d.UserID, &d.SessionID, &tripID, &d.URL, &source, &d.Kind, &d.FileName, &d.CreatedAt)
		if tripID != "" {
			d.TripID = &tripID
		}
		d.Source = Source(source)
		return d, err
	})
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}
