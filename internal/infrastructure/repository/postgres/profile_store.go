package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vanshm/study-assistant/internal/core/domain"
)

// ProfileStore persists user profiles. Syllabus, calendar and roadmap are
// JSONB documents; the retrieval path only ever reads them.
type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083102)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	course TEXT NOT NULL DEFAULT '',
	year INT NOT NULL DEFAULT 0,
	syllabus JSONB NOT NULL DEFAULT '[]'::jsonb,
	calendar JSONB NOT NULL DEFAULT '[]'::jsonb,
	roadmap JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (s *ProfileStore) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	syllabusJSON, calendarJSON, roadmapJSON, err := marshalProfileFields(profile)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO profiles (user_id, name, course, year, syllabus, calendar, roadmap, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		profile.UserID, profile.Name, profile.Course, profile.Year,
		syllabusJSON, calendarJSON, roadmapJSON, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// FindProfile returns (nil, nil) when the user has no profile; absence is a
// valid state for the retrieval path.
func (s *ProfileStore) FindProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT user_id, name, course, year, syllabus, calendar, roadmap, created_at, updated_at
FROM profiles
WHERE user_id = $1
`, userID)

	var (
		profile      domain.Profile
		syllabusRaw  []byte
		calendarRaw  []byte
		roadmapRaw   []byte
	)
	err := row.Scan(
		&profile.UserID, &profile.Name, &profile.Course, &profile.Year,
		&syllabusRaw, &calendarRaw, &roadmapRaw, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	if err := json.Unmarshal(syllabusRaw, &profile.Syllabus); err != nil {
		return nil, fmt.Errorf("unmarshal syllabus: %w", err)
	}
	if err := json.Unmarshal(calendarRaw, &profile.Calendar); err != nil {
		return nil, fmt.Errorf("unmarshal calendar: %w", err)
	}
	if len(roadmapRaw) > 0 {
		if err := json.Unmarshal(roadmapRaw, &profile.Roadmap); err != nil {
			return nil, fmt.Errorf("unmarshal roadmap: %w", err)
		}
	}
	return &profile, nil
}

func (s *ProfileStore) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	syllabusJSON, calendarJSON, roadmapJSON, err := marshalProfileFields(profile)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
UPDATE profiles SET name = $2, course = $3, year = $4, syllabus = $5, calendar = $6, roadmap = $7, updated_at = $8
WHERE user_id = $1
`,
		profile.UserID, profile.Name, profile.Course, profile.Year,
		syllabusJSON, calendarJSON, roadmapJSON, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireProfileAffected(result, "update profile", profile.UserID)
}

func (s *ProfileStore) SaveRoadmap(ctx context.Context, userID string, roadmap *domain.Roadmap) error {
	roadmapJSON, err := json.Marshal(roadmap)
	if err != nil {
		return fmt.Errorf("marshal roadmap: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
UPDATE profiles SET roadmap = $2, updated_at = $3 WHERE user_id = $1
`, userID, roadmapJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save roadmap: %w", err)
	}
	return requireProfileAffected(result, "save roadmap", userID)
}

func requireProfileAffected(result sql.Result, operation, userID string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrProfileNotFound, operation, fmt.Errorf("user %s", userID))
	}
	return nil
}

func marshalProfileFields(profile *domain.Profile) (syllabus, calendar, roadmap []byte, err error) {
	if syllabus, err = json.Marshal(emptyIfNilSyllabus(profile.Syllabus)); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal syllabus: %w", err)
	}
	if calendar, err = json.Marshal(emptyIfNilCalendar(profile.Calendar)); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal calendar: %w", err)
	}
	if profile.Roadmap != nil {
		if roadmap, err = json.Marshal(profile.Roadmap); err != nil {
			return nil, nil, nil, fmt.Errorf("marshal roadmap: %w", err)
		}
	}
	return syllabus, calendar, roadmap, nil
}

func emptyIfNilSyllabus(in []domain.SyllabusEntry) []domain.SyllabusEntry {
	if in == nil {
		return []domain.SyllabusEntry{}
	}
	return in
}

func emptyIfNilCalendar(in []domain.CalendarEvent) []domain.CalendarEvent {
	if in == nil {
		return []domain.CalendarEvent{}
	}
	return in
}
