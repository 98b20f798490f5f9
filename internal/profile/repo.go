package profile

import (
	"context"
	"errors"

	"github.com/tripeak/tripeak/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrProfileNotFound = errors.New("athlete profile not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID int) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT user_id, lthr, ftp, threshold_pace, css
			FROM athlete_profile
			WHERE user_id = $1;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrProfileNotFound
	}

	var p Profile
	if err := rows.Scan(&p.UserID, &p.LTHR, &p.FTP, &p.ThresholdPace, &p.CSS); err != nil {
		return nil, err
	}

	return &p, nil
}

// Upsert creates the profile row if missing and applies the non-nil patch
// fields. User-confirmed threshold updates go through here; failures must
// surface to the caller.
func (r *Repo) Upsert(ctx context.Context, userID int, patch Patch) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	_, err = r.db.Exec(
		ctx,
		`
			INSERT INTO athlete_profile (user_id, lthr, ftp, threshold_pace, css)
				VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE SET
				lthr = COALESCE($2, athlete_profile.lthr),
				ftp = COALESCE($3, athlete_profile.ftp),
				threshold_pace = COALESCE($4, athlete_profile.threshold_pace),
				css = COALESCE($5, athlete_profile.css);`,
		userID, patch.LTHR, patch.FTP, patch.ThresholdPace, patch.CSS,
	)
	return err
}
