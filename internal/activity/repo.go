package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tripeak/tripeak/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrActivityNotFound = errors.New("activity not found")

type ListParams struct {
	UserID           int
	Sport            SportType
	From             *time.Time
	To               *time.Time
	MinMovingTimeSec int
	MinDistanceM     *float64
	MaxDistanceM     *float64
	RequireAvgHR     bool
}

// DerivedPatch carries the cached analytics values written back onto an
// activity. Nil fields are left untouched.
type DerivedPatch struct {
	EfficiencyFactor *float64
	Decoupling       *float64
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add stores a new activity summary and sets its generated ID.
func (r *Repo) Add(ctx context.Context, a *Activity) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", a.UserID))
	span.SetAttributes(attribute.String("sport", string(a.Sport)))

	return r.db.QueryRow(
		ctx,
		`
			INSERT INTO activity (
				user_id, sport, workout, started_at, moving_time_sec,
				distance_m, avg_heart_rate, avg_speed, normalized_power,
				peak_power_20min
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id;`,
		a.UserID, string(a.Sport), string(a.Workout), a.StartedAt, a.MovingTimeSec,
		a.DistanceM, a.AvgHeartRate, a.AvgSpeed, a.NormalizedPower,
		a.PeakPower20Min,
	).Scan(&a.ID)
}

// AddSamples stores the raw sample stream of one activity.
func (r *Repo) AddSamples(ctx context.Context, activityID int, samples []Sample) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.addSamples")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("activity.id", activityID))
	span.SetAttributes(attribute.Int("samples.count", len(samples)))

	rows := make([][]interface{}, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []interface{}{activityID, s.Timestamp, s.HeartRate, s.Power, s.Speed})
	}

	_, err = r.db.CopyFrom(
		ctx,
		pgx.Identifier{"activity_sample"},
		[]string{"activity_id", "ts", "heart_rate", "power", "speed"},
		pgx.CopyFromRows(rows),
	)
	return err
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, sport, workout, started_at, moving_time_sec,
				distance_m, avg_heart_rate, avg_speed, normalized_power,
				peak_power_20min, efficiency_factor, decoupling
			FROM activity
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	activities, err := r.rows2activities(rows)
	if err != nil {
		return nil, err
	}

	if len(activities) != 1 {
		return nil, ErrActivityNotFound
	}

	return &activities[0], nil
}

// List returns the user's activities matching params, ordered by start
// date ascending (trend computations rely on that ordering).
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", params.UserID))
	span.SetAttributes(attribute.String("sport", string(params.Sport)))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, sport, workout, started_at, moving_time_sec,
				distance_m, avg_heart_rate, avg_speed, normalized_power,
				peak_power_20min, efficiency_factor, decoupling
			FROM activity
				WHERE user_id = $1
				AND ($2::text = '' OR sport = $2)
				AND ($3::timestamp IS NULL OR started_at >= $3)
				AND ($4::timestamp IS NULL OR started_at <= $4)
				AND ($5::int = 0 OR moving_time_sec >= $5)
				AND ($6::float8 IS NULL OR distance_m >= $6)
				AND ($7::float8 IS NULL OR distance_m <= $7)
				AND ($8::boolean IS FALSE OR avg_heart_rate IS NOT NULL)
			ORDER BY started_at ASC;`,
		params.UserID, string(params.Sport),
		params.From, params.To,
		params.MinMovingTimeSec,
		params.MinDistanceM, params.MaxDistanceM,
		params.RequireAvgHR,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	activities, err := r.rows2activities(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2activities: %w", err)
	}
	return activities, nil
}

// ListSamples returns the raw sample stream of one activity, timestamp
// ascending.
func (r *Repo) ListSamples(ctx context.Context, activityID int) (_ []Sample, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.listSamples")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("activity.id", activityID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT ts, heart_rate, power, speed
			FROM activity_sample
			WHERE activity_id = $1
			ORDER BY ts ASC;`,
		activityID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	var samples []Sample
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.Timestamp, &s.HeartRate, &s.Power, &s.Speed); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	if samples == nil {
		samples = make([]Sample, 0)
	}

	span.SetAttributes(attribute.Int("samples.count", len(samples)))
	return samples, nil
}

// UpdateDerived stores cached analytics values on the activity row.
func (r *Repo) UpdateDerived(ctx context.Context, id int, patch DerivedPatch) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.updateDerived")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`
			UPDATE activity SET
				efficiency_factor = COALESCE($1, efficiency_factor),
				decoupling = COALESCE($2, decoupling)
			WHERE id = $3;`,
		patch.EfficiencyFactor, patch.Decoupling, id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrActivityNotFound
	}

	return nil
}

func (r *Repo) rows2activities(rows pgx.Rows) ([]Activity, error) {
	var activities []Activity
	for rows.Next() {
		var a Activity
		var sport, workout string
		if err := rows.Scan(
			&a.ID, &a.UserID, &sport, &workout, &a.StartedAt, &a.MovingTimeSec,
			&a.DistanceM, &a.AvgHeartRate, &a.AvgSpeed, &a.NormalizedPower,
			&a.PeakPower20Min, &a.EfficiencyFactor, &a.Decoupling,
		); err != nil {
			return nil, err
		}
		a.Sport = SportType(sport)
		a.Workout = WorkoutType(workout)
		activities = append(activities, a)
	}

	if activities == nil {
		activities = make([]Activity, 0)
	}

	return activities, nil
}
