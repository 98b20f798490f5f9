package activity

import "time"

type SportType string

const (
	SportSwim     SportType = "SWIM"
	SportBike     SportType = "BIKE"
	SportRun      SportType = "RUN"
	SportStrength SportType = "STRENGTH"
	SportOther    SportType = "OTHER"
)

type WorkoutType string

const (
	WorkoutGeneral   WorkoutType = "GENERAL"
	WorkoutTempo     WorkoutType = "TEMPO"
	WorkoutTimeTrial WorkoutType = "TIME_TRIAL"
	WorkoutInterval  WorkoutType = "INTERVAL"
	WorkoutRace      WorkoutType = "RACE"
)

// Activity is the summary record of one completed session. The ingestion
// side creates it; the analytics side only ever fills in the cached
// EfficiencyFactor / Decoupling fields.
type Activity struct {
	ID               int         `json:"id"`
	UserID           int         `json:"userId"`
	Sport            SportType   `json:"sport"`
	Workout          WorkoutType `json:"workout"`
	StartedAt        time.Time   `json:"startedAt"`
	MovingTimeSec    int         `json:"movingTimeSec"`
	DistanceM        *float64    `json:"distanceM,omitempty"`
	AvgHeartRate     *float64    `json:"avgHeartRate,omitempty"`
	AvgSpeed         *float64    `json:"avgSpeed,omitempty"`
	NormalizedPower  *float64    `json:"normalizedPower,omitempty"`
	PeakPower20Min   *float64    `json:"peakPower20Min,omitempty"`
	EfficiencyFactor *float64    `json:"efficiencyFactor,omitempty"`
	Decoupling       *float64    `json:"decoupling,omitempty"`
}

// Sample is one raw per-second measurement within an activity.
// All signals are optional; samples arrive ordered by timestamp.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	HeartRate *float64  `json:"heartRate,omitempty"`
	Power     *float64  `json:"power,omitempty"`
	Speed     *float64  `json:"speed,omitempty"`
}
