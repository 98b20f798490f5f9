package profile

// Profile holds the athlete's threshold values. Every field is optional;
// a zone family can only be computed when its threshold is present.
type Profile struct {
	UserID        int      `json:"userId"`
	LTHR          *float64 `json:"lthr,omitempty"`
	FTP           *float64 `json:"ftp,omitempty"`
	ThresholdPace *float64 `json:"thresholdPace,omitempty"`
	CSS           *float64 `json:"css,omitempty"`
}

// Patch is a partial profile update; nil fields are left untouched.
type Patch struct {
	LTHR          *float64
	FTP           *float64
	ThresholdPace *float64
	CSS           *float64
}
