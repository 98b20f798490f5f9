//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/tripeak/tripeak/internal/activity"
	"github.com/tripeak/tripeak/internal/css"
	"github.com/tripeak/tripeak/internal/profile"
	"github.com/tripeak/tripeak/internal/zones"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

func (s *IntegrationTestSuite) doGet(t *testing.T, ctx context.Context, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, "GET", serverEndpoint+path, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if token != "" {
		req.Header.Set("X-TRIPEAK-TOKEN", token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (s *IntegrationTestSuite) TestHRZonesCalculator() {
	t := s.T()
	ctx := context.Background()

	resp := s.doGet(t, ctx, "/zones/hr/165", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var apiResp apiResponse
	require.NoError(t, json.Unmarshal(respBytes, &apiResp))
	require.True(t, apiResp.Success)

	var hrZones []zones.Zone
	require.NoError(t, json.Unmarshal(apiResp.Data, &hrZones))
	require.Len(t, hrZones, 7)
	assert.Equal(t, 134.0, hrZones[0].Max)
}

func (s *IntegrationTestSuite) TestUserZones() {
	t := s.T()
	ctx := context.Background()
	token := doLogin(ctx, t)

	userID := 42
	profileRepo := profile.NewRepo(s.DB)
	lthr, ftp := 165.0, 250.0
	require.NoError(t, profileRepo.Upsert(ctx, userID, profile.Patch{
		LTHR: &lthr,
		FTP:  &ftp,
	}))

	resp := s.doGet(t, ctx, fmt.Sprintf("/zones/user/%d", userID), token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var apiResp apiResponse
	require.NoError(t, json.Unmarshal(respBytes, &apiResp))
	require.True(t, apiResp.Success)

	var userZones zones.UserZones
	require.NoError(t, json.Unmarshal(apiResp.Data, &userZones))
	require.Len(t, userZones.HR, 7)
	require.Len(t, userZones.Power, 7)
	assert.Empty(t, userZones.Pace)
	assert.Empty(t, userZones.Swim)
}

func (s *IntegrationTestSuite) TestCSSCalculator() {
	t := s.T()
	ctx := context.Background()

	body := []byte(`{"t400s": 420, "t200s": 210}`)
	req, err := http.NewRequestWithContext(ctx, "POST", serverEndpoint+"/css/calculate", bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var apiResp apiResponse
	require.NoError(t, json.Unmarshal(respBytes, &apiResp))
	require.True(t, apiResp.Success)

	var result css.Result
	require.NoError(t, json.Unmarshal(apiResp.Data, &result))
	assert.InDelta(t, 0.952, result.CSS, 0.001)
	assert.Equal(t, "1:45", result.PacePer100)
}

func (s *IntegrationTestSuite) TestActivityEF() {
	t := s.T()
	ctx := context.Background()
	token := doLogin(ctx, t)

	activityRepo := activity.NewRepo(s.DB)
	np, hr := 250.0, 150.0
	ride := &activity.Activity{
		UserID:          43,
		Sport:           activity.SportBike,
		Workout:         activity.WorkoutGeneral,
		StartedAt:       time.Now().Add(-24 * time.Hour),
		MovingTimeSec:   3600,
		NormalizedPower: &np,
		AvgHeartRate:    &hr,
	}
	require.NoError(t, activityRepo.Add(ctx, ride))

	resp := s.doGet(t, ctx, fmt.Sprintf("/activities/%d/ef", ride.ID), token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var apiResp apiResponse
	require.NoError(t, json.Unmarshal(respBytes, &apiResp))
	require.True(t, apiResp.Success)

	var efResp map[string]float64
	require.NoError(t, json.Unmarshal(apiResp.Data, &efResp))
	assert.InDelta(t, 1.667, efResp["efficiencyFactor"], 0.001)
}

func (s *IntegrationTestSuite) TestFitnessNoData() {
	t := s.T()
	ctx := context.Background()
	token := doLogin(ctx, t)

	resp := s.doGet(t, ctx, "/forecast/fitness/999999", token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var apiResp apiResponse
	require.NoError(t, json.Unmarshal(respBytes, &apiResp))
	assert.True(t, apiResp.Success)
	assert.Equal(t, "null", string(apiResp.Data))
	assert.NotEmpty(t, apiResp.Message)
}
