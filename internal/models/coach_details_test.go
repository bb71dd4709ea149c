package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassifyExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil date is not set", func(t *testing.T) {
		status, days := ClassifyExpiry(nil, now)
		require.Equal(t, ExpiryStatusNotSet, status)
		require.Zero(t, days)
	})

	t.Run("past date is expired", func(t *testing.T) {
		expiry := now.AddDate(0, 0, -10)
		status, days := ClassifyExpiry(&expiry, now)
		require.Equal(t, ExpiryStatusExpired, status)
		require.Equal(t, -10, days)
	})

	t.Run("a few hours ago is already expired", func(t *testing.T) {
		expiry := now.Add(-6 * time.Hour)
		status, days := ClassifyExpiry(&expiry, now)
		require.Equal(t, ExpiryStatusExpired, status)
		require.Equal(t, -1, days)
	})

	t.Run("within ninety days is warning", func(t *testing.T) {
		expiry := now.AddDate(0, 0, 90)
		status, days := ClassifyExpiry(&expiry, now)
		require.Equal(t, ExpiryStatusWarning, status)
		require.Equal(t, 90, days)
	})

	t.Run("beyond ninety days is valid", func(t *testing.T) {
		expiry := now.AddDate(0, 0, 91)
		status, days := ClassifyExpiry(&expiry, now)
		require.Equal(t, ExpiryStatusValid, status)
		require.Equal(t, 91, days)
	})
}

func TestExpiryStatusAtRisk(t *testing.T) {
	require.True(t, ExpiryStatusExpired.AtRisk())
	require.True(t, ExpiryStatusWarning.AtRisk())
	require.True(t, ExpiryStatusNotSet.AtRisk())
	require.False(t, ExpiryStatusValid.AtRisk())
}

func TestExpiryDatesCoversAllTrackedAccreditations(t *testing.T) {
	expiry := time.Now()
	details := CoachDetails{
		AccreditationExpiry: &expiry,
		DBSExpiry:           &expiry,
	}

	dates := details.ExpiryDates()
	require.Len(t, dates, 4)
	require.NotNil(t, dates["accreditation"])
	require.NotNil(t, dates["dbs"])
	require.Nil(t, dates["first_aid"])
	require.Nil(t, dates["safeguarding"])
}
