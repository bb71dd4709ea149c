package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStudentIsUnder18(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("missing date of birth counts as under 18", func(t *testing.T) {
		require.True(t, Student{}.IsUnder18(now))
	})

	t.Run("seventeen year old", func(t *testing.T) {
		dob := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
		require.True(t, Student{DateOfBirth: &dob}.IsUnder18(now))
	})

	t.Run("eighteenth birthday today", func(t *testing.T) {
		dob := time.Date(2008, 6, 15, 0, 0, 0, 0, time.UTC)
		require.False(t, Student{DateOfBirth: &dob}.IsUnder18(now))
	})

	t.Run("eighteenth birthday tomorrow", func(t *testing.T) {
		dob := time.Date(2008, 6, 16, 0, 0, 0, 0, time.UTC)
		require.True(t, Student{DateOfBirth: &dob}.IsUnder18(now))
	})

	t.Run("adult", func(t *testing.T) {
		dob := time.Date(1990, 12, 25, 0, 0, 0, 0, time.UTC)
		require.False(t, Student{DateOfBirth: &dob}.IsUnder18(now))
	})
}
