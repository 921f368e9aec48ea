package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestCertificationDoesNotExpireWins(t *testing.T) {
	now := date(2025, time.June, 1)
	cert := Certification{DoesNotExpire: true, ExpiryDate: datePtr(2020, time.January, 1)}

	assert.False(t, cert.IsExpired(now))
	assert.True(t, cert.IsActive(now))
	assert.Equal(t, CertificationLabelNoExpiry, cert.StatusLabel(now))
	assert.Nil(t, cert.DaysUntilExpiration(now))
}

func TestCertificationExpiredYesterday(t *testing.T) {
	now := time.Date(2025, time.June, 10, 15, 30, 0, 0, time.UTC)
	cert := Certification{ExpiryDate: datePtr(2025, time.June, 9)}

	assert.True(t, cert.IsExpired(now))
	assert.Equal(t, CertificationLabelExpired, cert.StatusLabel(now))
	require.NotNil(t, cert.DaysUntilExpiration(now))
	assert.Equal(t, -1, *cert.DaysUntilExpiration(now))
}

func TestCertificationExpiringTodayIsStillActive(t *testing.T) {
	now := time.Date(2025, time.June, 10, 23, 59, 0, 0, time.UTC)
	cert := Certification{ExpiryDate: datePtr(2025, time.June, 10)}

	assert.False(t, cert.IsExpired(now))
	assert.Equal(t, 0, *cert.DaysUntilExpiration(now))
}

func TestCertificationWithoutExpiryDate(t *testing.T) {
	now := date(2025, time.June, 10)
	cert := Certification{}

	assert.False(t, cert.IsExpired(now))
	assert.Equal(t, CertificationLabelActive, cert.StatusLabel(now))
	assert.Nil(t, cert.DaysUntilExpiration(now))
}

func TestCertificationFutureExpiry(t *testing.T) {
	now := date(2025, time.June, 10)
	cert := Certification{ExpiryDate: datePtr(2025, time.June, 20)}

	assert.False(t, cert.IsExpired(now))
	assert.Equal(t, CertificationLabelActive, cert.StatusLabel(now))
	assert.Equal(t, 10, *cert.DaysUntilExpiration(now))
}

func TestCertificationYearLongExpiryScenario(t *testing.T) {
	cert := Certification{
		IssueDate:  date(2023, time.January, 1),
		ExpiryDate: datePtr(2024, time.January, 1),
	}
	now := date(2025, time.January, 1)

	view := cert.ViewAt(now)
	assert.True(t, view.IsExpired)
	assert.Equal(t, "Expirada", view.Status)
	require.NotNil(t, view.DaysUntilExpiration)
	// 2024 is a leap year
	assert.Equal(t, -366, *view.DaysUntilExpiration)
}

func TestCertificationStatusMovesAcrossDayBoundary(t *testing.T) {
	cert := Certification{ExpiryDate: datePtr(2025, time.March, 1)}
	before := FixedClock{T: time.Date(2025, time.March, 1, 23, 59, 59, 0, time.UTC)}
	after := FixedClock{T: time.Date(2025, time.March, 2, 0, 0, 1, 0, time.UTC)}

	assert.False(t, cert.IsExpired(before.Now()))
	assert.True(t, cert.IsExpired(after.Now()))
}
