package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSeverityRankOrder(t *testing.T) {
	require.Less(t, SeverityVeryHigh.Rank(), SeverityHigh.Rank())
	require.Less(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	require.Less(t, SeverityMedium.Rank(), SeverityLow.Rank())
	require.Equal(t, UnknownSeverityRank, Severity("whopper").Rank())
	require.Equal(t, UnknownSeverityRank, Severity("").Rank())
}

func TestTerminalStatuses(t *testing.T) {
	require.False(t, StatusPending.Terminal())
	require.False(t, StatusApproved.Terminal())
	require.True(t, StatusFixed.Terminal())
	require.True(t, StatusDeclined.Terminal())
}

func TestReportedAtDateFallback(t *testing.T) {
	r := &Report{ReportedAt: "2024-06-01"}
	require.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), r.ReportedAtDate())

	r.ReportedAt = "01/06/2024"
	require.Equal(t, time.Unix(0, 0).UTC(), r.ReportedAtDate())
}
