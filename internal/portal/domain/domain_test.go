package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMediaKind(t *testing.T) {
	for _, k := range []string{"profile", "resume", "ssc", "hsc", "diploma"} {
		got, err := ParseMediaKind(k)
		require.NoError(t, err)
		require.Equal(t, MediaKind(k), got)
	}

	_, err := ParseMediaKind("secrets")
	require.ErrorIs(t, err, ErrUnknownMediaKind)
}

func TestMediaKey(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		ok       bool
	}{
		{"2021001_abc.png", "profile/2021001_abc.png", true},
		{"", "", false},
		{"..", "", false},
		{"../resume/x.pdf", "", false},
		{`a\b.png`, "", false},
		{"a/b.png", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, ok := MediaKey(MediaProfile, tt.filename)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestObjectKey(t *testing.T) {
	require.Equal(t, "resume/2021001_u1.pdf", ObjectKey(MediaResume, "2021001", "u1", ".pdf"))
	require.Equal(t, "ssc/2021001_u1", ObjectKey(MediaSSC, "2021001", "u1", ""))
}

func TestValidIdentifier(t *testing.T) {
	require.True(t, ValidIdentifier("2021001"))
	require.True(t, ValidIdentifier("GR-2021.07"))
	require.False(t, ValidIdentifier(""))
	require.False(t, ValidIdentifier("2021/7"))
	require.False(t, ValidIdentifier(`2021\7`))

	// Whatever passes must come back out of MediaKey.
	key := ObjectKey(MediaProfile, "GR-2021.07", "u1", ".png")
	got, ok := MediaKey(MediaProfile, strings.TrimPrefix(key, "profile/"))
	require.True(t, ok)
	require.Equal(t, key, got)
}

func TestReportAdd(t *testing.T) {
	var rep Report
	rep.Add(RowOutcome{Row: 1, Outcome: OutcomeSucceeded{CredentialID: 1}})
	rep.Add(RowOutcome{Row: 2, Outcome: OutcomeSkipped{Reason: "missing email"}})
	rep.Add(RowOutcome{Row: 3, Outcome: OutcomeFailed{Reason: "identifier already exists"}})

	require.Equal(t, 3, rep.Total)
	require.Equal(t, 1, rep.Succeeded)
	require.Equal(t, 1, rep.Skipped)
	require.Equal(t, 1, rep.Failed)
	require.Len(t, rep.Rows, 3)

	require.Equal(t, "succeeded", rep.Rows[0].Outcome.Status())
	require.Empty(t, Reason(rep.Rows[0].Outcome))
	require.Equal(t, "missing email", Reason(rep.Rows[1].Outcome))
	require.Equal(t, "failed", rep.Rows[2].Outcome.Status())
}
