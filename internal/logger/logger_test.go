package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: Debug},
		{in: "INFO", want: Info},
		{in: " warn ", want: Warn},
		{in: "error", want: Error},
		{in: "trace", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatConsole, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: Warn, Format: FormatJSON, Destination: &buf})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("generate_completed", "count", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "generate_completed", entry["msg"])
	require.EqualValues(t, 3, entry["count"])
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Level: Level(3), Format: FormatJSON})
	require.Error(t, err)

	_, err = New(Config{Level: Info, Format: "xml"})
	require.Error(t, err)
}

func TestNewConsoleAndDev(t *testing.T) {
	for _, f := range []Format{FormatConsole, FormatDev, FormatNone} {
		var buf bytes.Buffer
		l, err := New(Config{Level: Info, Format: f, Destination: &buf})
		require.NoError(t, err)
		l.Info("request_completed", "status", 200)
		if f == FormatNone {
			require.Zero(t, buf.Len())
		} else {
			require.Contains(t, buf.String(), "request_completed")
		}
	}
}

func TestContext(t *testing.T) {
	require.Same(t, Default(), From(context.Background()))
	//nolint:staticcheck
	require.Same(t, Default(), From(nil))

	l, err := New(Config{Level: Info, Format: FormatNone})
	require.NoError(t, err)
	ctx := WithContext(context.Background(), l)
	require.Same(t, l, From(ctx))
}

func TestDefault(t *testing.T) {
	require.NotNil(t, Default())
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l, err := New(Config{Level: Debug, Format: FormatNone})
	require.NoError(t, err)
	SetDefault(l)
	require.Same(t, l, Default())
}
