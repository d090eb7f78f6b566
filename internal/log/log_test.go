package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog_FormatsCategoryAndFields(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(func() { defaultLogger = nil })

	Info(CatRepo, "saved writing system", "id", "en-US", "path", "/tmp/en-US.ldml")

	out := buf.String()
	require.Contains(t, out, "[INFO] [repo] saved writing system")
	require.Contains(t, out, "id=en-US")
	require.Contains(t, out, "path=/tmp/en-US.ldml")
}

func TestLog_RespectsMinLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelWarn)
	t.Cleanup(func() { defaultLogger = nil })

	Debug(CatTag, "hidden")
	Info(CatTag, "hidden too")
	Warn(CatTag, "visible")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "visible")
}

func TestLog_ErrorErrAndOrphanKey(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(func() { defaultLogger = nil })

	ErrorErr(CatFetch, "fetch failed", errors.New("boom"), "id")

	out := buf.String()
	require.Contains(t, out, "[ERROR] [fetch] fetch failed")
	require.Contains(t, out, "id=boom")
	require.Contains(t, out, "error=<missing>")
}

func TestLog_DisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(func() { defaultLogger = nil })

	SetEnabled(false)
	Error(CatDB, "nope")
	require.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel("error"))
	require.Equal(t, LevelInfo, ParseLevel(""))
}
