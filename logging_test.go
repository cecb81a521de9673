package gekko

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger_RoutesLevels(t *testing.T) {
	var out, errs bytes.Buffer
	l := newLogger("spotlight", false, &out, &errs)

	l.Debugf("hidden %d", 1)
	l.Infof("light %d attached", 3)
	l.Warnf("slow frame")
	l.Errorf("device lost: %v", "gone")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[spotlight] INFO: light 3 attached")
	assert.Contains(t, errs.String(), "[spotlight] WARN: slow frame")
	assert.Contains(t, errs.String(), "[spotlight] ERROR: device lost: gone")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	assert.Contains(t, out.String(), "[spotlight] DEBUG: shown 2")
}

func TestDefaultLogger_NoPrefix(t *testing.T) {
	var out bytes.Buffer
	l := newLogger("", false, &out, &out)
	l.Infof("plain")

	line := strings.TrimSpace(out.String())
	assert.True(t, strings.HasSuffix(line, " INFO: plain"), line)
	assert.NotContains(t, line, "[")
}

func TestApp_LoggerFallsBackToNop(t *testing.T) {
	var app *App
	assert.Equal(t, NewNopLogger(), app.Logger())

	app = NewApp()
	assert.Equal(t, NewNopLogger(), app.Logger())

	app.UseModules(LoggingModule{Prefix: "x", Debug: true})
	l, ok := app.Logger().(*DefaultLogger)
	require.True(t, ok)
	assert.True(t, l.DebugEnabled())
}
