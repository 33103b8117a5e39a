package logging

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/sirupsen/logrus"
	"gotest.tools/assert"
)

func TestNewWritesTimestampedPlainText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Output: &buf})
	assert.NilError(t, err)

	logger.Info("Mouse moved to prevent AFK")
	logger.Debug("hidden")

	line := buf.String()
	assert.Assert(t, regexp.MustCompile(`time="\d{2}:\d{2}:\d{2}"`).MatchString(line), line)
	assert.Assert(t, regexp.MustCompile(`msg="Mouse moved to prevent AFK"`).MatchString(line), line)
	assert.Assert(t, !bytes.Contains(buf.Bytes(), []byte("hidden")))
	assert.Assert(t, !bytes.Contains(buf.Bytes(), []byte("\x1b[")), "no colors on a buffer")
}

func TestNewLevels(t *testing.T) {
	tests := []struct {
		opts Options
		want logrus.Level
	}{
		{opts: Options{}, want: logrus.InfoLevel},
		{opts: Options{Level: "warn"}, want: logrus.WarnLevel},
		{opts: Options{Level: "error"}, want: logrus.ErrorLevel},
		{opts: Options{Level: "error", Debug: true}, want: logrus.DebugLevel},
	}
	for _, tt := range tests {
		logger, err := New(Options{Level: tt.opts.Level, Debug: tt.opts.Debug, Output: &bytes.Buffer{}})
		assert.NilError(t, err)
		assert.Equal(t, logger.GetLevel(), tt.want)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud", Output: &bytes.Buffer{}})
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}
