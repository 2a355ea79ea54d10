package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func Test_SetLogLevel(t *testing.T) {
	defer Logger.SetLevel(logrus.InfoLevel)

	testCases := []struct {
		level    string
		expected logrus.Level
		wantErr  bool
	}{
		{
			level:    "debug",
			expected: logrus.DebugLevel,
		},
		{
			level:    "warn",
			expected: logrus.WarnLevel,
		},
		{
			level:   "loud",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		err := SetLogLevel(tc.level)
		if tc.wantErr {
			assert.Error(t, err)
		} else {
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, Logger.GetLevel())
		}
	}
}

func Test_WithField(t *testing.T) {
	buf := &bytes.Buffer{}
	SetLogOutput(buf)
	defer SetLogOutput(os.Stderr)

	WithField("node", "node0").Info("allocated")

	assert.Contains(t, buf.String(), "node=node0")
	assert.Contains(t, buf.String(), "allocated")
}
