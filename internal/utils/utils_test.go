package utils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sw33tLie/rumscope/pkg/delivery"
	"github.com/sw33tLie/rumscope/pkg/vitals"
)

func TestSetLogLevel(t *testing.T) {
	defer Log.SetLevel(logrus.InfoLevel)

	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"INFO":    logrus.InfoLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
	}
	for in, want := range cases {
		SetLogLevel(in)
		if got := Log.GetLevel(); got != want {
			t.Fatalf("SetLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogSatisfiesLibraryLoggers(t *testing.T) {
	var _ delivery.Logger = Log
	var _ vitals.Logger = Log
}
