package internal_test

import (
	"testing"

	"github.com/m-mizutani/jirasearch/internal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLogLevel(t *testing.T) {
	orig := internal.Logger.GetLevel()
	defer internal.Logger.SetLevel(orig)

	assert.NoError(t, internal.SetLogLevel("DEBUG"))
	assert.Equal(t, logrus.DebugLevel, internal.Logger.GetLevel())

	assert.NoError(t, internal.SetLogLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, internal.Logger.GetLevel())

	assert.Error(t, internal.SetLogLevel("LOUD"))
	assert.Equal(t, logrus.WarnLevel, internal.Logger.GetLevel())
}
