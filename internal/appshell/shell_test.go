package appshell

import (
	"context"
	"testing"

	"github.com/outofforest/logger"
	"github.com/stretchr/testify/assert"
)

func TestNewContextInstallsLogger(t *testing.T) {
	ctx := NewContext(context.Background(), "kr2r-test")
	assert.NotNil(t, logger.Get(ctx))
	logger.Get(ctx).Debug("hello")
}
