package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tiktok-studio/domain/model"
)

func TestPostStatus_Classification(t *testing.T) {
	assert.False(t, model.StatusProcessingUpload.Terminal())
	assert.False(t, model.StatusProcessingDownload.Terminal())
	assert.True(t, model.StatusSendToUserInbox.Terminal())
	assert.True(t, model.StatusPublishComplete.Terminal())
	assert.True(t, model.StatusFailed.Terminal())

	assert.True(t, model.StatusSendToUserInbox.Success())
	assert.True(t, model.StatusPublishComplete.Success())
	assert.False(t, model.StatusFailed.Success())
}
