package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		expected string
	}{
		{"simple id", "123", "user:123"},
		{"uuid format", "550e8400-e29b-41d4-a716-446655440000", "user:550e8400-e29b-41d4-a716-446655440000"},
		{"objectid format", "507f1f77bcf86cd799439011", "user:507f1f77bcf86cd799439011"},
		{"empty string", "", "user:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UserCacheKey(tt.userID)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNotificationChannel(t *testing.T) {
	tests := []struct {
		name        string
		recipientID string
		expected    string
	}{
		{"objectid format", "507f1f77bcf86cd799439011", "notifications:507f1f77bcf86cd799439011"},
		{"empty string", "", "notifications:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NotificationChannel(tt.recipientID)
			assert.Equal(t, tt.expected, result)
		})
	}
}
