package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportKey(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		name     string
		actorID  string
		kind     string
		expected string
	}{
		{"tasks report", "507f1f77bcf86cd799439011", "tasks", "reports/507f1f77bcf86cd799439011/tasks-20240309T130507Z.json"},
		{"projects report", "abc", "projects", "reports/abc/projects-20240309T130507Z.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReportKey(tt.actorID, tt.kind, at))
		})
	}
}
