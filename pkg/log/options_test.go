package log

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		opts        Options
		expectError string
	}{
		{
			name: "Valid Options",
			opts: Options{Name: "scraper-server"},
		},
		{
			name:        "Missing Name",
			opts:        Options{},
			expectError: "Name",
		},
		{
			name:        "Negative MaxAge",
			opts:        Options{Name: "scraper-server", MaxAge: -1},
			expectError: "MaxAge",
		},
		{
			name:        "Negative MaxSizeMB",
			opts:        Options{Name: "scraper-server", MaxSizeMB: -1},
			expectError: "MaxSizeMB",
		},
		{
			name:        "Negative MaxBackups",
			opts:        Options{Name: "scraper-server", MaxBackups: -1},
			expectError: "MaxBackups",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if tt.expectError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
			}
		})
	}
}

func TestOptions_Validate_DirIsFile(t *testing.T) {
	t.Parallel()

	// 로그 디렉토리 경로에 이미 일반 파일이 존재하는 경우를 검증한다.
	tmpFile := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, writeEmptyFile(tmpFile))

	opts := Options{Name: "scraper-server", Dir: tmpFile}
	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "이미 파일로 존재합니다")
}

func TestProfiles(t *testing.T) {
	t.Parallel()

	prod := NewProductionOptions("scraper-server")
	assert.Equal(t, logrus.InfoLevel, prod.Level)
	assert.False(t, prod.EnableConsoleLog)
	assert.True(t, prod.ReportCaller)

	dev := NewDevelopmentOptions("scraper-server")
	assert.Equal(t, logrus.TraceLevel, dev.Level)
	assert.True(t, dev.EnableConsoleLog)
}
