package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty data dir returns ErrDataDirEmpty",
			config:  Config{DataDir: "", LogLevel: LogLevelInfo},
			wantErr: ErrDataDirEmpty,
		},
		{
			name:    "unknown log level returns ErrLogLevelUnknown",
			config:  Config{DataDir: "/tmp/data", LogLevel: "verbose"},
			wantErr: ErrLogLevelUnknown,
		},
		{
			name:    "valid config",
			config:  Config{DataDir: "/tmp/data", LogLevel: LogLevelDebug},
			wantErr: nil,
		},
		{
			name:    "empty log level selects the default",
			config:  Config{DataDir: "/tmp/data"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
