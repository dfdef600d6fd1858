package mediator

import (
	"testing"

	"miimaker/config"
)

func TestConfigureLogging(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		wantErr bool
	}{
		{"defaults", config.LogConfig{}, false},
		{"json debug", config.LogConfig{Level: "debug", Format: "json"}, false},
		{"bad level", config.LogConfig{Level: "loud"}, true},
		{"bad format", config.LogConfig{Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ConfigureLogging(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v wantErr %v", err, tt.wantErr)
			}
		})
	}
	_ = ConfigureLogging(config.LogConfig{Level: "info"})
}
