package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.log")
	err := Initialize(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(InitializeDefault)

	Named("test").Info("quote computed")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"msg":"quote computed"`) {
		t.Errorf("log line missing message: %s", line)
	}
	if !strings.Contains(line, `"logger":"test"`) {
		t.Errorf("log line missing logger name: %s", line)
	}
}

func TestInitializeRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad level", Config{Level: "loud", Format: "json", Output: "stderr"}},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stderr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Initialize(tt.cfg); err == nil {
				t.Errorf("expected error for %+v", tt.cfg)
			}
		})
	}
}
