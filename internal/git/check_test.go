package git

import (
	"context"
	"testing"
)

func TestCheckGit_Available(t *testing.T) {
	t.Parallel()
	// git must be available in CI and dev environments
	if err := CheckGit(context.Background()); err != nil {
		t.Fatalf("CheckGit() = %v, want nil", err)
	}
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{"git version 2.43.0\n", Version{2, 43, 0}, false},
		{"git version 2.39.3 (Apple Git-145)", Version{2, 39, 3}, false},
		{"git version 2.45.1.windows.1", Version{2, 45, 1}, false},
		{"git version 3.0", Version{3, 0, 0}, false},
		{"hub version 2.14.2", Version{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVersion(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVersion_Less(t *testing.T) {
	t.Parallel()

	if !(Version{2, 16, 9}).Less(MinVersion) {
		t.Error("2.16.9 should be older than the minimum")
	}
	if (Version{2, 17, 0}).Less(MinVersion) || (Version{3, 0, 0}).Less(MinVersion) {
		t.Error("2.17.0 and 3.0.0 satisfy the minimum")
	}
}
