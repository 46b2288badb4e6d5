package utils

import "testing"

func TestValidateWebhookURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"   ", "", false},
		{"https://hooks.example/scan", "https://hooks.example/scan", false},
		{"  http://localhost:9000/x  ", "http://localhost:9000/x", false},
		{"ftp://hooks.example", "", true},
		{"hooks.example/scan", "", true},
		{"http://", "", true},
		{"http://bad host/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ValidateWebhookURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateWebhookURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateWebhookURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
