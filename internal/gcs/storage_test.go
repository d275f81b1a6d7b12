package gcs

import (
	"errors"
	"testing"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://budgets/2024/march.xlsx", "budgets", "2024/march.xlsx", false},
		{"gs://budgets/a.csv", "budgets", "a.csv", false},
		{"gs://budgets", "", "", true},
		{"gs://budgets/", "", "", true},
		{"gs:///a.csv", "", "", true},
		{"s3://budgets/a.csv", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidURI) {
				t.Errorf("ParseURI(%q) error = %v, want ErrInvalidURI", tt.uri, err)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestExtractFilenameFromGCSURI(t *testing.T) {
	tests := map[string]string{
		"gs://budgets/2024/march.xlsx": "march.xlsx",
		"gs://budgets/a.csv":           "a.csv",
		"gs://budgets":                 "budgets",
	}
	for uri, want := range tests {
		if got := ExtractFilenameFromGCSURI(uri); got != want {
			t.Errorf("ExtractFilenameFromGCSURI(%q) = %q, want %q", uri, got, want)
		}
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"march.XLSX": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"old.xls":    "application/vnd.ms-excel",
		"plain.csv":  "text/csv",
		"notes":      "application/octet-stream",
	}
	for name, want := range tests {
		if got := ContentType(name); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", name, got, want)
		}
	}
}
