package vault

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"jobtrack/internal/config"
)

func TestNewS3Vault(t *testing.T) {
	t.Run("requires bucket", func(t *testing.T) {
		if _, err := NewS3Vault(context.Background(), config.VaultConfig{Type: "s3", Name: "cloud"}); err == nil {
			t.Fatal("NewS3Vault() expected error without bucket")
		}
	})

	t.Run("builds keys under prefix", func(t *testing.T) {
		v, err := NewS3Vault(context.Background(), config.VaultConfig{
			Type:              "s3",
			Name:              "cloud",
			S3Bucket:          "jt-snapshots",
			S3Prefix:          "backups/",
			S3Region:          "eu-west-1",
			S3Endpoint:        "http://127.0.0.1:9000",
			S3AccessKeyID:     "test",
			S3SecretAccessKey: "test",
		})
		if err != nil {
			t.Fatalf("NewS3Vault() error = %v", err)
		}

		if got, want := v.key("owner-1", "jt.db"), "backups/snapshots/owner-1/jt.db"; got != want {
			t.Errorf("key() = %q, want %q", got, want)
		}
	})
}

func TestParseVersionMetadata(t *testing.T) {
	tests := []struct {
		name    string
		md      map[string]string
		want    int64
		wantErr bool
	}{
		{name: "missing key", md: map[string]string{}, want: 0},
		{name: "nil map", md: nil, want: 0},
		{name: "valid", md: map[string]string{versionMetadataKey: "17"}, want: 17},
		{name: "garbage", md: map[string]string{versionMetadataKey: "seventeen"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionMetadata(tt.md)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseVersionMetadata() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseVersionMetadata() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get: %w", &types.NoSuchKey{})) {
		t.Error("isNotFound(NoSuchKey) = false, want true")
	}
	if !isNotFound(&types.NotFound{}) {
		t.Error("isNotFound(NotFound) = false, want true")
	}
	if isNotFound(errors.New("access denied")) {
		t.Error("isNotFound(other) = true, want false")
	}
}
