package devicefp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/entitlement-service/internal/models"
)

func TestResolveClass(t *testing.T) {
	tests := []struct {
		platform string
		want     models.DeviceClass
	}{
		{"iPhone 15", models.DeviceClassPhone},
		{"iOS 17.2", models.DeviceClassPhone},
		{"Android 14; SM-S911B", models.DeviceClassPhone},
		{"iPad Pro", models.DeviceClassTablet},
		{"android-tablet", models.DeviceClassTablet},
		{"Mozilla/5.0 (X11; Linux x86_64)", models.DeviceClassWeb},
		{"", models.DeviceClassWeb},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveClass(tt.platform))
		})
	}
}

func TestFingerprint_StableAndScoped(t *testing.T) {
	a := Fingerprint("uid-1", "device-material")
	b := Fingerprint("uid-1", "device-material")
	c := Fingerprint("uid-2", "device-material")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}
