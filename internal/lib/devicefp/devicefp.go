// Package devicefp нормализует присланные клиентом сведения об устройстве:
// определяет класс устройства по строке платформы и выводит стабильный
// идентификатор устройства в пределах пользователя.
//
// Для policy-движка и хранилища идентификатор и класс — непрозрачные строки;
// вся эвристика распознавания платформ сосредоточена здесь.
package devicefp

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/magabrotheeeer/entitlement-service/internal/models"
)

// ResolveClass сопоставляет сырую строку платформы клиента с классом устройства.
// Неизвестные платформы считаются web: это самый ограниченный класс по умолчанию.
func ResolveClass(platform string) models.DeviceClass {
	p := strings.ToLower(strings.TrimSpace(platform))
	switch {
	case strings.Contains(p, "ipad") || strings.Contains(p, "tablet"):
		return models.DeviceClassTablet
	case strings.Contains(p, "iphone") || strings.Contains(p, "ios"),
		strings.Contains(p, "android"),
		strings.Contains(p, "phone"):
		return models.DeviceClassPhone
	default:
		return models.DeviceClassWeb
	}
}

// Fingerprint выводит стабильный идентификатор устройства из UID пользователя
// и присланного клиентом материала (device_id либо user-agent).
// Идентификатор скоупится к пользователю: одно и то же устройство у разных
// пользователей получает разные отпечатки.
func Fingerprint(userUID, material string) string {
	sum := sha256.Sum256([]byte(userUID + ":" + material))
	return hex.EncodeToString(sum[:16])
}
