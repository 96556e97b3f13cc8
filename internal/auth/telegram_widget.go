package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Подменяется в тестах для проверки границы maxAge.
var timeNow = time.Now

const (
	// DefaultWidgetAuthTTL — максимальный возраст auth_date для Login Widget.
	// Виджет выдаёт payload один раз при логине, поэтому окно сутки.
	DefaultWidgetAuthTTL = 24 * time.Hour
)

// ValidateTelegramWidgetData validates a Telegram Login Widget payload.
// https://core.telegram.org/widgets/login#checking-authorization
//
// Схема отличается от Mini App: secret_key = SHA256(bot_token), без
// второго HMAC. Не унифицировать с ValidateTelegramWebAppData.
//
// fields — все поля виджета, включая hash. maxAge <= 0 использует
// DefaultWidgetAuthTTL; возраст ровно maxAge ещё валиден.
func ValidateTelegramWidgetData(fields map[string]string, botToken string, maxAge time.Duration) error {
	if maxAge <= 0 {
		maxAge = DefaultWidgetAuthTTL
	}

	receivedHash := fields["hash"]
	if receivedHash == "" {
		return fmt.Errorf("hash is missing from widget data")
	}

	authDateStr := fields["auth_date"]
	if authDateStr == "" {
		return fmt.Errorf("auth_date is missing from widget data")
	}
	authDateUnix, err := strconv.ParseInt(authDateStr, 10, 64)
	if err != nil {
		return fmt.Errorf("auth_date is not a valid unix timestamp")
	}

	// ---- Проверяем HMAC-SHA256 подпись ----
	pairs := make([]string, 0, len(fields))
	for key, v := range fields {
		if key == "hash" || v == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, v))
	}
	sort.Strings(pairs)
	dataCheckString := strings.Join(pairs, "\n")

	// secret_key = SHA256(bot_token)
	secretKey := sha256.Sum256([]byte(botToken))
	calculatedHash := hex.EncodeToString(hmacSHA256(secretKey[:], []byte(dataCheckString)))

	if !hmac.Equal([]byte(calculatedHash), []byte(receivedHash)) {
		return fmt.Errorf("invalid hash: data integrity check failed")
	}

	// ---- Проверяем auth_date (свежесть), строго после подписи ----
	age := timeNow().Sub(time.Unix(authDateUnix, 0))
	if age > maxAge {
		return fmt.Errorf("widget data expired: auth_date is %s old (max %s)", age.Round(time.Second), maxAge)
	}
	if age < -1*time.Minute {
		return fmt.Errorf("auth_date is in the future")
	}

	return nil
}
