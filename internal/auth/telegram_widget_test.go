package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"
)

// helper: собирает поля виджета с валидным hash и заданным auth_date
func buildWidgetFields(botToken string, authDate time.Time, extra map[string]string) map[string]string {
	fields := map[string]string{
		"auth_date": strconv.FormatInt(authDate.Unix(), 10),
	}
	for k, v := range extra {
		fields[k] = v
	}

	var pairs []string
	for k, v := range fields {
		if v == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(pairs)

	secretKey := sha256.Sum256([]byte(botToken))
	hash := hmacSHA256(secretKey[:], []byte(strings.Join(pairs, "\n")))
	fields["hash"] = hex.EncodeToString(hash)
	return fields
}

func TestValidateTelegramWidgetData_KnownVector(t *testing.T) {
	// Независимо вычисленный reference: secret = SHA256(token),
	// check string = sorted key=value joined by \n, hash исключён.
	botToken := "test-bot-token-12345"
	fields := map[string]string{
		"id":         "123456",
		"first_name": "Alice",
		"username":   "alice",
		"auth_date":  "1700000000",
		"hash":       "807ccb77eda0106933b84fda58a6bd0cc498df80f8712553ef159e7563604a0d",
	}

	timeNow = func() time.Time { return time.Unix(1700000100, 0) }
	defer func() { timeNow = time.Now }()

	if err := ValidateTelegramWidgetData(fields, botToken, 24*time.Hour); err != nil {
		t.Fatalf("expected reference vector to validate, got: %v", err)
	}

	// Flipping any single field byte must break the hash.
	for _, mutate := range []struct{ key, val string }{
		{"id", "123457"},
		{"first_name", "Alicf"},
		{"username", "alicf"},
		{"auth_date", "1700000001"},
	} {
		bad := map[string]string{}
		for k, v := range fields {
			bad[k] = v
		}
		bad[mutate.key] = mutate.val
		if err := ValidateTelegramWidgetData(bad, botToken, 24*time.Hour); err == nil {
			t.Errorf("mutated field %s accepted, want rejection", mutate.key)
		}
	}
}

func TestValidateTelegramWidgetData_ValidHash(t *testing.T) {
	botToken := "test-bot-token-12345"
	fields := buildWidgetFields(botToken, time.Now().Add(-time.Hour), map[string]string{
		"id":         "42",
		"first_name": "Test",
		"username":   "testuser",
		"photo_url":  "https://t.me/i/userpic/320/test.jpg",
	})

	if err := ValidateTelegramWidgetData(fields, botToken, 24*time.Hour); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateTelegramWidgetData_ExpiryBoundary(t *testing.T) {
	botToken := "test-bot-token-12345"
	authDate := time.Unix(1700000000, 0)
	fields := buildWidgetFields(botToken, authDate, map[string]string{"id": "42"})

	defer func() { timeNow = time.Now }()

	// now - auth_date == 86400: ещё валидно
	timeNow = func() time.Time { return authDate.Add(86400 * time.Second) }
	if err := ValidateTelegramWidgetData(fields, botToken, 24*time.Hour); err != nil {
		t.Errorf("age of exactly 86400s must be accepted, got: %v", err)
	}

	// now - auth_date == 86401: просрочено
	timeNow = func() time.Time { return authDate.Add(86401 * time.Second) }
	err := ValidateTelegramWidgetData(fields, botToken, 24*time.Hour)
	if err == nil {
		t.Fatal("age of 86401s must be rejected")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("expected 'expired' in error, got: %s", err.Error())
	}
}

func TestValidateTelegramWidgetData_WrongToken(t *testing.T) {
	fields := buildWidgetFields("token-a", time.Now(), map[string]string{"id": "42"})

	err := ValidateTelegramWidgetData(fields, "token-b", 24*time.Hour)
	if err == nil {
		t.Fatal("expected error for hash signed with a different token")
	}
}

func TestValidateTelegramWidgetData_MissingHash(t *testing.T) {
	fields := map[string]string{
		"id":        "42",
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
	}
	if err := ValidateTelegramWidgetData(fields, "token", 24*time.Hour); err == nil {
		t.Fatal("expected error for missing hash")
	}
}

func TestValidateTelegramWidgetData_MissingAuthDate(t *testing.T) {
	fields := map[string]string{
		"id":   "42",
		"hash": "deadbeef",
	}
	if err := ValidateTelegramWidgetData(fields, "token", 24*time.Hour); err == nil {
		t.Fatal("expected error for missing auth_date")
	}
}

func TestValidateTelegramWidgetData_EmptyFieldsExcluded(t *testing.T) {
	// Пустые опциональные поля (last_name, photo_url) не входят в check string.
	botToken := "test-bot-token-12345"
	fields := buildWidgetFields(botToken, time.Now(), map[string]string{
		"id":        "42",
		"last_name": "",
		"photo_url": "",
	})

	if err := ValidateTelegramWidgetData(fields, botToken, 24*time.Hour); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}
