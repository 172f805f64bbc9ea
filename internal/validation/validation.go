// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("パスワードは6文字以上で入力してください")
	}
	if len(password) > 128 {
		return fmt.Errorf("パスワードは128文字以内で入力してください")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("メールアドレスの形式が正しくありません")
	}
	if len(email) > 254 {
		return fmt.Errorf("メールアドレスは254文字以内で入力してください")
	}
	return nil
}

// ValidateDisplayName checks the board-visible user name.
func ValidateDisplayName(displayName string) error {
	trimmed := strings.TrimSpace(displayName)
	if trimmed == "" {
		return fmt.Errorf("表示名を入力してください")
	}
	if utf8.RuneCountInString(trimmed) > 20 {
		return fmt.Errorf("表示名は20文字以内で入力してください")
	}
	return nil
}
