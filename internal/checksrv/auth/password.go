package auth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 8

const passwordSpecialChars = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword checks the password complexity rules for new accounts:
// minimum length plus at least one uppercase letter, one lowercase letter,
// one digit, and one special character. The returned error message is
// user-facing.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return fmt.Errorf("パスワードは%d文字以上で入力してください", PasswordMinLength)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecialChars, r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("パスワードには大文字を1文字以上含めてください")
	}
	if !hasLower {
		return fmt.Errorf("パスワードには小文字を1文字以上含めてください")
	}
	if !hasDigit {
		return fmt.Errorf("パスワードには数字を1文字以上含めてください")
	}
	if !hasSpecial {
		return fmt.Errorf("パスワードには特殊文字（!@#$%%^&*など）を1文字以上含めてください")
	}
	return nil
}
