package util

import (
	"regexp"
)

// IsValidEmail verifies if the email format is correct
// IsValidEmail 验证邮箱格式是否正确
func IsValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	reg := regexp.MustCompile(pattern)
	return reg.MatchString(email)
}
