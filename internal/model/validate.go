package model

import (
	"errors"
	"strings"
	"unicode"
)

// 与后端 pydantic 校验保持一致的上限 / Bounds matching the backend validation.
const (
	TitleMaxLen       = 200
	DescriptionMaxLen = 2000
	PasswordMinLen    = 8
)

// 校验错误在请求发出前返回，文案与后端/原表单一致
// Validation errors are returned before any request is issued; the wording
// matches what the backend would answer for the same input.
var (
	ErrTitleRequired  = errors.New("Todo title is required")
	ErrTitleTooLong   = errors.New("Todo title must be 200 characters or less")
	ErrDescTooLong    = errors.New("Todo description must be 2000 characters or less")
	ErrEmailRequired  = errors.New("Email is required")
	ErrPasswordShort  = errors.New("Password must be at least 8 characters")
	ErrPasswordUpper  = errors.New("Password must contain at least one uppercase letter")
	ErrPasswordLower  = errors.New("Password must contain at least one lowercase letter")
	ErrPasswordDigit  = errors.New("Password must contain at least one digit")
	ErrPasswordEmpty  = errors.New("Password is required")
	ErrPasswordsDiff  = errors.New("Passwords do not match")
)

// ValidateTodo 校验标题与描述；长度按 rune 计
// ValidateTodo checks the title and description bounds. Lengths are counted
// in runes, so a 200-rune title passes regardless of byte length.
func ValidateTodo(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if len([]rune(title)) > TitleMaxLen {
		return ErrTitleTooLong
	}
	if len([]rune(description)) > DescriptionMaxLen {
		return ErrDescTooLong
	}
	return nil
}

// ValidateSignin 登录前的最小校验
// ValidateSignin is the minimal pre-request check for the signin form.
func ValidateSignin(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if password == "" {
		return ErrPasswordEmpty
	}
	return nil
}

// ValidateSignup 注册表单校验：邮箱必填，密码策略，两次输入一致
// ValidateSignup applies the signup form policy: email required, password of
// at least 8 chars containing upper, lower and digit, and a matching
// confirmation. Hashing is the backend's concern.
func ValidateSignup(email, password, confirm string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if password == "" {
		return ErrPasswordEmpty
	}
	if len(password) < PasswordMinLen {
		return ErrPasswordShort
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return ErrPasswordUpper
	}
	if !hasLower {
		return ErrPasswordLower
	}
	if !hasDigit {
		return ErrPasswordDigit
	}
	if password != confirm {
		return ErrPasswordsDiff
	}
	return nil
}
