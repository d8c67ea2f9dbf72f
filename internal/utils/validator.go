package utils

import (
	"strings"
	"unicode/utf8"
)

const MaxCommentLength = 120

func IsValidEmail(email string) bool {
	at := strings.Index(email, "@")
	dot := strings.LastIndex(email, ".")
	return at > 0 && dot > at+1 && dot < len(email)-1
}

func IsValidPassword(password string) bool {
	return len(password) >= 6
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

func IsValidComment(comment string) bool {
	return comment != "" && utf8.RuneCountInString(comment) <= MaxCommentLength
}
