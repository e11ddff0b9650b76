package analyzer

// specialChars is the character class treated as "special" throughout
// analysis and scoring.
const specialChars = "!@#$%^&*(),.?\":{}|<>_+=-[]\\;'/~`"

// commonPasswords is the membership list for the common-password check.
// Matching is case-insensitive.
var commonPasswords = map[string]struct{}{
	"password": {}, "123456": {}, "password123": {}, "admin": {},
	"qwerty": {}, "letmein": {}, "welcome": {}, "monkey": {},
	"1234567890": {}, "abc123": {}, "password1": {}, "user": {},
	"login": {}, "master": {}, "hello": {}, "guest": {},
	"administrator": {}, "root": {}, "12345": {}, "qwerty123": {},
	"superman": {}, "michael": {}, "jesus": {}, "ninja": {},
	"mustang": {}, "access": {}, "shadow": {}, "jennifer": {},
	"jordan": {}, "hunter": {}, "fuckyou": {}, "trustno1": {},
	"ranger": {}, "buster": {},
}

// keyboardRuns are the adjacency sequences checked forwards and reversed.
var keyboardRuns = []string{
	"qwerty", "qwertyui", "asdf", "asdfgh", "zxcv", "zxcvbn",
	"1234", "12345", "123456", "1234567890",
}

// dictionaryWords is the substring list for the dictionary-word check.
var dictionaryWords = []string{
	"password", "admin", "user", "guest", "login", "welcome", "hello",
	"world", "love", "money", "home", "time", "people", "water",
	"day", "man", "woman", "child", "life", "work", "school", "year",
}
