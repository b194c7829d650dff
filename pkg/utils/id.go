package utils

import "math/rand"

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RoomCodeLength is the length of generated room codes.
const RoomCodeLength = 6

// GenRoomCode returns an uppercase base-36 code of n characters drawn from r.
// r is not safe for concurrent use; callers serialize access.
func GenRoomCode(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[r.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// IsRoomCode reports whether s only uses the code alphabet and is 1..max long.
func IsRoomCode(s string, max int) bool {
	if len(s) == 0 || len(s) > max {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
