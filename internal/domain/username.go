package domain

import (
	"regexp"
	"strings"
	"time"
)

// usernameRe is the only accepted username shape: latin letters, digits and
// underscore, 3 to 20 characters.
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// ValidUsername reports whether username matches the accepted shape.
func ValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// AvatarInitials derives the two-letter avatar fallback for a username.
func AvatarInitials(username string) string {
	parts := strings.Fields(username)
	if len(parts) >= 2 {
		return strings.ToUpper(parts[0][:1] + parts[1][:1])
	}
	r := []rune(username)
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

// UsernameChangeCooldown is the minimum interval between username changes.
const UsernameChangeCooldown = 72 * time.Hour

// CanChangeUsername reports whether a username change is allowed given the
// time of the previous change. A nil lastChanged means the username was never
// changed. Exactly 72 hours elapsed counts as allowed. When the change is not
// allowed, daysLeft is 3 minus the number of whole days already elapsed.
func CanChangeUsername(lastChanged *time.Time, now time.Time) (ok bool, daysLeft int) {
	if lastChanged == nil {
		return true, 0
	}
	elapsed := now.Sub(*lastChanged)
	if elapsed >= UsernameChangeCooldown {
		return true, 0
	}
	return false, 3 - int(elapsed.Hours()/24)
}
