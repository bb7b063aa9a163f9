package api

import (
	"net/http"
	"time"
)

// FlashCookieName carries a one-shot message to the next page.
const FlashCookieName = "flash"

// Flash keys. The cookie holds the key, never the message text.
const (
	FlashProfileSaved = "profile_saved"
)

var flashMessages = map[string]string{
	FlashProfileSaved: "Your role and team were saved successfully!",
}

func setFlash(w http.ResponseWriter, key string) {
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns the pending message, if any, and clears the cookie so it
// is shown once. Unknown keys yield no message.
func takeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(FlashCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	return flashMessages[c.Value]
}
