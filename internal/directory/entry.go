package directory

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
)

// Entry describes the account object created for an activated identity.
type Entry struct {
	// LoginName becomes the uid attribute; it is the identity's email.
	LoginName string
	// DisplayName becomes the cn attribute.
	DisplayName string
	// UID is the numeric account identifier; gidNumber is set to the same
	// value.
	UID int64
}

// objectClasses identifies a generic account entry with the password-aging
// extension.
var objectClasses = []string{"account", "posixAccount", "top", "shadowAccount"}

// shadowDefaults are the account-aging attributes, fixed to non-expiring
// values. shadowLastChange is an arbitrary epoch-day constant carried over
// from the first deployment.
var shadowDefaults = map[string]string{
	"shadowLastChange": "538",
	"shadowMin":        "0",
	"shadowMax":        "999999",
	"shadowWarning":    "22",
	"shadowInactive":   "15",
	"shadowExpire":     "-1",
	"shadowFlag":       "0",
}

// attribute is one LDAP attribute in insertion order.
type attribute struct {
	name   string
	values []string
}

// attributes renders the full attribute set for the add request, including an
// initial password no bind can ever match. The account stays unusable until a
// password is established through the reset flow.
func (e Entry) attributes() []attribute {
	attrs := []attribute{
		{"objectClass", objectClasses},
		{"uid", []string{e.LoginName}},
		{"cn", []string{e.DisplayName}},
		{"uidNumber", []string{strconv.FormatInt(e.UID, 10)}},
		{"gidNumber", []string{strconv.FormatInt(e.UID, 10)}},
		{"homeDirectory", []string{"/"}},
		{"userPassword", []string{unusablePassword()}},
	}
	for _, name := range []string{
		"shadowLastChange", "shadowMin", "shadowMax", "shadowWarning",
		"shadowInactive", "shadowExpire", "shadowFlag",
	} {
		attrs = append(attrs, attribute{name, []string{shadowDefaults[name]}})
	}
	return attrs
}

// unusablePassword produces a marker value that no simple bind can satisfy:
// the leading "!" is not a valid password scheme and the suffix is random.
func unusablePassword() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the process is in no state to provision
		// accounts at all.
		panic("directory: unusable password entropy: " + err.Error())
	}
	return "!" + hex.EncodeToString(buf)
}
