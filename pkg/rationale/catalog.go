package rationale

import (
	"fmt"
	"strings"
)

// Kind is one of the permission kinds the app knows how to explain.
type Kind int

const (
	KindCamera Kind = iota
	KindRecordAudio
	KindCallPhone
	KindReadContacts
	KindReadMediaImages

	kindCount
)

// Manifest identifiers of the supported permissions.
const (
	PermissionCamera          PermissionID = "android.permission.CAMERA"
	PermissionRecordAudio     PermissionID = "android.permission.RECORD_AUDIO"
	PermissionCallPhone       PermissionID = "android.permission.CALL_PHONE"
	PermissionReadContacts    PermissionID = "android.permission.READ_CONTACTS"
	PermissionReadMediaImages PermissionID = "android.permission.READ_MEDIA_IMAGES"
)

const manifestPrefix = "android.permission."

// Entry holds the two rationale texts for a permission kind.
type Entry struct {
	// NormalText explains why the app needs the permission. Shown while the
	// app may still ask again.
	NormalText string
	// PermanentlyDeclinedText points the user to the app settings. Shown once
	// the platform no longer displays the request dialog.
	PermanentlyDeclinedText string
}

const settingsHint = "You can go to the app settings to grant it."

var kinds = [kindCount]struct {
	name       string
	permission PermissionID
	entry      Entry
}{
	KindCamera: {
		name:       "camera",
		permission: PermissionCamera,
		entry: Entry{
			NormalText:              "This app needs to access your camera.",
			PermanentlyDeclinedText: "It seems you permanently declined camera permission. " + settingsHint,
		},
	},
	KindRecordAudio: {
		name:       "record_audio",
		permission: PermissionRecordAudio,
		entry: Entry{
			NormalText:              "This app needs to record audio from your microphone.",
			PermanentlyDeclinedText: "It seems you permanently declined record audio permission. " + settingsHint,
		},
	},
	KindCallPhone: {
		name:       "call_phone",
		permission: PermissionCallPhone,
		entry: Entry{
			NormalText:              "This app needs to make calls and manage the call log.",
			PermanentlyDeclinedText: "It seems you permanently declined phone call permission. " + settingsHint,
		},
	},
	KindReadContacts: {
		name:       "read_contacts",
		permission: PermissionReadContacts,
		entry: Entry{
			NormalText:              "This app needs to access your contacts.",
			PermanentlyDeclinedText: "It seems you permanently declined access to contacts. " + settingsHint,
		},
	},
	KindReadMediaImages: {
		name:       "read_media_images",
		permission: PermissionReadMediaImages,
		entry: Entry{
			NormalText:              "This app needs to access media from your storage.",
			PermanentlyDeclinedText: "It seems you permanently declined access to media images. " + settingsHint,
		},
	},
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// Permission returns the manifest identifier for k.
func (k Kind) Permission() PermissionID {
	if !k.Valid() {
		return ""
	}
	return kinds[k].permission
}

// Entry returns the rationale texts for k.
func (k Kind) Entry() (Entry, bool) {
	if !k.Valid() {
		return Entry{}, false
	}
	return kinds[k].entry, true
}

// KindOf resolves a permission identifier. Both the full manifest name
// ("android.permission.CAMERA") and the short form ("CAMERA") are accepted.
func KindOf(permission PermissionID) (Kind, bool) {
	short := strings.TrimPrefix(string(permission), manifestPrefix)
	for k := Kind(0); k < kindCount; k++ {
		if strings.TrimPrefix(string(kinds[k].permission), manifestPrefix) == short {
			return k, true
		}
	}
	return 0, false
}

// Lookup returns the rationale entry for a permission identifier.
func Lookup(permission PermissionID) (Entry, error) {
	k, ok := KindOf(permission)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnrecognizedPermission, permission)
	}
	return kinds[k].entry, nil
}

// Describe returns the text to show for a denied permission. When
// permanentlyDeclined is set the settings-redirect text is returned instead of
// the normal explanation.
func Describe(permission PermissionID, permanentlyDeclined bool) (string, error) {
	e, err := Lookup(permission)
	if err != nil {
		return "", err
	}
	if permanentlyDeclined {
		return e.PermanentlyDeclinedText, nil
	}
	return e.NormalText, nil
}
