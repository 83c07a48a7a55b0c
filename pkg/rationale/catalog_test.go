package rationale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_Camera(t *testing.T) {
	normal, err := Describe(PermissionCamera, false)
	require.NoError(t, err)
	declined, err := Describe(PermissionCamera, true)
	require.NoError(t, err)

	assert.Equal(t, "This app needs to access your camera.", normal)
	assert.Contains(t, declined, "app settings")
	assert.NotEqual(t, normal, declined)
}

func TestDescribe_EveryKindHasDistinctTexts(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			e, ok := k.Entry()
			require.True(t, ok)
			assert.NotEmpty(t, e.NormalText)
			assert.NotEmpty(t, e.PermanentlyDeclinedText)
			assert.NotEqual(t, e.NormalText, e.PermanentlyDeclinedText)

			got, err := Describe(k.Permission(), true)
			require.NoError(t, err)
			assert.Equal(t, e.PermanentlyDeclinedText, got)
		})
	}
}

func TestDescribe_Unrecognized(t *testing.T) {
	_, err := Describe("android.permission.BODY_SENSORS", false)
	assert.ErrorIs(t, err, ErrUnrecognizedPermission)
	assert.Contains(t, err.Error(), "BODY_SENSORS")
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		id     PermissionID
		want   Kind
		wantOK bool
	}{
		{"android.permission.CAMERA", KindCamera, true},
		{"CAMERA", KindCamera, true},
		{"RECORD_AUDIO", KindRecordAudio, true},
		{"android.permission.CALL_PHONE", KindCallPhone, true},
		{"READ_CONTACTS", KindReadContacts, true},
		{"android.permission.READ_MEDIA_IMAGES", KindReadMediaImages, true},
		{"camera", 0, false},
		{"", 0, false},
		{"android.permission.", 0, false},
	}
	for _, tt := range tests {
		got, ok := KindOf(tt.id)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("KindOf(%q) = %v, %v; want %v, %v", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestKindInvalid(t *testing.T) {
	k := Kind(42)
	assert.False(t, k.Valid())
	assert.Equal(t, "Kind(42)", k.String())
	assert.Empty(t, k.Permission())
	_, ok := k.Entry()
	assert.False(t, ok)
}

func TestKindsOrder(t *testing.T) {
	assert.Equal(t, []Kind{
		KindCamera, KindRecordAudio, KindCallPhone, KindReadContacts, KindReadMediaImages,
	}, Kinds())
}
